package db

const (
	MediaProviderLocal      = "local"
	MediaProviderCloudinary = "cloudinary"
)

// MediaAsset 定义上传图片的元数据
type MediaAsset struct {
	Model
	Provider     string `gorm:"size:20;not null" json:"provider"`
	PublicID     string `gorm:"size:255;index" json:"publicId"`
	URL          string `gorm:"size:512;not null" json:"url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Bytes        int64  `json:"bytes"`
	ContentType  string `gorm:"size:60" json:"contentType"`
	OriginalName string `gorm:"size:255" json:"originalName"`
}
