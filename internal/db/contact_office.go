package db

// ContactOffice 用于保存前台展示的办公室联系信息
// Latitude/Longitude 由地理编码补全，缺失时前台不显示地图标记
// Sort 值越小越靠前，总部始终排在最前
type ContactOffice struct {
	Model
	Name           string   `gorm:"size:160;not null" json:"name"`
	Country        string   `gorm:"size:80" json:"country"`
	City           string   `gorm:"size:80" json:"city"`
	Address        string   `gorm:"size:255" json:"address"`
	Phone          string   `gorm:"size:60" json:"phone"`
	Email          string   `gorm:"size:255" json:"email"`
	WorkingHours   string   `gorm:"size:160" json:"workingHours"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	IsHeadquarters bool     `json:"isHeadquarters"`
	IsActive       bool     `gorm:"index" json:"isActive"`
	SortOrder      int      `gorm:"default:0" json:"sortOrder"`
}

// TableName 返回自定义表名
func (ContactOffice) TableName() string {
	return "contact_offices"
}
