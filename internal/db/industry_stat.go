package db

// IndustryStat is a headline figure shown on the industries section, e.g. "500+ clients".
type IndustryStat struct {
	Model
	Industry    string `gorm:"size:80;index" json:"industry"`
	Label       string `gorm:"size:160;not null" json:"label"`
	Value       string `gorm:"size:40;not null" json:"value"`
	Icon        string `gorm:"size:60" json:"icon"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`
}
