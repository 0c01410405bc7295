package db

import "time"

const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

// Career 定义了招聘职位
type Career struct {
	Model
	Title            string     `gorm:"size:255;not null" json:"title"`
	Slug             string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Department       string     `gorm:"size:120;index" json:"department"`
	Location         string     `gorm:"size:160" json:"location"`
	EmploymentType   string     `gorm:"size:30" json:"employmentType"`
	ExperienceLevel  string     `gorm:"size:60" json:"experienceLevel"`
	Summary          string     `gorm:"type:text" json:"summary"`
	Description      string     `gorm:"type:text" json:"description"`
	Responsibilities []string   `gorm:"type:text;serializer:json" json:"responsibilities"`
	Requirements     []string   `gorm:"type:text;serializer:json" json:"requirements"`
	Benefits         []string   `gorm:"type:text;serializer:json" json:"benefits"`
	ApplyEmail       string     `gorm:"size:255" json:"applyEmail"`
	ApplyURL         string     `gorm:"size:512" json:"applyUrl"`
	IsActive         bool       `gorm:"index" json:"isActive"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	SortOrder        int        `gorm:"default:0" json:"sortOrder"`
}
