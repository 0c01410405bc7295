package db

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Blog 定义了博客文章模型
type Blog struct {
	Model
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Content     string     `gorm:"type:text" json:"content"`
	CoverImage  string     `gorm:"size:512" json:"coverImage"`
	Author      string     `gorm:"size:120" json:"author"`
	Category    string     `gorm:"size:120;index" json:"category"`
	Tags        []string   `gorm:"type:text;serializer:json" json:"tags"`
	Status      string     `gorm:"size:20;index;default:draft" json:"status"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt,omitempty"`
	ReadingTime int        `json:"readingTime"`
}
