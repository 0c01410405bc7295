package service

import (
	"fmt"

	"github.com/ticsite/internal/db"
	"gorm.io/gorm"
)

// DashboardStats 汇总后台首页展示的计数。
type DashboardStats struct {
	Blogs             int64 `json:"blogs"`
	PublishedBlogs    int64 `json:"publishedBlogs"`
	Careers           int64 `json:"careers"`
	ActiveCareers     int64 `json:"activeCareers"`
	ContactOffices    int64 `json:"contactOffices"`
	IndustryStats     int64 `json:"industryStats"`
	Pages             int64 `json:"pages"`
	Messages          int64 `json:"messages"`
	UnreadMessages    int64 `json:"unreadMessages"`
	MediaAssets       int64 `json:"mediaAssets"`
	Translations      int64 `json:"translations"`
	TranslationMemory int64 `json:"translationMemory"`
}

// DashboardService collects counters across entities.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{db: gdb}
}

// Stats returns the current counters.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	counts := []struct {
		name  string
		dst   *int64
		query *gorm.DB
	}{
		{"blogs", &stats.Blogs, s.db.Model(&db.Blog{})},
		{"published blogs", &stats.PublishedBlogs, s.db.Model(&db.Blog{}).Where("status = ?", db.StatusPublished)},
		{"careers", &stats.Careers, s.db.Model(&db.Career{})},
		{"active careers", &stats.ActiveCareers, s.db.Model(&db.Career{}).Where("is_active = ?", true)},
		{"contact offices", &stats.ContactOffices, s.db.Model(&db.ContactOffice{})},
		{"industry stats", &stats.IndustryStats, s.db.Model(&db.IndustryStat{})},
		{"pages", &stats.Pages, s.db.Model(&db.Page{})},
		{"messages", &stats.Messages, s.db.Model(&db.ContactMessage{})},
		{"unread messages", &stats.UnreadMessages, s.db.Model(&db.ContactMessage{}).Where("status = ?", db.MessageNew)},
		{"media", &stats.MediaAssets, s.db.Model(&db.MediaAsset{})},
		{"translations", &stats.Translations, s.db.Model(&db.ContentTranslation{})},
		{"translation memory", &stats.TranslationMemory, s.db.Model(&db.TranslationMemory{})},
	}

	for _, item := range counts {
		if err := item.query.Count(item.dst).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", item.name, err)
		}
	}
	return stats, nil
}
