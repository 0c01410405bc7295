package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ticsite/internal/content"
	"github.com/ticsite/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound      = errors.New("blog not found")
	ErrBlogTitleRequired = errors.New("blog title is required")
	ErrBlogStatusInvalid = errors.New("blog status is invalid")
)

// BlogService wraps blog related database operations.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// BlogFilter describes filters for listing blogs.
type BlogFilter struct {
	Search   string
	Category string
	Tag      string
	Status   string
	Page     int
	PerPage  int
}

// BlogListResult aggregates paginated list data and counters.
type BlogListResult struct {
	Blogs          []db.Blog
	Pagination     Pagination
	PublishedCount int64
	DraftCount     int64
}

// BlogInput represents fields accepted when creating or updating a blog.
type BlogInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Author     string
	Category   string
	Tags       []string
	Status     string
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: time.Now}
}

// List provides paginated blogs with aggregated counters based on filters.
func (s *BlogService) List(filter BlogFilter) (*BlogListResult, error) {
	var total int64
	if err := s.applyFilters(s.db.Model(&db.Blog{}), filter, true).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count blogs: %w", err)
	}

	result := &BlogListResult{Pagination: NewPagination(filter.Page, filter.PerPage, total)}

	orderBy := "created_at desc, id desc"
	if strings.EqualFold(filter.Status, db.StatusPublished) {
		orderBy = "published_at desc, id desc"
	}

	if err := s.applyFilters(s.db.Model(&db.Blog{}), filter, true).
		Order(orderBy).
		Limit(result.Pagination.Limit).
		Offset(result.Pagination.Offset()).
		Find(&result.Blogs).Error; err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	withoutStatus := filter
	withoutStatus.Status = ""

	if err := s.applyFilters(s.db.Model(&db.Blog{}), withoutStatus, false).
		Where("status = ?", db.StatusPublished).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := s.applyFilters(s.db.Model(&db.Blog{}), withoutStatus, false).
		Where("status = ?", db.StatusDraft).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (s *BlogService) applyFilters(query *gorm.DB, filter BlogFilter, includeStatus bool) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := likePattern(search)
		query = query.Where("(title LIKE ? OR excerpt LIKE ? OR content LIKE ?)", like, like, like)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		// tags 以 JSON 数组保存，匹配带引号的完整元素
		query = query.Where("LOWER(tags) LIKE LOWER(?)", "%\""+strings.ReplaceAll(tag, "\"", "")+"\"%")
	}
	if includeStatus && strings.TrimSpace(filter.Status) != "" {
		query = query.Where("status = ?", strings.ToLower(strings.TrimSpace(filter.Status)))
	}
	return query
}

// Get fetches a blog by id.
func (s *BlogService) Get(id uint) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetPublishedBySlug fetches a published blog for the public site.
func (s *BlogService) GetPublishedBySlug(slug string) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.Where("slug = ? AND status = ?", strings.TrimSpace(slug), db.StatusPublished).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Related returns other published blogs of the same category, newest first.
func (s *BlogService) Related(blog *db.Blog, limit int) ([]db.Blog, error) {
	if blog == nil {
		return []db.Blog{}, nil
	}
	if limit <= 0 {
		limit = 3
	}

	query := s.db.Where("status = ? AND id <> ?", db.StatusPublished, blog.ID)
	if strings.TrimSpace(blog.Category) != "" {
		query = query.Where("category = ?", blog.Category)
	}

	var related []db.Blog
	if err := query.Order("published_at desc, id desc").Limit(limit).Find(&related).Error; err != nil {
		return nil, err
	}
	return related, nil
}

// Categories returns distinct categories of published blogs.
func (s *BlogService) Categories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&db.Blog{}).
		Where("status = ? AND category <> ''", db.StatusPublished).
		Distinct().
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create persists a new blog.
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	blog := db.Blog{}
	if err := s.apply(&blog, input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, &db.Blog{}, firstNonEmpty(input.Slug, input.Title), "blog", 0)
		if err != nil {
			return err
		}
		blog.Slug = slug
		return tx.Create(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update applies updates to an existing blog.
func (s *BlogService) Update(id uint, input BlogInput) (*db.Blog, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(existing, input); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if requested := strings.TrimSpace(input.Slug); requested != "" && content.Slugify(requested) != existing.Slug {
			slug, err := uniqueSlug(tx, &db.Blog{}, requested, "blog", existing.ID)
			if err != nil {
				return err
			}
			existing.Slug = slug
		}
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *BlogService) apply(blog *db.Blog, input BlogInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrBlogTitleRequired
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = db.StatusDraft
	}
	if status != db.StatusDraft && status != db.StatusPublished {
		return ErrBlogStatusInvalid
	}

	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = content.PlainText(input.Content, 180)
	}

	blog.Title = title
	blog.Excerpt = excerpt
	blog.Content = strings.TrimSpace(input.Content)
	blog.CoverImage = strings.TrimSpace(input.CoverImage)
	blog.Author = strings.TrimSpace(input.Author)
	blog.Category = strings.TrimSpace(input.Category)
	blog.Tags = cleanList(input.Tags)
	blog.Status = status
	blog.ReadingTime = content.ReadingTime(blog.Content)

	// 首次发布时记录发布时间，取消发布保留原时间
	if status == db.StatusPublished && blog.PublishedAt == nil {
		now := s.now().UTC()
		blog.PublishedAt = &now
	}
	return nil
}

// Delete removes a blog by id.
func (s *BlogService) Delete(id uint) error {
	result := s.db.Delete(&db.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
