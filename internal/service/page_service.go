package service

import (
	"errors"
	"strings"

	"github.com/ticsite/internal/content"
	"github.com/ticsite/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound        = errors.New("page not found")
	ErrPageTitleRequired   = errors.New("page title is required")
	ErrPageStatusInvalid   = errors.New("page status is invalid")
	ErrSectionNotFound     = errors.New("section not found")
	ErrSectionKeyExists    = errors.New("section key already exists on page")
	ErrSectionTypeInvalid  = errors.New("section type is invalid")
	ErrSectionKeyRequired  = errors.New("section key is required")
	ErrSectionPageMismatch = errors.New("section does not belong to page")
)

var sectionTypes = map[string]struct{}{
	db.SectionHero:    {},
	db.SectionText:    {},
	db.SectionCards:   {},
	db.SectionStats:   {},
	db.SectionGallery: {},
	db.SectionCTA:     {},
}

// PageService provides access to content pages and their sections.
type PageService struct {
	db *gorm.DB
}

// PageInput represents the editable page fields.
type PageInput struct {
	Slug            string
	Title           string
	MetaTitle       string
	MetaDescription string
	Status          string
}

// SectionInput represents the editable section fields.
type SectionInput struct {
	Key       string
	Type      string
	Title     string
	Subtitle  string
	Content   string
	ImageURL  string
	CTALabel  string
	CTALink   string
	Items     []db.SectionItem
	SortOrder *int
	IsVisible bool
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// List returns all pages without sections, ordered by slug.
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("slug asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Get fetches a page with every section, ordered.
func (s *PageService) Get(id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.Preload("Sections", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order asc").Order("id asc")
	}).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// GetPublishedBySlug fetches a published page with its visible sections.
func (s *PageService) GetPublishedBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Preload("Sections", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_visible = ?", true).Order("sort_order asc").Order("id asc")
	}).Where("slug = ? AND status = ?", strings.TrimSpace(slug), db.StatusPublished).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Create inserts a page.
func (s *PageService) Create(input PageInput) (*db.Page, error) {
	page := db.Page{}
	if err := applyPageInput(&page, input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, &db.Page{}, firstNonEmpty(input.Slug, input.Title), "page", 0)
		if err != nil {
			return err
		}
		page.Slug = slug
		return tx.Create(&page).Error
	})
	if err != nil {
		return nil, err
	}
	page.Sections = []db.Section{}
	return &page, nil
}

// Update changes page metadata.
func (s *PageService) Update(id uint, input PageInput) (*db.Page, error) {
	page, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyPageInput(page, input); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if requested := strings.TrimSpace(input.Slug); requested != "" && content.Slugify(requested) != page.Slug {
			slug, err := uniqueSlug(tx, &db.Page{}, requested, "page", page.ID)
			if err != nil {
				return err
			}
			page.Slug = slug
		}
		return tx.Omit("Sections").Save(page).Error
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Delete removes a page and its sections.
func (s *PageService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("page_id = ?", id).Delete(&db.Section{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&db.Page{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPageNotFound
		}
		return nil
	})
}

// AddSection appends a section to a page.
func (s *PageService) AddSection(pageID uint, input SectionInput) (*db.Section, error) {
	if _, err := s.Get(pageID); err != nil {
		return nil, err
	}

	section := db.Section{PageID: pageID}
	if err := applySectionInput(&section, input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureSectionKeyFree(tx, pageID, section.Key, 0); err != nil {
			return err
		}
		if input.SortOrder == nil {
			var maxOrder int
			if err := tx.Model(&db.Section{}).
				Where("page_id = ?", pageID).
				Select("COALESCE(MAX(sort_order), -1)").
				Scan(&maxOrder).Error; err != nil {
				return err
			}
			section.SortOrder = maxOrder + 1
		}
		return tx.Create(&section).Error
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// GetSection fetches one section.
func (s *PageService) GetSection(id uint) (*db.Section, error) {
	var section db.Section
	if err := s.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// UpdateSection modifies a section.
func (s *PageService) UpdateSection(id uint, input SectionInput) (*db.Section, error) {
	section, err := s.GetSection(id)
	if err != nil {
		return nil, err
	}
	if err := applySectionInput(section, input); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureSectionKeyFree(tx, section.PageID, section.Key, section.ID); err != nil {
			return err
		}
		return tx.Save(section).Error
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection removes a section.
func (s *PageService) DeleteSection(id uint) error {
	result := s.db.Unscoped().Delete(&db.Section{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// ReorderSections updates section order of one page.
func (s *PageService) ReorderSections(pageID uint, ids []uint) error {
	if _, err := s.Get(pageID); err != nil {
		return err
	}
	return applyOrder(s.db, &db.Section{}, ids, ErrSectionPageMismatch, func(q *gorm.DB) *gorm.DB {
		return q.Where("page_id = ?", pageID)
	})
}

func ensureSectionKeyFree(tx *gorm.DB, pageID uint, key string, excludeID uint) error {
	var count int64
	query := tx.Unscoped().Model(&db.Section{}).Where("page_id = ? AND `key` = ?", pageID, key)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSectionKeyExists
	}
	return nil
}

func applyPageInput(page *db.Page, input PageInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrPageTitleRequired
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = db.StatusPublished
	}
	if status != db.StatusPublished && status != db.StatusDraft {
		return ErrPageStatusInvalid
	}

	page.Title = title
	page.MetaTitle = strings.TrimSpace(input.MetaTitle)
	page.MetaDescription = strings.TrimSpace(input.MetaDescription)
	page.Status = status
	return nil
}

func applySectionInput(section *db.Section, input SectionInput) error {
	key := content.Slugify(input.Key)
	if key == "" {
		return ErrSectionKeyRequired
	}
	kind := strings.ToLower(strings.TrimSpace(input.Type))
	if kind == "" {
		kind = db.SectionText
	}
	if _, ok := sectionTypes[kind]; !ok {
		return ErrSectionTypeInvalid
	}

	items := make([]db.SectionItem, 0, len(input.Items))
	for _, item := range input.Items {
		item.Title = strings.TrimSpace(item.Title)
		item.Description = strings.TrimSpace(item.Description)
		item.Icon = strings.TrimSpace(item.Icon)
		item.ImageURL = strings.TrimSpace(item.ImageURL)
		item.Link = strings.TrimSpace(item.Link)
		if item.Title == "" && item.Description == "" && item.ImageURL == "" {
			continue
		}
		items = append(items, item)
	}

	section.Key = key
	section.Type = kind
	section.Title = strings.TrimSpace(input.Title)
	section.Subtitle = strings.TrimSpace(input.Subtitle)
	section.Content = strings.TrimSpace(input.Content)
	section.ImageURL = strings.TrimSpace(input.ImageURL)
	section.CTALabel = strings.TrimSpace(input.CTALabel)
	section.CTALink = strings.TrimSpace(input.CTALink)
	section.Items = items
	section.IsVisible = input.IsVisible
	if input.SortOrder != nil {
		section.SortOrder = *input.SortOrder
	}
	return nil
}
