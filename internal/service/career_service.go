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
	ErrCareerNotFound       = errors.New("career not found")
	ErrCareerTitleRequired  = errors.New("career title is required")
	ErrCareerTypeInvalid    = errors.New("employment type is invalid")
	ErrCareerContactMissing = errors.New("apply email or apply url is required")
)

var employmentTypes = []string{
	db.EmploymentFullTime,
	db.EmploymentPartTime,
	db.EmploymentContract,
	db.EmploymentInternship,
}

// CareerService handles job openings.
type CareerService struct {
	db  *gorm.DB
	now func() time.Time
}

// CareerFilter describes filters for listing careers.
type CareerFilter struct {
	Search         string
	Department     string
	Location       string
	EmploymentType string
	// PublicOnly limits results to active careers whose deadline has not passed.
	PublicOnly bool
	Page       int
	PerPage    int
}

// CareerListResult aggregates paginated careers.
type CareerListResult struct {
	Careers    []db.Career
	Pagination Pagination
}

// CareerInput represents fields accepted when creating or updating a career.
type CareerInput struct {
	Title            string
	Slug             string
	Department       string
	Location         string
	EmploymentType   string
	ExperienceLevel  string
	Summary          string
	Description      string
	Responsibilities []string
	Requirements     []string
	Benefits         []string
	ApplyEmail       string
	ApplyURL         string
	IsActive         bool
	Deadline         *time.Time
	SortOrder        int
}

// NewCareerService creates a CareerService instance.
func NewCareerService(gdb *gorm.DB) *CareerService {
	return &CareerService{db: gdb, now: time.Now}
}

// List returns careers matching the filter ordered by sort order then newest.
func (s *CareerService) List(filter CareerFilter) (*CareerListResult, error) {
	var total int64
	if err := s.applyFilters(s.db.Model(&db.Career{}), filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count careers: %w", err)
	}

	result := &CareerListResult{Pagination: NewPagination(filter.Page, filter.PerPage, total)}
	if err := s.applyFilters(s.db.Model(&db.Career{}), filter).
		Order("sort_order asc").
		Order("created_at desc").
		Limit(result.Pagination.Limit).
		Offset(result.Pagination.Offset()).
		Find(&result.Careers).Error; err != nil {
		return nil, fmt.Errorf("list careers: %w", err)
	}
	return result, nil
}

func (s *CareerService) applyFilters(query *gorm.DB, filter CareerFilter) *gorm.DB {
	if filter.PublicOnly {
		query = query.Where("is_active = ?", true).
			Where("(deadline IS NULL OR deadline >= ?)", s.now().UTC())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := likePattern(search)
		query = query.Where("(title LIKE ? OR summary LIKE ? OR description LIKE ?)", like, like, like)
	}
	if department := strings.TrimSpace(filter.Department); department != "" {
		query = query.Where("LOWER(department) = LOWER(?)", department)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("location LIKE ?", likePattern(location))
	}
	if kind := strings.ToLower(strings.TrimSpace(filter.EmploymentType)); kind != "" {
		query = query.Where("employment_type = ?", kind)
	}
	return query
}

// Departments returns distinct departments of publicly visible careers.
func (s *CareerService) Departments() ([]string, error) {
	var departments []string
	if err := s.applyFilters(s.db.Model(&db.Career{}), CareerFilter{PublicOnly: true}).
		Where("department <> ''").
		Distinct().
		Order("department asc").
		Pluck("department", &departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Get fetches a career by id.
func (s *CareerService) Get(id uint) (*db.Career, error) {
	var career db.Career
	if err := s.db.First(&career, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCareerNotFound
		}
		return nil, err
	}
	return &career, nil
}

// GetActiveBySlug fetches a publicly visible career.
func (s *CareerService) GetActiveBySlug(slug string) (*db.Career, error) {
	var career db.Career
	query := s.applyFilters(s.db.Model(&db.Career{}), CareerFilter{PublicOnly: true})
	if err := query.Where("slug = ?", strings.TrimSpace(slug)).First(&career).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCareerNotFound
		}
		return nil, err
	}
	return &career, nil
}

// Create inserts a new career.
func (s *CareerService) Create(input CareerInput) (*db.Career, error) {
	career := db.Career{}
	if err := applyCareerInput(&career, input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, &db.Career{}, firstNonEmpty(input.Slug, input.Title), "career", 0)
		if err != nil {
			return err
		}
		career.Slug = slug
		return tx.Create(&career).Error
	})
	if err != nil {
		return nil, err
	}
	return &career, nil
}

// Update modifies an existing career.
func (s *CareerService) Update(id uint, input CareerInput) (*db.Career, error) {
	career, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyCareerInput(career, input); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if requested := strings.TrimSpace(input.Slug); requested != "" && content.Slugify(requested) != career.Slug {
			slug, err := uniqueSlug(tx, &db.Career{}, requested, "career", career.ID)
			if err != nil {
				return err
			}
			career.Slug = slug
		}
		return tx.Save(career).Error
	})
	if err != nil {
		return nil, err
	}
	return career, nil
}

// Delete removes a career.
func (s *CareerService) Delete(id uint) error {
	result := s.db.Delete(&db.Career{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCareerNotFound
	}
	return nil
}

func applyCareerInput(career *db.Career, input CareerInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrCareerTitleRequired
	}

	kind := strings.ToLower(strings.TrimSpace(input.EmploymentType))
	if kind == "" {
		kind = db.EmploymentFullTime
	}
	valid := false
	for _, candidate := range employmentTypes {
		if candidate == kind {
			valid = true
			break
		}
	}
	if !valid {
		return ErrCareerTypeInvalid
	}

	applyEmail := db.NormalizeEmail(input.ApplyEmail)
	applyURL := strings.TrimSpace(input.ApplyURL)
	if input.IsActive && applyEmail == "" && applyURL == "" {
		return ErrCareerContactMissing
	}

	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		summary = content.PlainText(input.Description, 200)
	}

	career.Title = title
	career.Department = strings.TrimSpace(input.Department)
	career.Location = strings.TrimSpace(input.Location)
	career.EmploymentType = kind
	career.ExperienceLevel = strings.TrimSpace(input.ExperienceLevel)
	career.Summary = summary
	career.Description = strings.TrimSpace(input.Description)
	career.Responsibilities = cleanList(input.Responsibilities)
	career.Requirements = cleanList(input.Requirements)
	career.Benefits = cleanList(input.Benefits)
	career.ApplyEmail = applyEmail
	career.ApplyURL = applyURL
	career.IsActive = input.IsActive
	career.Deadline = nil
	if input.Deadline != nil && !input.Deadline.IsZero() {
		// sqlite 以文本比较时间，统一存为 UTC
		deadline := input.Deadline.UTC()
		career.Deadline = &deadline
	}
	career.SortOrder = input.SortOrder
	return nil
}
