package service

import (
	"errors"
	"strings"

	"github.com/ticsite/internal/db"
	"gorm.io/gorm"
)

var (
	ErrIndustryStatNotFound = errors.New("industry stat not found")
	ErrIndustryStatInvalid  = errors.New("industry stat label and value are required")
)

// IndustryStatService handles the headline figures on the industries section.
type IndustryStatService struct {
	db *gorm.DB
}

// IndustryStatInput represents fields accepted when creating or updating a stat.
type IndustryStatInput struct {
	Industry    string
	Label       string
	Value       string
	Icon        string
	Description string
	SortOrder   int
}

// NewIndustryStatService creates an IndustryStatService instance.
func NewIndustryStatService(gdb *gorm.DB) *IndustryStatService {
	return &IndustryStatService{db: gdb}
}

// List returns stats ordered by configured sort order, optionally for one industry.
func (s *IndustryStatService) List(industry string) ([]db.IndustryStat, error) {
	query := s.db.Model(&db.IndustryStat{})
	if trimmed := strings.TrimSpace(industry); trimmed != "" {
		query = query.Where("LOWER(industry) = LOWER(?)", trimmed)
	}

	var stats []db.IndustryStat
	if err := query.Order("sort_order asc").Order("id asc").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Get fetches a stat by id.
func (s *IndustryStatService) Get(id uint) (*db.IndustryStat, error) {
	var stat db.IndustryStat
	if err := s.db.First(&stat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIndustryStatNotFound
		}
		return nil, err
	}
	return &stat, nil
}

// Create inserts a new stat at the end of the list unless a sort order is given.
func (s *IndustryStatService) Create(input IndustryStatInput) (*db.IndustryStat, error) {
	stat := db.IndustryStat{}
	if err := applyIndustryStatInput(&stat, input); err != nil {
		return nil, err
	}

	if stat.SortOrder == 0 {
		next, err := s.nextSortOrder()
		if err != nil {
			return nil, err
		}
		stat.SortOrder = next
	}

	if err := s.db.Create(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

// Update modifies an existing stat.
func (s *IndustryStatService) Update(id uint, input IndustryStatInput) (*db.IndustryStat, error) {
	stat, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyIndustryStatInput(stat, input); err != nil {
		return nil, err
	}
	if err := s.db.Save(stat).Error; err != nil {
		return nil, err
	}
	return stat, nil
}

// Delete removes a stat.
func (s *IndustryStatService) Delete(id uint) error {
	result := s.db.Delete(&db.IndustryStat{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIndustryStatNotFound
	}
	return nil
}

// Reorder updates stat sort order based on the provided ids sequence.
func (s *IndustryStatService) Reorder(ids []uint) error {
	return applyOrder(s.db, &db.IndustryStat{}, ids, ErrIndustryStatNotFound, nil)
}

func (s *IndustryStatService) nextSortOrder() (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.IndustryStat{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func applyIndustryStatInput(stat *db.IndustryStat, input IndustryStatInput) error {
	label := strings.TrimSpace(input.Label)
	value := strings.TrimSpace(input.Value)
	if label == "" || value == "" {
		return ErrIndustryStatInvalid
	}

	stat.Industry = strings.ToLower(strings.TrimSpace(input.Industry))
	stat.Label = label
	stat.Value = value
	stat.Icon = strings.TrimSpace(input.Icon)
	stat.Description = strings.TrimSpace(input.Description)
	stat.SortOrder = input.SortOrder
	return nil
}
