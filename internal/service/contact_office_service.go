package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOfficeNotFound     = errors.New("contact office not found")
	ErrOfficeNameRequired = errors.New("office name is required")
	ErrOfficeCoordinates  = errors.New("office coordinates are out of range")
)

// ContactOfficeService manages office addresses shown on the contact page.
type ContactOfficeService struct {
	db       *gorm.DB
	geocoder Geocoder
	logger   *zap.Logger
}

// ContactOfficeInput represents fields accepted when creating or updating an office.
type ContactOfficeInput struct {
	Name           string
	Country        string
	City           string
	Address        string
	Phone          string
	Email          string
	WorkingHours   string
	Latitude       *float64
	Longitude      *float64
	IsHeadquarters bool
	IsActive       bool
	SortOrder      int
}

// NewContactOfficeService creates the service. geocoder may be nil, in which
// case offices keep whatever coordinates the editor supplied.
func NewContactOfficeService(gdb *gorm.DB, geocoder Geocoder, logger *zap.Logger) *ContactOfficeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactOfficeService{db: gdb, geocoder: geocoder, logger: logger}
}

// List returns offices with the headquarters first, then by sort order.
func (s *ContactOfficeService) List(activeOnly bool) ([]db.ContactOffice, error) {
	query := s.db.Model(&db.ContactOffice{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var offices []db.ContactOffice
	if err := query.
		Order("is_headquarters desc").
		Order("sort_order asc").
		Order("id asc").
		Find(&offices).Error; err != nil {
		return nil, err
	}
	return offices, nil
}

// Get fetches an office by id.
func (s *ContactOfficeService) Get(id uint) (*db.ContactOffice, error) {
	var office db.ContactOffice
	if err := s.db.First(&office, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	return &office, nil
}

// Create inserts a new office, geocoding its address when coordinates are missing.
func (s *ContactOfficeService) Create(ctx context.Context, input ContactOfficeInput) (*db.ContactOffice, error) {
	office := db.ContactOffice{}
	if err := applyOfficeInput(&office, input); err != nil {
		return nil, err
	}
	s.resolveCoordinates(ctx, &office, false)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if office.SortOrder == 0 {
			var maxOrder int
			if err := tx.Model(&db.ContactOffice{}).
				Select("COALESCE(MAX(sort_order), 0)").
				Scan(&maxOrder).Error; err != nil {
				return err
			}
			office.SortOrder = maxOrder + 1
		}
		if office.IsHeadquarters {
			if err := clearHeadquarters(tx, 0); err != nil {
				return err
			}
		}
		return tx.Create(&office).Error
	})
	if err != nil {
		return nil, err
	}
	return &office, nil
}

// Update modifies an office. The address is geocoded again when it changed
// and the editor did not send explicit coordinates.
func (s *ContactOfficeService) Update(ctx context.Context, id uint, input ContactOfficeInput) (*db.ContactOffice, error) {
	office, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	previousQuery := officeQuery(office)
	previousLat, previousLon := office.Latitude, office.Longitude
	if err := applyOfficeInput(office, input); err != nil {
		return nil, err
	}
	// 地址变化且编辑器原样回传旧坐标时，视为坐标过期，重新编码
	addressChanged := previousQuery != officeQuery(office)
	staleCoordinates := sameCoordinate(previousLat, office.Latitude) && sameCoordinate(previousLon, office.Longitude)
	s.resolveCoordinates(ctx, office, addressChanged && staleCoordinates)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if office.IsHeadquarters {
			if err := clearHeadquarters(tx, office.ID); err != nil {
				return err
			}
		}
		return tx.Save(office).Error
	})
	if err != nil {
		return nil, err
	}
	return office, nil
}

// Delete removes an office.
func (s *ContactOfficeService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactOffice{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfficeNotFound
	}
	return nil
}

// Reorder updates office sort order based on the provided ids sequence.
func (s *ContactOfficeService) Reorder(ids []uint) error {
	return applyOrder(s.db, &db.ContactOffice{}, ids, ErrOfficeNotFound, nil)
}

// resolveCoordinates geocodes the office address when it has no coordinates,
// or always when force is set.
func (s *ContactOfficeService) resolveCoordinates(ctx context.Context, office *db.ContactOffice, force bool) {
	if s.geocoder == nil {
		return
	}
	if !force && office.Latitude != nil && office.Longitude != nil {
		return
	}

	query := officeQuery(office)
	if query == "" {
		return
	}

	coords, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		// 地理编码失败不阻断保存，前台将不显示地图标记
		s.logger.Warn("geocode office address failed",
			zap.String("office", office.Name),
			zap.String("query", query),
			zap.Error(err),
		)
		return
	}

	lat, lon := coords.Latitude, coords.Longitude
	office.Latitude = &lat
	office.Longitude = &lon
}

func sameCoordinate(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func officeQuery(office *db.ContactOffice) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{office.Address, office.City, office.Country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func clearHeadquarters(tx *gorm.DB, keepID uint) error {
	query := tx.Model(&db.ContactOffice{}).Where("is_headquarters = ?", true)
	if keepID != 0 {
		query = query.Where("id <> ?", keepID)
	}
	return query.Update("is_headquarters", false).Error
}

func applyOfficeInput(office *db.ContactOffice, input ContactOfficeInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrOfficeNameRequired
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return ErrOfficeCoordinates
	}
	if input.Latitude != nil {
		if *input.Latitude < -90 || *input.Latitude > 90 || *input.Longitude < -180 || *input.Longitude > 180 {
			return ErrOfficeCoordinates
		}
	}

	office.Name = name
	office.Country = strings.TrimSpace(input.Country)
	office.City = strings.TrimSpace(input.City)
	office.Address = strings.TrimSpace(input.Address)
	office.Phone = strings.TrimSpace(input.Phone)
	office.Email = db.NormalizeEmail(input.Email)
	office.WorkingHours = strings.TrimSpace(input.WorkingHours)
	office.Latitude = input.Latitude
	office.Longitude = input.Longitude
	office.IsHeadquarters = input.IsHeadquarters
	office.IsActive = input.IsActive
	office.SortOrder = input.SortOrder
	return nil
}
