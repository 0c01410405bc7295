package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ticsite/internal/content"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// ErrInvalidOrder 表示排序 ID 列表包含重复或非法值。
var ErrInvalidOrder = errors.New("invalid order")

// Pagination describes one page of a list result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination normalizes page and limit and derives the page counters.
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{
		Page:  normalizePage(page),
		Limit: normalizePerPage(limit, defaultPerPage),
		Total: total,
	}
	p.TotalPages = calculateTotalPages(total, p.Limit)
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// 超出 1..maxPerPage 的取值一律回退到默认值，不截断
func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 || perPage > maxPerPage {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// uniqueSlug returns base, or base-2, base-3... so that no row of model (deleted
// rows included) other than excludeID uses it. An empty base falls back to
// prefix plus a short random suffix.
func uniqueSlug(tx *gorm.DB, model interface{}, base, prefix string, excludeID uint) (string, error) {
	base = content.Slugify(base)
	if base == "" {
		base = fmt.Sprintf("%s-%s", prefix, strings.SplitN(uuid.NewString(), "-", 2)[0])
	}

	candidate := base
	for attempt := 2; ; attempt++ {
		var count int64
		query := tx.Unscoped().Model(model).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}

// validateOrder checks an id sequence used for drag-and-drop reordering.
func validateOrder(ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrInvalidOrder
		}
		if _, ok := seen[id]; ok {
			return ErrInvalidOrder
		}
		seen[id] = struct{}{}
	}
	return nil
}

// applyOrder writes sort_order = position for each id inside a transaction.
// scope narrows the rows that may be touched (e.g. sections of one page).
func applyOrder(gdb *gorm.DB, model interface{}, ids []uint, notFound error, scope func(*gorm.DB) *gorm.DB) error {
	if len(ids) == 0 {
		return nil
	}
	if err := validateOrder(ids); err != nil {
		return err
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			query := tx.Model(model).Where("id = ?", id)
			if scope != nil {
				query = scope(query)
			}
			result := query.Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return notFound
			}
		}
		return nil
	})
}

func likePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
