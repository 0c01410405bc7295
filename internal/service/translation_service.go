package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTranslationEntityInvalid = errors.New("translation entity is invalid")
	ErrLanguageUnsupported      = errors.New("language is not supported")
	ErrTranslationFieldRequired = errors.New("translation field is required")
)

var translatableEntities = map[string]struct{}{
	db.EntityBlog:          {},
	db.EntityCareer:        {},
	db.EntityContactOffice: {},
	db.EntityIndustryStat:  {},
	db.EntityPage:          {},
	db.EntitySection:       {},
}

// TranslationService resolves localized field values. Manual editor
// translations win over cached machine translations, which win over a fresh
// machine translation. When everything fails the source text is returned.
type TranslationService struct {
	db              *gorm.DB
	translator      Translator
	logger          *zap.Logger
	defaultLanguage string
	supported       map[string]struct{}
}

// NewTranslationService creates a TranslationService. translator may be nil.
func NewTranslationService(gdb *gorm.DB, translator Translator, logger *zap.Logger, defaultLanguage string, supported []string) *TranslationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLanguage = strings.ToLower(strings.TrimSpace(defaultLanguage))
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	set := map[string]struct{}{defaultLanguage: {}}
	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return &TranslationService{
		db:              gdb,
		translator:      translator,
		logger:          logger,
		defaultLanguage: defaultLanguage,
		supported:       set,
	}
}

// DefaultLanguage is the language content is authored in.
func (s *TranslationService) DefaultLanguage() string {
	return s.defaultLanguage
}

// ValidEntity reports whether entityType can carry translations.
func ValidEntity(entityType string) bool {
	_, ok := translatableEntities[entityType]
	return ok
}

func (s *TranslationService) checkTarget(entityType, lang string) error {
	if !ValidEntity(entityType) {
		return ErrTranslationEntityInvalid
	}
	if _, ok := s.supported[lang]; !ok {
		return ErrLanguageUnsupported
	}
	return nil
}

// Localize returns fields translated into lang. Fields that cannot be
// translated keep their source value.
func (s *TranslationService) Localize(ctx context.Context, entityType string, id uint, lang string, fields map[string]string) (map[string]string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	if lang == "" || lang == s.defaultLanguage || len(fields) == 0 {
		return out, nil
	}
	if err := s.checkTarget(entityType, lang); err != nil {
		return nil, err
	}

	manual, err := s.ListManual(entityType, id, lang)
	if err != nil {
		return nil, err
	}

	for key, source := range fields {
		if value, ok := manual[key]; ok && strings.TrimSpace(value) != "" {
			out[key] = value
			continue
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		translated, err := s.machineTranslate(ctx, source, lang)
		if err != nil {
			s.logger.Debug("falling back to source text",
				zap.String("entity", entityType),
				zap.Uint("id", id),
				zap.String("field", key),
				zap.String("lang", lang),
				zap.Error(err),
			)
			continue
		}
		out[key] = translated
	}
	return out, nil
}

// LocalizeList translates every element of values, keyed as field.N.
func (s *TranslationService) LocalizeList(ctx context.Context, entityType string, id uint, lang, field string, values []string) ([]string, error) {
	if len(values) == 0 {
		return values, nil
	}
	fields := make(map[string]string, len(values))
	for i, value := range values {
		fields[fmt.Sprintf("%s.%d", field, i)] = value
	}
	localized, err := s.Localize(ctx, entityType, id, lang, fields)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i := range values {
		out[i] = localized[fmt.Sprintf("%s.%d", field, i)]
	}
	return out, nil
}

// TranslateText translates free text through the memory and the machine
// translator, returning an error instead of falling back.
func (s *TranslationService) TranslateText(ctx context.Context, text, target string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if _, ok := s.supported[target]; !ok {
		return "", ErrLanguageUnsupported
	}
	if target == s.defaultLanguage || strings.TrimSpace(text) == "" {
		return text, nil
	}
	return s.machineTranslate(ctx, text, target)
}

func (s *TranslationService) machineTranslate(ctx context.Context, source, target string) (string, error) {
	hash := sourceHash(source)

	var cached db.TranslationMemory
	err := s.db.Where("source_hash = ? AND source_language = ? AND target_language = ?", hash, s.defaultLanguage, target).
		First(&cached).Error
	if err == nil {
		if err := s.db.Model(&cached).Update("hits", gorm.Expr("hits + 1")).Error; err != nil {
			s.logger.Warn("update translation memory hits", zap.Error(err))
		}
		return cached.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if s.translator == nil {
		return "", ErrTranslatorDisabled
	}
	translated, err := s.translator.Translate(ctx, source, s.defaultLanguage, target)
	if err != nil {
		return "", err
	}

	entry := db.TranslationMemory{
		SourceHash:     hash,
		SourceLanguage: s.defaultLanguage,
		TargetLanguage: target,
		Value:          translated,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		s.logger.Warn("store translation memory", zap.Error(err))
	}
	return translated, nil
}

// ListManual returns the editor translations of one entity in lang.
func (s *TranslationService) ListManual(entityType string, id uint, lang string) (map[string]string, error) {
	var rows []db.ContentTranslation
	if err := s.db.Where("entity_type = ? AND entity_id = ? AND language = ?", entityType, id, lang).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Field] = row.Value
	}
	return out, nil
}

// SetManual upserts editor translations. An empty value removes the field.
func (s *TranslationService) SetManual(entityType string, id uint, lang string, values map[string]string) (map[string]string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if err := s.checkTarget(entityType, lang); err != nil {
		return nil, err
	}
	if lang == s.defaultLanguage {
		return nil, ErrLanguageUnsupported
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for field, value := range values {
			field = strings.TrimSpace(field)
			if field == "" {
				return ErrTranslationFieldRequired
			}

			scope := tx.Unscoped().Where("entity_type = ? AND entity_id = ? AND language = ? AND field = ?", entityType, id, lang, field)
			if strings.TrimSpace(value) == "" {
				if err := scope.Delete(&db.ContentTranslation{}).Error; err != nil {
					return err
				}
				continue
			}

			row := db.ContentTranslation{
				EntityType: entityType,
				EntityID:   id,
				Language:   lang,
				Field:      field,
				Value:      value,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "language"}, {Name: "field"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"value": value, "deleted_at": nil}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ListManual(entityType, id, lang)
}

// Purge removes every editor translation of an entity.
func (s *TranslationService) Purge(entityType string, id uint) error {
	return s.db.Unscoped().
		Where("entity_type = ? AND entity_id = ?", entityType, id).
		Delete(&db.ContentTranslation{}).Error
}

func sourceHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
