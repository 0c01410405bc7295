package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

var (
	ErrMediaNotFound = errors.New("media not found")
	ErrMediaEmpty    = errors.New("uploaded file is empty")
	ErrMediaTooLarge = errors.New("image exceeds the 10 MB limit")
	ErrMediaNotImage = errors.New("only image files can be uploaded")
)

// MediaService validates uploads and records them as MediaAsset rows.
type MediaService struct {
	db     *gorm.DB
	store  MediaStore
	logger *zap.Logger
}

// NewMediaService creates a MediaService backed by store.
func NewMediaService(gdb *gorm.DB, store MediaStore, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{db: gdb, store: store, logger: logger}
}

// Upload stores a multipart image.
func (s *MediaService) Upload(ctx context.Context, header *multipart.FileHeader) (*db.MediaAsset, error) {
	if header == nil || header.Size == 0 {
		return nil, ErrMediaEmpty
	}
	if header.Size > MaxUploadBytes {
		return nil, ErrMediaTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return s.UploadReader(ctx, header.Filename, file)
}

// UploadReader stores image bytes read from r.
func (s *MediaService) UploadReader(ctx context.Context, filename string, r io.Reader) (*db.MediaAsset, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrMediaEmpty
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrMediaTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrMediaNotImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrMediaNotImage
	}
	if format == "jpeg" {
		format = "jpg"
	}

	stored, err := s.store.Save(ctx, data, format)
	if err != nil {
		return nil, err
	}
	if stored.Width == 0 || stored.Height == 0 {
		stored.Width, stored.Height = cfg.Width, cfg.Height
	}

	asset := db.MediaAsset{
		Provider:     s.store.Provider(),
		PublicID:     stored.PublicID,
		URL:          stored.URL,
		Width:        stored.Width,
		Height:       stored.Height,
		Bytes:        int64(len(data)),
		ContentType:  contentType,
		OriginalName: strings.TrimSpace(filename),
	}
	if err := s.db.Create(&asset).Error; err != nil {
		if removeErr := s.store.Remove(ctx, stored.PublicID); removeErr != nil {
			s.logger.Warn("remove orphaned upload", zap.String("public_id", stored.PublicID), zap.Error(removeErr))
		}
		return nil, fmt.Errorf("store media asset: %w", err)
	}

	s.logger.Info("media uploaded",
		zap.String("provider", asset.Provider),
		zap.String("public_id", asset.PublicID),
		zap.Int64("bytes", asset.Bytes),
	)
	return &asset, nil
}

// List returns one page of assets, newest first.
func (s *MediaService) List(page, perPage int) ([]db.MediaAsset, Pagination, error) {
	var total int64
	if err := s.db.Model(&db.MediaAsset{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}
	pagination := NewPagination(page, perPage, total)

	var assets []db.MediaAsset
	if err := s.db.Order("created_at desc, id desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&assets).Error; err != nil {
		return nil, Pagination{}, err
	}
	return assets, pagination, nil
}

// Delete removes the asset row and its stored file. Assets recorded under
// another provider only lose their row.
func (s *MediaService) Delete(ctx context.Context, id uint) error {
	var asset db.MediaAsset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if asset.Provider == s.store.Provider() {
		if err := s.store.Remove(ctx, asset.PublicID); err != nil {
			return err
		}
	} else {
		s.logger.Warn("media stored by another provider, removing record only",
			zap.Uint("id", asset.ID),
			zap.String("provider", asset.Provider),
		)
	}

	return s.db.Unscoped().Delete(&asset).Error
}

