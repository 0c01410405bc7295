package handler

import (
	"fmt"
	"strings"

	"github.com/ticsite/internal/config"
	"github.com/ticsite/internal/locale"
	"github.com/ticsite/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies 汇总构建 API 所需的外部依赖；为 nil 的可选项按配置自动创建。
type Dependencies struct {
	DB     *gorm.DB
	Config config.AppConfig
	Logger *zap.Logger

	Mailer     service.Mailer
	Geocoder   service.Geocoder
	Translator service.Translator
	MediaStore service.MediaStore
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db     *gorm.DB
	logger *zap.Logger

	blogs        *service.BlogService
	careers      *service.CareerService
	offices      *service.ContactOfficeService
	stats        *service.IndustryStatService
	pages        *service.PageService
	auth         *service.AuthService
	translations *service.TranslationService
	messages     *service.ContactMessageService
	media        *service.MediaService
	dashboard    *service.DashboardService

	matcher      *locale.Matcher
	dictionaries *locale.Dictionaries
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Dependencies) (*API, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("handler: database is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mailer := deps.Mailer
	if mailer == nil {
		mailer = service.NewSMTPMailer(cfg.SMTP, logger.Named("mailer"))
	}

	geocoder := deps.Geocoder
	if geocoder == nil && strings.TrimSpace(cfg.GeocoderURL) != "" {
		geocoder = service.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, logger.Named("geocoder"))
	}

	translator := deps.Translator
	if translator == nil && strings.TrimSpace(cfg.TranslateAPIURL) != "" {
		translator = service.NewLibreTranslator(cfg.TranslateAPIURL, cfg.TranslateAPIKey, logger.Named("translator"))
	}

	store := deps.MediaStore
	if store == nil {
		if strings.TrimSpace(cfg.CloudinaryURL) != "" {
			cld, err := service.NewCloudinaryMediaStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
			if err != nil {
				return nil, err
			}
			store = cld
		} else {
			store = service.NewLocalMediaStore(cfg.UploadDir, cfg.UploadURLPath)
		}
	}

	dictionaries, err := locale.Bundled(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}

	offices := service.NewContactOfficeService(deps.DB, geocoder, logger.Named("offices"))
	return &API{
		db:      deps.DB,
		logger:  logger,
		blogs:   service.NewBlogService(deps.DB),
		careers: service.NewCareerService(deps.DB),
		offices: offices,
		stats:   service.NewIndustryStatService(deps.DB),
		pages:   service.NewPageService(deps.DB),
		auth: service.NewAuthService(deps.DB, mailer, logger.Named("auth"), service.AuthOptions{
			OTPEnabled:     cfg.OTPEnabled,
			OTPTTL:         cfg.OTPTTL,
			OTPMaxAttempts: cfg.OTPMaxAttempts,
		}),
		translations: service.NewTranslationService(deps.DB, translator, logger.Named("translations"), cfg.DefaultLanguage, cfg.SupportedLanguages),
		messages:     service.NewContactMessageService(deps.DB, offices, mailer, cfg.ContactInboxEmail, logger.Named("contact")),
		media:        service.NewMediaService(deps.DB, store, logger.Named("media")),
		dashboard:    service.NewDashboardService(deps.DB),
		matcher:      locale.NewMatcher(cfg.DefaultLanguage, cfg.SupportedLanguages),
		dictionaries: dictionaries,
	}, nil
}

// DB exposes the underlying gorm instance for health checks.
func (a *API) DB() *gorm.DB {
	return a.db
}
