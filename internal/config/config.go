package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	LogLevel      string
	UploadDir     string
	UploadURLPath string
	SiteBaseURL   string

	AllowedOrigins     []string
	DefaultLanguage    string
	SupportedLanguages []string

	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string

	OTPEnabled     bool
	OTPTTL         time.Duration
	OTPMaxAttempts int

	SMTP SMTPConfig

	ContactInboxEmail string

	TranslateAPIURL string
	TranslateAPIKey string

	GeocoderURL       string
	GeocoderUserAgent string

	CloudinaryURL    string
	CloudinaryFolder string
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Enabled reports whether credentials are present for sending mail.
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Password) != ""
}

// DevSessionSecret 是未配置 SESSION_SECRET 时使用的开发密钥，release 模式下禁止使用。
const DevSessionSecret = "ticsite-dev-secret"

// ErrInsecureSessionSecret 表示 release 模式下仍在使用默认或空的会话密钥。
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a non-default value in release mode")

var defaults = map[string]any{
	"PORT":                  "8080",
	"DATABASE_PATH":         "ticsite.db",
	"SESSION_SECRET":        DevSessionSecret,
	"GIN_MODE":              "release",
	"LOG_LEVEL":             "info",
	"UPLOAD_DIR":            "web/static/uploads",
	"UPLOAD_URL_PATH":       "/static/uploads",
	"SITE_BASE_URL":         "http://localhost:3000",
	"ALLOWED_ORIGINS":       "http://localhost:3000,http://localhost:3001",
	"DEFAULT_LANGUAGE":      "en",
	"SUPPORTED_LANGUAGES":   "en,ar,fr",
	"SUPER_ADMIN_NAME":      "Administrator",
	"AUTH_OTP_ENABLED":      true,
	"AUTH_OTP_TTL":          "10m",
	"AUTH_OTP_MAX_ATTEMPTS": 5,
	"SMTP_PORT":             "587",
	"SMTP_FROM_EMAIL":       "no-reply@localhost",
	"SMTP_FROM_NAME":        "Website",
	"GEOCODER_URL":          "https://nominatim.openstreetmap.org",
	"GEOCODER_USER_AGENT":   "ticsite-api/1.0",
	"CLOUDINARY_FOLDER":     "ticsite",
}

// Load 从环境变量（以及可选的 .env 文件）读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds the configuration from an already populated viper instance.
func FromViper(v *viper.Viper) (AppConfig, error) {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	port := get("PORT")
	listenAddr := get("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	otpTTL := v.GetDuration("AUTH_OTP_TTL")
	if otpTTL <= 0 {
		return AppConfig{}, fmt.Errorf("AUTH_OTP_TTL must be positive, got %q", v.GetString("AUTH_OTP_TTL"))
	}

	maxAttempts := v.GetInt("AUTH_OTP_MAX_ATTEMPTS")
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	supported := splitList(v.GetString("SUPPORTED_LANGUAGES"))
	defaultLanguage := strings.ToLower(get("DEFAULT_LANGUAGE"))
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	if !contains(supported, defaultLanguage) {
		supported = append([]string{defaultLanguage}, supported...)
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       get("DATABASE_PATH"),
		SessionSecret:      get("SESSION_SECRET"),
		GinMode:            get("GIN_MODE"),
		LogLevel:           get("LOG_LEVEL"),
		UploadDir:          get("UPLOAD_DIR"),
		UploadURLPath:      get("UPLOAD_URL_PATH"),
		SiteBaseURL:        strings.TrimRight(get("SITE_BASE_URL"), "/"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		DefaultLanguage:    defaultLanguage,
		SupportedLanguages: supported,
		SuperAdminEmail:    get("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword: get("SUPER_ADMIN_PASSWORD"),
		SuperAdminName:     get("SUPER_ADMIN_NAME"),
		OTPEnabled:         v.GetBool("AUTH_OTP_ENABLED"),
		OTPTTL:             otpTTL,
		OTPMaxAttempts:     maxAttempts,
		SMTP: SMTPConfig{
			Host:      get("SMTP_HOST"),
			Port:      get("SMTP_PORT"),
			Username:  get("SMTP_USERNAME"),
			Password:  get("SMTP_PASSWORD"),
			FromEmail: get("SMTP_FROM_EMAIL"),
			FromName:  get("SMTP_FROM_NAME"),
		},
		ContactInboxEmail: get("CONTACT_INBOX_EMAIL"),
		TranslateAPIURL:   strings.TrimRight(get("TRANSLATE_API_URL"), "/"),
		TranslateAPIKey:   get("TRANSLATE_API_KEY"),
		GeocoderURL:       strings.TrimRight(get("GEOCODER_URL"), "/"),
		GeocoderUserAgent: get("GEOCODER_USER_AGENT"),
		CloudinaryURL:     get("CLOUDINARY_URL"),
		CloudinaryFolder:  get("CLOUDINARY_FOLDER"),
	}, nil
}

// ReleaseMode reports whether the server runs with gin's release mode, which
// is also what any unrecognised GIN_MODE falls back to.
func (c AppConfig) ReleaseMode() bool {
	return c.GinMode != "debug" && c.GinMode != "test"
}

// ValidateForServe rejects settings that must not reach a public deployment.
func (c AppConfig) ValidateForServe() error {
	if !c.ReleaseMode() {
		return nil
	}
	if c.SessionSecret == "" || c.SessionSecret == DevSessionSecret {
		return ErrInsecureSessionSecret
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed == "" || contains(out, trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
