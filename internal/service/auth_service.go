package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpDigits         = 6
	minPasswordLength = 8
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrOTPNotRequested    = errors.New("no verification code was requested")
	ErrOTPExpired         = errors.New("verification code has expired")
	ErrOTPInvalid         = errors.New("verification code is invalid")
	ErrOTPTooManyAttempts = errors.New("too many verification attempts")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
)

// AuthOptions controls the second login factor.
type AuthOptions struct {
	OTPEnabled     bool
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// LoginResult is the outcome of the password step.
type LoginResult struct {
	OTPRequired bool
	Admin       *db.Admin
}

// AuthService 负责后台账号的密码校验与邮件验证码。
type AuthService struct {
	db      *gorm.DB
	mailer  Mailer
	logger  *zap.Logger
	options AuthOptions
	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthService creates an AuthService.
func NewAuthService(gdb *gorm.DB, mailer Mailer, logger *zap.Logger, options AuthOptions) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.OTPTTL <= 0 {
		options.OTPTTL = 10 * time.Minute
	}
	if options.OTPMaxAttempts <= 0 {
		options.OTPMaxAttempts = 5
	}
	return &AuthService{
		db:      gdb,
		mailer:  mailer,
		logger:  logger,
		options: options,
		now:     time.Now,
		newCode: generateOTP,
	}
}

// OTPEnabled reports whether logins need an emailed code.
func (s *AuthService) OTPEnabled() bool {
	return s.options.OTPEnabled
}

// Login checks the password. With OTP enabled a code is emailed and the admin
// must finish with VerifyOTP.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.findByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.options.OTPEnabled {
		if err := s.completeLogin(admin); err != nil {
			return nil, err
		}
		return &LoginResult{Admin: admin}, nil
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	expires := s.now().UTC().Add(s.options.OTPTTL)
	if err := s.db.Model(admin).Updates(map[string]interface{}{
		"otp_hash":       string(hash),
		"otp_expires_at": expires,
		"otp_attempts":   0,
	}).Error; err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	body, err := renderEmail(otpEmailTemplate, map[string]string{
		"Name":      admin.Name,
		"Code":      code,
		"ExpiresIn": s.options.OTPTTL.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.mailer.Send(ctx, Email{To: admin.Email, Subject: "Your sign-in code", HTML: body}); err != nil {
		return nil, fmt.Errorf("deliver otp: %w", err)
	}

	s.logger.Info("otp issued", zap.Uint("admin_id", admin.ID))
	return &LoginResult{OTPRequired: true, Admin: admin}, nil
}

// VerifyOTP checks the emailed code and completes the login.
func (s *AuthService) VerifyOTP(email, code string) (*db.Admin, error) {
	admin, err := s.findByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrOTPNotRequested
		}
		return nil, err
	}

	if admin.OTPHash == "" || admin.OTPExpiresAt == nil {
		return nil, ErrOTPNotRequested
	}
	if s.now().UTC().After(admin.OTPExpiresAt.UTC()) {
		if err := s.clearOTP(admin); err != nil {
			return nil, err
		}
		return nil, ErrOTPExpired
	}
	// 比对前先原子占用一次尝试，并发猜测无法越过上限
	reserved := s.db.Model(&db.Admin{}).
		Where("id = ? AND otp_hash <> '' AND otp_attempts < ?", admin.ID, s.options.OTPMaxAttempts).
		Update("otp_attempts", gorm.Expr("otp_attempts + 1"))
	if reserved.Error != nil {
		return nil, reserved.Error
	}
	if reserved.RowsAffected == 0 {
		return nil, ErrOTPTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.OTPHash), []byte(strings.TrimSpace(code))); err != nil {
		var attempts int
		if err := s.db.Model(&db.Admin{}).Where("id = ?", admin.ID).
			Select("otp_attempts").Scan(&attempts).Error; err != nil {
			return nil, err
		}
		if attempts >= s.options.OTPMaxAttempts {
			return nil, ErrOTPTooManyAttempts
		}
		return nil, ErrOTPInvalid
	}

	if err := s.clearOTP(admin); err != nil {
		return nil, err
	}
	if err := s.completeLogin(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Get returns an admin by id.
func (s *AuthService) Get(id uint) (*db.Admin, error) {
	var admin db.Admin
	if err := s.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(id uint, current, next string) error {
	admin, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return ErrPasswordMismatch
	}
	if len([]rune(strings.TrimSpace(next))) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(next)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(admin).Update("password_hash", string(hashed)).Error
}

func (s *AuthService) findByEmail(email string) (*db.Admin, error) {
	normalized := db.NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrAdminNotFound
	}

	var admin db.Admin
	if err := s.db.Where("email = ?", normalized).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AuthService) clearOTP(admin *db.Admin) error {
	admin.OTPHash = ""
	admin.OTPExpiresAt = nil
	admin.OTPAttempts = 0
	return s.db.Model(admin).Updates(map[string]interface{}{
		"otp_hash":       "",
		"otp_expires_at": nil,
		"otp_attempts":   0,
	}).Error
}

func (s *AuthService) completeLogin(admin *db.Admin) error {
	now := s.now().UTC()
	admin.LastLoginAt = &now
	return s.db.Model(admin).Update("last_login_at", now).Error
}

func generateOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
