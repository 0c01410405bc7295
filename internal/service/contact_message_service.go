package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxContactMessageLength = 5000

var (
	ErrContactMessageNotFound = errors.New("contact message not found")
	ErrContactNameRequired    = errors.New("name is required")
	ErrContactEmailInvalid    = errors.New("a valid email is required")
	ErrContactMessageRequired = errors.New("message is required")
	ErrContactMessageTooLong  = errors.New("message is too long")
	ErrContactStatusInvalid   = errors.New("message status is invalid")
)

// ContactMessageService stores enquiries from the public contact form and
// forwards them to the matching office.
type ContactMessageService struct {
	db      *gorm.DB
	offices *ContactOfficeService
	mailer  Mailer
	inbox   string
	logger  *zap.Logger
}

// ContactMessageInput is a public form submission.
type ContactMessageInput struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Subject  string
	Message  string
	OfficeID *uint
}

// ContactMessageFilter narrows the admin inbox.
type ContactMessageFilter struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

// ContactMessageListResult is one page of the inbox.
type ContactMessageListResult struct {
	Messages    []db.ContactMessage
	Pagination  Pagination
	UnreadCount int64
}

// NewContactMessageService creates the service. inbox receives messages not
// addressed to an office with an email.
func NewContactMessageService(gdb *gorm.DB, offices *ContactOfficeService, mailer Mailer, inbox string, logger *zap.Logger) *ContactMessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactMessageService{
		db:      gdb,
		offices: offices,
		mailer:  mailer,
		inbox:   strings.TrimSpace(inbox),
		logger:  logger,
	}
}

// Submit validates and stores a message, then emails a notification.
// Notification failures are logged and do not fail the submission.
func (s *ContactMessageService) Submit(ctx context.Context, input ContactMessageInput) (*db.ContactMessage, error) {
	message := db.ContactMessage{
		Name:    singleLine(input.Name),
		Phone:   singleLine(input.Phone),
		Company: singleLine(input.Company),
		Subject: singleLine(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  db.MessageNew,
	}
	if message.Name == "" {
		return nil, ErrContactNameRequired
	}
	address, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil || !hasDottedDomain(address.Address) {
		return nil, ErrContactEmailInvalid
	}
	message.Email = db.NormalizeEmail(address.Address)
	if message.Message == "" {
		return nil, ErrContactMessageRequired
	}
	if len([]rune(message.Message)) > maxContactMessageLength {
		return nil, ErrContactMessageTooLong
	}

	if input.OfficeID != nil && *input.OfficeID != 0 {
		office, err := s.offices.Get(*input.OfficeID)
		if err != nil {
			return nil, err
		}
		message.OfficeID = &office.ID
		message.Office = office
	}

	if err := s.db.Omit("Office").Create(&message).Error; err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	s.notify(ctx, &message)
	return &message, nil
}

func (s *ContactMessageService) notify(ctx context.Context, message *db.ContactMessage) {
	if s.mailer == nil {
		return
	}
	to := s.inbox
	officeName := ""
	if message.Office != nil {
		officeName = message.Office.Name
		if email := strings.TrimSpace(message.Office.Email); email != "" {
			to = email
		}
	}
	if to == "" {
		s.logger.Info("no inbox configured for contact message", zap.Uint("message_id", message.ID))
		return
	}

	body, err := renderEmail(contactEmailTemplate, map[string]string{
		"Office":  officeName,
		"Name":    message.Name,
		"Email":   message.Email,
		"Phone":   message.Phone,
		"Company": message.Company,
		"Subject": message.Subject,
		"Message": message.Message,
	})
	if err != nil {
		s.logger.Error("render contact email", zap.Error(err))
		return
	}

	subject := "New website enquiry"
	if message.Subject != "" {
		subject = fmt.Sprintf("%s: %s", subject, message.Subject)
	}
	if err := s.mailer.Send(ctx, Email{To: to, Subject: subject, HTML: body}); err != nil {
		s.logger.Warn("contact notification failed",
			zap.Uint("message_id", message.ID),
			zap.String("to", to),
			zap.Error(err),
		)
	}
}

func hasDottedDomain(address string) bool {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return false
	}
	domain := address[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// List returns one page of messages, newest first.
func (s *ContactMessageService) List(filter ContactMessageFilter) (*ContactMessageListResult, error) {
	apply := func(query *gorm.DB) *gorm.DB {
		if status := strings.ToLower(strings.TrimSpace(filter.Status)); status != "" {
			query = query.Where("status = ?", status)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := likePattern(search)
			query = query.Where("(name LIKE ? OR email LIKE ? OR company LIKE ? OR subject LIKE ? OR message LIKE ?)",
				pattern, pattern, pattern, pattern, pattern)
		}
		return query
	}

	var total int64
	if err := apply(s.db.Model(&db.ContactMessage{})).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count contact messages: %w", err)
	}

	result := &ContactMessageListResult{Pagination: NewPagination(filter.Page, filter.PerPage, total)}
	if err := apply(s.db.Model(&db.ContactMessage{})).
		Preload("Office").
		Order("created_at desc, id desc").
		Limit(result.Pagination.Limit).
		Offset(result.Pagination.Offset()).
		Find(&result.Messages).Error; err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	unread, err := s.CountUnread()
	if err != nil {
		return nil, err
	}
	result.UnreadCount = unread
	return result, nil
}

// UpdateStatus moves a message between new, read and archived.
func (s *ContactMessageService) UpdateStatus(id uint, status string) (*db.ContactMessage, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case db.MessageNew, db.MessageRead, db.MessageArchived:
	default:
		return nil, ErrContactStatusInvalid
	}

	var message db.ContactMessage
	if err := s.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactMessageNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&message).Update("status", status).Error; err != nil {
		return nil, err
	}
	message.Status = status
	return &message, nil
}

// Delete removes a message.
func (s *ContactMessageService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactMessageNotFound
	}
	return nil
}

// CountUnread returns messages still in the new state.
func (s *ContactMessageService) CountUnread() (int64, error) {
	var count int64
	err := s.db.Model(&db.ContactMessage{}).Where("status = ?", db.MessageNew).Count(&count).Error
	return count, err
}
