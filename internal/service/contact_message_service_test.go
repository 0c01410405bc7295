package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ticsite/internal/db"
	"go.uber.org/zap"
)

func TestContactMessageServiceSubmitValidation(t *testing.T) {
	gdb := setupServiceTestDB(t, "contact-validation")
	offices := NewContactOfficeService(gdb, nil, nil)
	svc := NewContactMessageService(gdb, offices, &recordingMailer{}, "inbox@example.com", zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		input ContactMessageInput
		want  error
	}{
		{ContactMessageInput{Email: "a@example.com", Message: "hi"}, ErrContactNameRequired},
		{ContactMessageInput{Name: "A", Email: "not-an-email", Message: "hi"}, ErrContactEmailInvalid},
		{ContactMessageInput{Name: "A", Email: "a@localhost", Message: "hi"}, ErrContactEmailInvalid},
		{ContactMessageInput{Name: "A", Email: "first.last@localhost", Message: "hi"}, ErrContactEmailInvalid},
		{ContactMessageInput{Name: "A", Email: "a@example.com", Message: "  "}, ErrContactMessageRequired},
		{ContactMessageInput{Name: "A", Email: "a@example.com", Message: strings.Repeat("x", maxContactMessageLength+1)}, ErrContactMessageTooLong},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("input %+v: expected %v, got %v", tc.input.Name, tc.want, err)
		}
	}

	missing := uint(404)
	if _, err := svc.Submit(ctx, ContactMessageInput{Name: "A", Email: "a@example.com", Message: "hi", OfficeID: &missing}); !errors.Is(err, ErrOfficeNotFound) {
		t.Fatalf("expected ErrOfficeNotFound, got %v", err)
	}
}

func TestContactMessageServiceRoutesNotification(t *testing.T) {
	gdb := setupServiceTestDB(t, "contact-notify")
	offices := NewContactOfficeService(gdb, nil, nil)
	mailer := &recordingMailer{}
	svc := NewContactMessageService(gdb, offices, mailer, "inbox@example.com", zap.NewNop())
	ctx := context.Background()

	office, err := offices.Create(ctx, ContactOfficeInput{Name: "Abu Dhabi", Email: "AD@Example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create office: %v", err)
	}

	msg, err := svc.Submit(ctx, ContactMessageInput{
		Name:     "Sara",
		Email:    "Sara <Sara@Client.com>",
		Subject:  "Tank inspection",
		Message:  "<b>Need</b> a quote",
		OfficeID: &office.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.Email != "sara@client.com" || msg.Status != db.MessageNew {
		t.Fatalf("unexpected stored message %+v", msg)
	}

	if _, err := svc.Submit(ctx, ContactMessageInput{Name: "Omar", Email: "omar@client.com", Message: "General question"}); err != nil {
		t.Fatalf("submit general: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("expected two notifications, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "ad@example.com" || mailer.sent[0].Subject != "New website enquiry: Tank inspection" {
		t.Fatalf("unexpected office notification %+v", mailer.sent[0])
	}
	if strings.Contains(mailer.sent[0].HTML, "<b>Need</b>") {
		t.Fatal("expected message body to be escaped")
	}
	if mailer.sent[1].To != "inbox@example.com" {
		t.Fatalf("expected inbox fallback, got %q", mailer.sent[1].To)
	}
}

func TestContactMessageServiceSubmitFoldsHeaderFields(t *testing.T) {
	gdb := setupServiceTestDB(t, "contact-header-fields")
	mailer := &recordingMailer{}
	svc := NewContactMessageService(gdb, NewContactOfficeService(gdb, nil, nil), mailer, "inbox@example.com", zap.NewNop())

	msg, err := svc.Submit(context.Background(), ContactMessageInput{
		Name:    "Eve\r\nX-Name: 1",
		Email:   "eve@client.example",
		Subject: "Quote\r\nBcc: victim@example.org\r\nX-Injected: yes",
		Message: "line one\nline two",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.Subject != "Quote Bcc: victim@example.org X-Injected: yes" || msg.Name != "Eve X-Name: 1" {
		t.Fatalf("expected single-line fields, got name %q subject %q", msg.Name, msg.Subject)
	}
	if msg.Message != "line one\nline two" {
		t.Fatalf("expected message body to keep newlines, got %q", msg.Message)
	}
	if len(mailer.sent) != 1 || strings.ContainsAny(mailer.sent[0].Subject, "\r\n") {
		t.Fatalf("expected one notification with a single-line subject, got %+v", mailer.sent)
	}
}

func TestContactMessageServiceNotificationFailureIsIgnored(t *testing.T) {
	gdb := setupServiceTestDB(t, "contact-mail-fail")
	svc := NewContactMessageService(gdb, NewContactOfficeService(gdb, nil, nil), &recordingMailer{err: errors.New("smtp down")}, "inbox@example.com", zap.NewNop())

	if _, err := svc.Submit(context.Background(), ContactMessageInput{Name: "A", Email: "a@example.com", Message: "hi"}); err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
}

func TestContactMessageServiceInbox(t *testing.T) {
	gdb := setupServiceTestDB(t, "contact-inbox")
	svc := NewContactMessageService(gdb, NewContactOfficeService(gdb, nil, nil), nil, "", zap.NewNop())
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"First", "Second", "Third"} {
		msg, err := svc.Submit(ctx, ContactMessageInput{Name: name, Email: "x@example.com", Message: "about calibration " + name})
		if err != nil {
			t.Fatalf("submit %s: %v", name, err)
		}
		ids = append(ids, msg.ID)
	}

	if _, err := svc.UpdateStatus(ids[0], "READ"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := svc.UpdateStatus(ids[1], "spam"); !errors.Is(err, ErrContactStatusInvalid) {
		t.Fatalf("expected ErrContactStatusInvalid, got %v", err)
	}
	if _, err := svc.UpdateStatus(999, db.MessageRead); !errors.Is(err, ErrContactMessageNotFound) {
		t.Fatalf("expected ErrContactMessageNotFound, got %v", err)
	}

	result, err := svc.List(ContactMessageFilter{Status: db.MessageNew})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 2 || result.UnreadCount != 2 {
		t.Fatalf("unexpected inbox %+v", result.Pagination)
	}

	searched, err := svc.List(ContactMessageFilter{Search: "third"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(searched.Messages) != 1 || searched.Messages[0].Name != "Third" {
		t.Fatalf("unexpected search result %+v", searched.Messages)
	}

	if err := svc.Delete(ids[2]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ids[2]); !errors.Is(err, ErrContactMessageNotFound) {
		t.Fatalf("expected ErrContactMessageNotFound, got %v", err)
	}
}
