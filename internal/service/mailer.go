package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"github.com/ticsite/internal/config"
	"go.uber.org/zap"
)

// Email is one outbound HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers notification emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail over SMTP with PLAIN auth. Without credentials it
// only logs the message.
type SMTPMailer struct {
	cfg      config.SMTPConfig
	logger   *zap.Logger
	sendMail sendMailFunc
}

// NewSMTPMailer 根据 SMTP 配置创建邮件发送器。
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	to := strings.TrimSpace(email.To)
	if to == "" {
		return fmt.Errorf("send email: empty recipient")
	}
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("send email: invalid recipient %q", to)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !m.cfg.Enabled() {
		m.logger.Info("smtp not configured, email not sent",
			zap.String("to", to),
			zap.String("subject", email.Subject),
		)
		return nil
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		headerValue(m.cfg.FromName), m.cfg.FromEmail, to, headerValue(email.Subject), email.HTML,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := m.sendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// headerValue 折叠换行防止头部注入，非 ASCII 按 RFC 2047 编码
func headerValue(value string) string {
	return mime.QEncoding.Encode("UTF-8", singleLine(value))
}

func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

var otpEmailTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<p>Hi {{.Name}},</p>
	<p>Your sign-in code is:</p>
	<p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
	<p>The code expires in {{.ExpiresIn}}. If you did not try to sign in, change your password.</p>
</body>
</html>
`))

var contactEmailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>New enquiry{{if .Office}} for {{.Office}}{{end}}</h2>
	<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
	{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
	{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
	{{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
	<hr>
	<p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>
`))

func renderEmail(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
