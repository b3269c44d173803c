package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"sync"

	"ngosocial/internal/config"

	"go.uber.org/zap"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <p>Hello {{.Name}},</p>
  <p>Your verification code is:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>If you did not request this code you can ignore this email.</p>
</body>
</html>`))

// Mailer sends one-time codes. MailService is the SMTP implementation.
type Mailer interface {
	SendOTP(email, name, code string)
}

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool

	log *zap.Logger
	wg  sync.WaitGroup
}

func NewMailService(cfg *config.Config, log *zap.Logger) *MailService {
	enabled := cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.SMTPFrom != ""
	if !enabled {
		log.Warn("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		Enabled:  enabled,
		log:      log,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		s.log.Info("mail skipped", zap.Strings("to", to), zap.String("subject", subject))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			s.log.Error("send email failed", zap.Strings("to", to), zap.Error(err))
			return
		}
		s.log.Info("email sent", zap.Strings("to", to), zap.String("subject", subject))
	}()
}

// Wait blocks until mails already handed to sendAsync are finished.
func (s *MailService) Wait() {
	s.wg.Wait()
}

func renderOTP(name, code string) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, map[string]string{"Name": name, "Code": code}); err != nil {
		return "", fmt.Errorf("render otp email: %w", err)
	}
	return buf.String(), nil
}

func (s *MailService) SendOTP(email, name, code string) {
	body, err := renderOTP(name, code)
	if err != nil {
		s.log.Error("render otp email failed", zap.Error(err))
		return
	}
	s.sendAsync([]string{email}, "Your verification code", body)
}
