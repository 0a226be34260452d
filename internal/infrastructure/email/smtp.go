// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"lucerna/internal/shared/config"
	"lucerna/internal/shared/logger"
)

// Sender delivers the transactional emails the auth flows need.
type Sender interface {
	SendPasswordResetEmail(to, token string) error
	SendVerificationEmail(to, token string) error
}

// SMTPSender implements Sender with gomail.
type SMTPSender struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
	frontendURL string
	logger      logger.Interface
}

// NewSMTPSender creates an SMTP email sender from configuration.
func NewSMTPSender(cfg *config.EmailConfig, logger logger.Interface) *SMTPSender {
	return &SMTPSender{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		frontendURL: cfg.FrontendURL,
		logger:      logger,
	}
}

func (s *SMTPSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddress, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Errorw("failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("email sent", "to", to, "subject", subject)
	return nil
}

// SendPasswordResetEmail sends the reset link carrying the one-time token.
func (s *SMTPSender) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(
		"Dear user,\n\nTo reset your password, click on this link: %s\n\nIf you did not request any password resets, then ignore this email.",
		link,
	)
	return s.send(to, "Reset password", body)
}

// SendVerificationEmail sends the email verification link.
func (s *SMTPSender) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(
		"Dear user,\n\nTo verify your email, click on this link: %s\n\nIf you did not create an account, then ignore this email.",
		link,
	)
	return s.send(to, "Email Verification", body)
}
