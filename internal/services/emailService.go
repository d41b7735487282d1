package services

import (
	"gopkg.in/gomail.v2"

	"entrevia/internal/config"
)

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailService{cfg: cfg}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.cfg.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	d := gomail.NewDialer(e.cfg.Host, e.cfg.Port, e.cfg.Username, e.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return err
	}
	return nil
}
