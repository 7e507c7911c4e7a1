package client

import (
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendEmail delivers a plain-text alert over SMTP.
func (c Client) SendEmail(to string, subject string, body string) error {
	if c.SMTP.Host == "" {
		return errors.New("SMTP is not configured")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", c.SMTP.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(c.SMTP.Host, c.SMTP.Port, c.SMTP.Username, c.SMTP.Password)
	return errors.Wrapf(d.DialAndSend(m), "error sending email to %s via %s", to, c.SMTP.Host)
}
