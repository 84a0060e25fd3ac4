package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

var ErrEmailDelivery = errors.New("failed to deliver email")

// Mailer sends one transactional email. Jobs depend on this instead of
// the SMTP client directly so tests can swap in a recorder.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Sender:   viper.GetString("mail.sender"),
		Password: viper.GetString("mail.password"),
	}
}

func (s *SMTPMailer) Send(to, subject, body string) error {
	if to == s.Sender {
		return fmt.Errorf("%w, refusing to mail the sender address", ErrEmailDelivery)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.Sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.Sender, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%w, %v", ErrEmailDelivery, err)
	}

	return nil
}
