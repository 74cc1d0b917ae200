package contact

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
)

// SMTPSender mails submissions to the site owner.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// sendMail is smtp.SendMail outside tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a sender for the given server and credentials.
func NewSMTPSender(host, port, user, pass, to string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Pass: pass, To: to, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send composes a plain-text message with a Reply-To of the visitor.
// net/smtp has no context support, so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, sub Submission) error {
	if s.User == "" || s.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := s.sendMail(s.Host+":"+s.Port, auth, s.User, []string{s.To}, s.compose(sub)); err != nil {
		return errors.Wrap(err, "smtp")
	}
	return nil
}

// headerSafe folds line breaks so visitor input stays on its header line.
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (s *SMTPSender) compose(sub Submission) []byte {
	name := headerSafe.Replace(sub.Name)
	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	if sub.Subject != "" {
		subject = fmt.Sprintf("Portfolio Contact: %s (%s)", headerSafe.Replace(sub.Subject), name)
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Sent: %s
Message:
%s

---
Sent from your portfolio contact form
`, sub.Name, sub.Email, sub.Timestamp, sub.Message)

	return []byte("To: " + s.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.User + "\r\n" +
		"Reply-To: " + headerSafe.Replace(sub.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// LogSender writes submissions to the log instead of delivering them. It is
// the development default.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(_ context.Context, sub Submission) error {
	log.Printf("Contact message from %s <%s> at %s: %s", sub.Name, sub.Email, sub.Timestamp, sub.Subject)
	return nil
}
