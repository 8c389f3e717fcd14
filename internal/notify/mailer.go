package notify

import (
	"fmt"
	"regexp"
	"time"

	"busbooking/internal/config"
	"busbooking/internal/domain"

	"gopkg.in/gomail.v2"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers notifications. Booking flows treat delivery failure as
// non-fatal; callers log and move on.
type Sender interface {
	Send(msg Message) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SMTPSender delivers mail over SMTP with bounded retries.
type SMTPSender struct {
	dialer    *gomail.Dialer
	from      string
	retries   int
	retryWait time.Duration
}

func NewSMTPSender(env config.Env) *SMTPSender {
	retries := env.MailRetries
	if retries < 1 {
		retries = 1
	}
	return &SMTPSender{
		dialer:    gomail.NewDialer(env.SMTPHost, env.SMTPPort, env.SMTPUser, env.SMTPPass),
		from:      env.MailFrom,
		retries:   retries,
		retryWait: time.Duration(env.MailRetryWait) * time.Second,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	if err := validate(msg); err != nil {
		return domain.DependencyError{Dependency: "mail", Err: err}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if lastErr = s.dialer.DialAndSend(m); lastErr == nil {
			return nil
		}
		if attempt < s.retries {
			time.Sleep(s.retryWait)
		}
	}
	return domain.DependencyError{
		Dependency: "mail",
		Err:        fmt.Errorf("failed to send email after %d attempts: %w", s.retries, lastErr),
	}
}

func validate(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient email is required")
	}
	if msg.Subject == "" {
		return fmt.Errorf("email subject is required")
	}
	if msg.Text == "" && msg.HTML == "" {
		return fmt.Errorf("email must have either text or HTML content")
	}
	if !emailPattern.MatchString(msg.To) {
		return fmt.Errorf("invalid recipient email format")
	}
	return nil
}
