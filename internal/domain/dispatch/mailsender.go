package dispatch

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"

	"cartrecovery/internal/apperr"
)

const mailMaxRetries = 3

// MailSender delivers recovery messages over SMTP, grounded on the teacher's
// mailtrapClient (internal/mailer), adapted from transactional account email
// to recovery-action templates.
type MailSender struct {
	fromEmail string
	dialer    *gomail.Dialer
}

// NewMailSender builds a MailSender against an SMTP relay.
func NewMailSender(host string, port int, username, password, fromEmail string) *MailSender {
	return &MailSender{
		fromEmail: fromEmail,
		dialer:    gomail.NewDialer(host, port, username, password),
	}
}

func (m *MailSender) Send(_ context.Context, msg Message) error {
	if msg.RecipientEmail == "" {
		return apperr.ValidationErrorf("mail sender: message has no recipient email")
	}

	body := gomail.NewMessage()
	body.SetHeader("From", m.fromEmail)
	body.SetHeader("To", msg.RecipientEmail)
	body.SetHeader("Subject", subjectForTemplate(msg.Template))
	body.SetBody("text/plain", bodyForTemplate(msg.Template))

	var lastErr error
	for attempt := 0; attempt < mailMaxRetries; attempt++ {
		if err := m.dialer.DialAndSend(body); err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return nil
	}
	return apperr.StoreUnavailablef(lastErr, "send recovery email after %d attempts", mailMaxRetries)
}

func subjectForTemplate(template string) string {
	switch template {
	case "discount_offer":
		return "A discount on the items in your cart"
	case "free_shipping_offer":
		return "Free shipping on your cart, today only"
	case "retry_payment":
		return "There was a problem with your payment"
	case "supportive_reminder":
		return "Still interested? We can help"
	default:
		return "You left something in your cart"
	}
}

func bodyForTemplate(template string) string {
	return fmt.Sprintf("template=%s", template)
}
