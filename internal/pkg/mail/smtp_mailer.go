package mail

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "25")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if host == "" {
		return fmt.Errorf("SMTP_HOST is not set")
	}
	if sender == "" {
		sender = "no-reply@localhost"
		log.Warnf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		log.Errorf("SMTP send error: %v", err)
		return err
	}
	log.Infof("Email sent to %s via %s", to, addr)
	return nil
}

// ContactNotifier mails new contact messages to a fixed inbox
type ContactNotifier struct {
	To   string
	send func(to, subject, body string) error
}

// NewContactNotifier returns nil when CONTACT_NOTIFY_EMAIL is not configured
func NewContactNotifier() *ContactNotifier {
	to := env.GetEnv("CONTACT_NOTIFY_EMAIL", "")
	if to == "" {
		return nil
	}
	return &ContactNotifier{To: to, send: SendMail}
}

func (n *ContactNotifier) NotifyContact(msg *models.ContactMessage) error {
	return n.send(n.To, "[HouseHub] "+msg.Subject, ContactBody(msg))
}

// ContactBody renders the notification body with every user value escaped
func ContactBody(msg *models.ContactMessage) string {
	var b strings.Builder
	b.WriteString("<h2>New contact message</h2>")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(msg.Name), html.EscapeString(msg.Email))
	if msg.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(msg.Phone))
	}
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(msg.Subject))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	return b.String()
}
