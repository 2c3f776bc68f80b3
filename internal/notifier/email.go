package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/example/learningremind/pkg/models"
)

// EmailNotifier delivers review reminders as plain-text email over SMTP
type EmailNotifier struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string

	now func() time.Time
}

// NewEmailNotifier creates an email notifier
func NewEmailNotifier(host string, port int, username, password, from, frontendURL string) *EmailNotifier {
	return &EmailNotifier{
		Host:        host,
		Port:        port,
		Username:    username,
		Password:    password,
		From:        from,
		FrontendURL: frontendURL,
		now:         time.Now,
	}
}

// SendReviewReminder implements the Notifier interface
func (n *EmailNotifier) SendReviewReminder(user models.User, collections []models.DueCollection) error {
	if user.Email == "" {
		return fmt.Errorf("user %d has no email address", user.ID)
	}

	msg := n.buildMessage(user.Email, collections)
	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)

	if err := smtp.SendMail(addr, auth, n.From, []string{user.Email}, msg); err != nil {
		return fmt.Errorf("failed to send reminder email to %s: %v", user.Email, err)
	}
	return nil
}

func (n *EmailNotifier) buildMessage(to string, collections []models.DueCollection) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: LearningRemind <%s>\r\n", n.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", reminderSubject(n.now()))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(renderReminder(collections, n.FrontendURL))
	return []byte(b.String())
}
