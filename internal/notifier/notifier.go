package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/learningremind/pkg/models"
)

// Notifier delivers a review reminder to one user. Implementations own
// the transport; what is due is decided upstream.
type Notifier interface {
	SendReviewReminder(user models.User, collections []models.DueCollection) error
}

// wordPreview shows at most the first three words of a collection
func wordPreview(words []models.Word) string {
	if len(words) == 0 {
		return ""
	}
	names := make([]string, 0, 3)
	for i, w := range words {
		if i == 3 {
			break
		}
		names = append(names, w.Word)
	}
	preview := strings.Join(names, ", ")
	if extra := len(words) - 3; extra > 0 {
		preview += fmt.Sprintf(" and %d more", extra)
	}
	return preview
}

// renderReminder builds the plain-text reminder body listing each due
// collection with its word count, preview and review link.
func renderReminder(collections []models.DueCollection, frontendURL string) string {
	var b strings.Builder

	plural := ""
	if len(collections) != 1 {
		plural = "s"
	}
	fmt.Fprintf(&b, "Hi there! You have %d collection%s due for review today.\n", len(collections), plural)
	fmt.Fprintf(&b, "Consistent review helps solidify your learning!\n\n")

	for _, due := range collections {
		wordPlural := ""
		if len(due.Words) != 1 {
			wordPlural = "s"
		}
		fmt.Fprintf(&b, "%s (%d word%s, review #%d)\n",
			due.Collection.Name, len(due.Words), wordPlural, due.Task.ReviewCount+1)
		if due.Collection.Description != "" {
			fmt.Fprintf(&b, "  %s\n", due.Collection.Description)
		}
		if preview := wordPreview(due.Words); preview != "" {
			fmt.Fprintf(&b, "  Words to review: %s\n", preview)
		}
		fmt.Fprintf(&b, "  Start review: %s/review/%d\n\n", strings.TrimRight(frontendURL, "/"), due.Collection.ID)
	}

	b.WriteString("Keep up the great work with your learning journey!\n")
	return b.String()
}

// reminderSubject builds the subject line for a reminder sent on day t
func reminderSubject(t time.Time) string {
	return fmt.Sprintf("Your Daily Learning Review - %s", t.Format("Monday, January 2"))
}
