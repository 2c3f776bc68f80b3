package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/learningremind/internal/notifier"
	"github.com/example/learningremind/pkg/models"
	"github.com/go-co-op/gocron"
)

// DueSource provides the collections whose review has come due
type DueSource interface {
	DueCollections(ctx context.Context) ([]models.DueCollection, error)
}

// Scheduler fires the daily review reminder at a fixed wall-clock time
// in a fixed timezone. Each fire recomputes the due set from scratch;
// missed fires are not backfilled.
type Scheduler struct {
	scheduler *gocron.Scheduler
	due       DueSource
	notifier  notifier.Notifier
	fireTime  string // "HH:MM" in the scheduler's timezone
}

// New creates a scheduler that fires daily at fireTime in loc
func New(due DueSource, n notifier.Notifier, loc *time.Location, fireTime string) *Scheduler {
	s := gocron.NewScheduler(loc)
	// At most one job body runs at a time
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		due:       due,
		notifier:  n,
		fireTime:  fireTime,
	}
}

// Start registers the daily job and begins running it in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.fireTime).Do(s.sendDailyReminders)
	if err != nil {
		return fmt.Errorf("failed to schedule daily reminders: %v", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendDailyReminders() {
	if err := s.RunOnce(context.Background()); err != nil {
		log.Printf("Error sending review reminders: %v", err)
	}
}

// userGroup batches every due collection owned by one user so each
// user gets a single reminder per run
type userGroup struct {
	user        models.User
	collections []models.DueCollection
}

// RunOnce computes the due set and dispatches one reminder per user
// with due collections. A failing dispatch is logged and skipped so
// the remaining users still get theirs; there is no retry until the
// next fire.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	due, err := s.due.DueCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to get due collections: %v", err)
	}
	if len(due) == 0 {
		log.Println("No collections due for review")
		return nil
	}

	groups := groupByUser(due)

	sent := 0
	for _, group := range groups {
		if err := s.notifier.SendReviewReminder(group.user, group.collections); err != nil {
			log.Printf("Error sending reminder to user %d: %v", group.user.ID, err)
			continue
		}
		sent++
	}

	log.Printf("Review reminders sent to %d of %d users (%d collections due)",
		sent, len(groups), len(due))
	return nil
}

// groupByUser batches due collections per owning user, preserving
// first-seen order
func groupByUser(due []models.DueCollection) []userGroup {
	index := make(map[int64]int)
	groups := make([]userGroup, 0)
	for _, d := range due {
		i, ok := index[d.User.ID]
		if !ok {
			i = len(groups)
			index[d.User.ID] = i
			groups = append(groups, userGroup{user: d.User})
		}
		groups[i].collections = append(groups[i].collections, d)
	}
	return groups
}
