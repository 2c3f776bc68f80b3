package spaced_repetition

import (
	"fmt"
	"time"

	"github.com/example/learningremind/pkg/models"
)

// Intervals is the ordered sequence of day gaps between reviews. The
// table is fixed at startup and shared by every schedule; progression
// through it plateaus at the last entry.
type Intervals []int

// DefaultIntervals is the standard progression: reviews quickly at
// first, then increasingly rarely up to one year.
var DefaultIntervals = Intervals{1, 3, 7, 14, 30, 60, 90, 180, 365}

// ForIndex returns the day gap for the given progression step. The
// index is clamped to the table bounds, so any step at or past the end
// keeps yielding the largest interval and a negative step yields the
// first one.
func (iv Intervals) ForIndex(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(iv) {
		i = len(iv) - 1
	}
	return iv[i]
}

// Validate checks that the table is usable: non-empty, every entry at
// least one day, and no entry smaller than the one before it.
func (iv Intervals) Validate() error {
	if len(iv) == 0 {
		return fmt.Errorf("interval table is empty")
	}
	for i, days := range iv {
		if days < 1 {
			return fmt.Errorf("interval %d is %d days, must be at least 1", i, days)
		}
		if i > 0 && days < iv[i-1] {
			return fmt.Errorf("interval %d (%d days) is shorter than interval %d (%d days)", i, days, i-1, iv[i-1])
		}
	}
	return nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
// Callers decide the timezone by converting t before the call.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day in t's
// location. It is the cutoff for "due today": anything scheduled today
// or earlier falls at or before it, anything scheduled tomorrow after.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// NewReviewTask builds the initial schedule state for a collection:
// first review tomorrow at midnight, counters at zero.
func NewReviewTask(collectionID int64, now time.Time) models.ReviewTask {
	today := StartOfDay(now)
	return models.ReviewTask{
		CollectionID:  collectionID,
		IntervalIndex: 0,
		NextReview:    today.AddDate(0, 0, 1),
		LastReviewed:  today,
		ReviewCount:   0,
	}
}

// Complete advances the schedule one step: the interval index moves
// forward (staying put once at the end of the table), the next review
// lands at midnight the new interval's number of days from today, and
// the review counter grows by one. The next review is always strictly
// in the future since every interval is at least one day.
func Complete(task models.ReviewTask, table Intervals, now time.Time) models.ReviewTask {
	next := task.IntervalIndex + 1
	if next > len(table)-1 {
		next = len(table) - 1
	}
	task.IntervalIndex = next
	task.NextReview = StartOfDay(now).AddDate(0, 0, table.ForIndex(next))
	task.LastReviewed = now
	task.ReviewCount++
	return task
}

// Reset sends the schedule back to the start of the sequence: next
// review tomorrow at midnight, as if the collection were new. The
// review counter is preserved; reset re-schedules, it does not erase
// history.
func Reset(task models.ReviewTask, now time.Time) models.ReviewTask {
	task.IntervalIndex = 0
	task.NextReview = StartOfDay(now).AddDate(0, 0, 1)
	task.LastReviewed = now
	return task
}
