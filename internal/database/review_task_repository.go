package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/learningremind/internal/spaced_repetition"
	"github.com/example/learningremind/pkg/models"
)

// ReviewTaskRepository handles database operations for review tasks:
// the persisted side of the spaced-repetition schedule.
type ReviewTaskRepository struct {
	table spaced_repetition.Intervals
	loc   *time.Location
	now   func() time.Time
}

// NewReviewTaskRepository creates a new repository instance. table is
// the interval sequence schedules advance through; loc is the timezone
// day boundaries are computed in.
func NewReviewTaskRepository(table spaced_repetition.Intervals, loc *time.Location) *ReviewTaskRepository {
	return &ReviewTaskRepository{table: table, loc: loc, now: time.Now}
}

// GetByID returns a review task by id
func (r *ReviewTaskRepository) GetByID(ctx context.Context, id int64) (*models.ReviewTask, error) {
	var task models.ReviewTask
	err := DB.GetContext(ctx, &task, "SELECT * FROM review_tasks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review task: %v", err)
	}
	return &task, nil
}

// GetByCollectionID returns the review task for a collection
func (r *ReviewTaskRepository) GetByCollectionID(ctx context.Context, collectionID int64) (*models.ReviewTask, error) {
	var task models.ReviewTask
	err := DB.GetContext(ctx, &task, "SELECT * FROM review_tasks WHERE collection_id = $1", collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review task: %v", err)
	}
	return &task, nil
}

// Complete records a finished review: the schedule advances one step
// through the interval table and the next review is pushed out
// accordingly. The update is guarded on the review count read at the
// start, so two duplicate calls racing on the same task advance it
// exactly once; the loser returns the state the winner wrote.
func (r *ReviewTaskRepository) Complete(ctx context.Context, id int64) (*models.ReviewTask, error) {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := spaced_repetition.Complete(*task, r.table, r.now().In(r.loc))

	_, err = DB.ExecContext(ctx, `
		UPDATE review_tasks SET
			interval_index = $1,
			next_review = $2,
			last_reviewed = $3,
			review_count = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND review_count = $6`,
		updated.IntervalIndex,
		updated.NextReview.UTC(),
		updated.LastReviewed.UTC(),
		updated.ReviewCount,
		id,
		task.ReviewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update review task: %v", err)
	}
	return r.GetByID(ctx, id)
}

// Reset sends the schedule back to the start of the interval sequence
// with the next review due tomorrow. The review count is left alone.
func (r *ReviewTaskRepository) Reset(ctx context.Context, id int64) (*models.ReviewTask, error) {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := spaced_repetition.Reset(*task, r.now().In(r.loc))

	result, err := DB.ExecContext(ctx, `
		UPDATE review_tasks SET
			interval_index = $1,
			next_review = $2,
			last_reviewed = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		updated.IntervalIndex,
		updated.NextReview.UTC(),
		updated.LastReviewed.UTC(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update review task: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// dueRow is the flat scan target for the due-collection join
type dueRow struct {
	TaskID         int64     `db:"task_id"`
	CollectionID   int64     `db:"collection_id"`
	IntervalIndex  int       `db:"interval_index"`
	NextReview     time.Time `db:"next_review"`
	LastReviewed   time.Time `db:"last_reviewed"`
	ReviewCount    int       `db:"review_count"`
	UserID         int64     `db:"user_id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	Email          string    `db:"email"`
	TelegramChatID int64     `db:"telegram_chat_id"`
}

const dueQuery = `
	SELECT t.id AS task_id, t.collection_id, t.interval_index,
	       t.next_review, t.last_reviewed, t.review_count,
	       c.user_id, c.name, c.description,
	       u.email, u.telegram_chat_id
	FROM review_tasks t
	JOIN collections c ON c.id = t.collection_id
	JOIN users u ON u.id = c.user_id
	WHERE t.next_review <= $1
`

// dueCutoff is the end of the current day in the configured timezone:
// anything due today or earlier is included, nothing due tomorrow is.
func (r *ReviewTaskRepository) dueCutoff() time.Time {
	return spaced_repetition.EndOfDay(r.now().In(r.loc)).UTC()
}

// DueCollectionsForUser returns the collections owned by a user whose
// review has come due. Read-only; no ordering is guaranteed.
func (r *ReviewTaskRepository) DueCollectionsForUser(ctx context.Context, userID int64) ([]models.DueCollection, error) {
	var rows []dueRow
	err := DB.SelectContext(ctx, &rows, dueQuery+" AND c.user_id = $2", r.dueCutoff(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get due collections: %v", err)
	}
	return assembleDue(rows), nil
}

// DueCollections returns every due collection across all users, with
// the owning user's contact identity and the collection's words loaded
// for the notification dispatcher.
func (r *ReviewTaskRepository) DueCollections(ctx context.Context) ([]models.DueCollection, error) {
	var rows []dueRow
	err := DB.SelectContext(ctx, &rows, dueQuery, r.dueCutoff())
	if err != nil {
		return nil, fmt.Errorf("failed to get due collections: %v", err)
	}

	due := assembleDue(rows)
	wordRepo := NewWordRepository()
	for i := range due {
		words, err := wordRepo.GetByCollectionID(ctx, due[i].Collection.ID)
		if err != nil {
			return nil, err
		}
		due[i].Words = words
	}
	return due, nil
}

func assembleDue(rows []dueRow) []models.DueCollection {
	due := make([]models.DueCollection, 0, len(rows))
	for _, row := range rows {
		due = append(due, models.DueCollection{
			Collection: models.Collection{
				ID:          row.CollectionID,
				UserID:      row.UserID,
				Name:        row.Name,
				Description: row.Description,
			},
			Task: models.ReviewTask{
				ID:            row.TaskID,
				CollectionID:  row.CollectionID,
				IntervalIndex: row.IntervalIndex,
				NextReview:    row.NextReview,
				LastReviewed:  row.LastReviewed,
				ReviewCount:   row.ReviewCount,
			},
			User: models.User{
				ID:             row.UserID,
				Email:          row.Email,
				TelegramChatID: row.TelegramChatID,
			},
		})
	}
	return due
}
