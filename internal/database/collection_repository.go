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

// CollectionRepository handles database operations for collections.
// Creating a collection also opens its review task, so the two are
// born and die together.
type CollectionRepository struct {
	loc *time.Location
	now func() time.Time
}

// NewCollectionRepository creates a new repository instance. loc is the
// timezone that day boundaries (the initial "tomorrow midnight" review)
// are computed in.
func NewCollectionRepository(loc *time.Location) *CollectionRepository {
	return &CollectionRepository{loc: loc, now: time.Now}
}

// Create inserts a collection together with its initial review task in
// a single transaction. The schedule starts at interval index 0 with
// the first review due tomorrow.
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO collections (user_id, name, description)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRowxContext(ctx, query, collection.UserID, collection.Name, collection.Description).
			Scan(&collection.ID, &collection.CreatedAt, &collection.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create collection: %v", err)
		}
	} else {
		result, execErr := tx.ExecContext(ctx,
			"INSERT INTO collections (user_id, name, description) VALUES ($1, $2, $3)",
			collection.UserID, collection.Name, collection.Description,
		)
		if execErr != nil {
			return fmt.Errorf("failed to create collection: %v", execErr)
		}
		collection.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
	}

	task := spaced_repetition.NewReviewTask(collection.ID, r.now().In(r.loc))
	_, err = tx.ExecContext(ctx, `
		INSERT INTO review_tasks (collection_id, interval_index, next_review, last_reviewed, review_count)
		VALUES ($1, $2, $3, $4, $5)`,
		task.CollectionID,
		task.IntervalIndex,
		task.NextReview.UTC(),
		task.LastReviewed.UTC(),
		task.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create review task: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetByID returns a collection by id
func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	var collection models.Collection
	err := DB.GetContext(ctx, &collection, "SELECT * FROM collections WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %v", err)
	}
	return &collection, nil
}

// GetByUserID returns all collections owned by a user
func (r *CollectionRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Collection, error) {
	var collections []models.Collection
	err := DB.SelectContext(ctx, &collections,
		"SELECT * FROM collections WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collections: %v", err)
	}
	return collections, nil
}

// Delete removes a collection. The review task and words go with it
// through the foreign key cascade.
func (r *CollectionRepository) Delete(ctx context.Context, id int64) error {
	result, err := DB.ExecContext(ctx, "DELETE FROM collections WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
