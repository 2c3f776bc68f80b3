package database

import (
	"context"
	"fmt"

	"github.com/example/learningremind/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// Create inserts a new word into a collection
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO words (collection_id, word, translation, example)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		err := DB.QueryRowxContext(ctx, query, word.CollectionID, word.Word, word.Translation, word.Example).
			Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create word: %v", err)
		}
		return nil
	}

	result, err := DB.ExecContext(ctx,
		"INSERT INTO words (collection_id, word, translation, example) VALUES ($1, $2, $3, $4)",
		word.CollectionID, word.Word, word.Translation, word.Example,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	word.ID = id
	return nil
}

// GetByCollectionID returns all words in a collection
func (r *WordRepository) GetByCollectionID(ctx context.Context, collectionID int64) ([]models.Word, error) {
	var words []models.Word
	err := DB.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE collection_id = $1 ORDER BY id ASC", collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// Delete removes a word
func (r *WordRepository) Delete(ctx context.Context, id int64) error {
	result, err := DB.ExecContext(ctx, "DELETE FROM words WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %v", err)
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
