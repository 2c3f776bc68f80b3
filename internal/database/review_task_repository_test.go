package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/learningremind/internal/spaced_repetition"
	"github.com/example/learningremind/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = spaced_repetition.Intervals{1, 3, 7, 14, 30}

// fixedNow is the reference instant used by every repository test
var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Connect("sqlite", path))
	t.Cleanup(func() { Close() })
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, TelegramChatID: 100}
	require.NoError(t, NewUserRepository().Create(context.Background(), user))
	return user
}

func createTestCollection(t *testing.T, userID int64, name string) *models.Collection {
	t.Helper()
	repo := NewCollectionRepository(time.UTC)
	repo.now = func() time.Time { return fixedNow }
	collection := &models.Collection{UserID: userID, Name: name}
	require.NoError(t, repo.Create(context.Background(), collection))
	return collection
}

func testTaskRepo() *ReviewTaskRepository {
	repo := NewReviewTaskRepository(testTable, time.UTC)
	repo.now = func() time.Time { return fixedNow }
	return repo
}

func TestCreateCollectionOpensReviewTask(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	collection := createTestCollection(t, user.ID, "Spanish basics")

	task, err := testTaskRepo().GetByCollectionID(context.Background(), collection.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, task.IntervalIndex)
	assert.Equal(t, 0, task.ReviewCount)
	wantNext := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantNext.Equal(task.NextReview), "next review %v, want %v", task.NextReview, wantNext)
	wantLast := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantLast.Equal(task.LastReviewed), "last reviewed %v, want %v", task.LastReviewed, wantLast)
}

func TestCompleteAdvancesThroughTable(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	collection := createTestCollection(t, user.ID, "Spanish basics")
	repo := testTaskRepo()
	ctx := context.Background()

	initial, err := repo.GetByCollectionID(ctx, collection.ID)
	require.NoError(t, err)

	task, err := repo.Complete(ctx, initial.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, task.IntervalIndex)
	assert.Equal(t, 1, task.ReviewCount)
	wantNext := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantNext.Equal(task.NextReview), "next review %v, want %v", task.NextReview, wantNext)

	for i := 0; i < 4; i++ {
		task, err = repo.Complete(ctx, initial.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, task.IntervalIndex)
	assert.Equal(t, 5, task.ReviewCount)
	wantNext = time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantNext.Equal(task.NextReview), "next review %v, want %v", task.NextReview, wantNext)

	// A sixth completion stays on the last interval
	task, err = repo.Complete(ctx, initial.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, task.IntervalIndex)
	assert.Equal(t, 6, task.ReviewCount)
	assert.True(t, wantNext.Equal(task.NextReview), "next review %v, want %v", task.NextReview, wantNext)
}

func TestCompleteGuardsAgainstDoubleAdvance(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	collection := createTestCollection(t, user.ID, "Spanish basics")
	repo := testTaskRepo()
	ctx := context.Background()

	stale, err := repo.GetByCollectionID(ctx, collection.ID)
	require.NoError(t, err)

	_, err = repo.Complete(ctx, stale.ID)
	require.NoError(t, err)

	// A stale write guarded on the old review count must not apply,
	// which is what protects duplicate client retries
	result, err := DB.Exec(
		"UPDATE review_tasks SET review_count = review_count + 1 WHERE id = $1 AND review_count = $2",
		stale.ID, stale.ReviewCount,
	)
	require.NoError(t, err)
	rows, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	task, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ReviewCount)
}

func TestResetPreservesReviewCount(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	collection := createTestCollection(t, user.ID, "Spanish basics")
	repo := testTaskRepo()
	ctx := context.Background()

	initial, err := repo.GetByCollectionID(ctx, collection.ID)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err = repo.Complete(ctx, initial.ID)
		require.NoError(t, err)
	}

	task, err := repo.Reset(ctx, initial.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, task.IntervalIndex)
	assert.Equal(t, 6, task.ReviewCount)
	wantNext := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantNext.Equal(task.NextReview), "next review %v, want %v", task.NextReview, wantNext)
}

func TestCompleteAndResetNotFound(t *testing.T) {
	setupTestDB(t)
	repo := testTaskRepo()
	ctx := context.Background()

	_, err := repo.Complete(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Reset(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDueCollectionsForUser(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	overdue := createTestCollection(t, user.ID, "overdue")
	createTestCollection(t, user.ID, "upcoming")
	repo := testTaskRepo()
	ctx := context.Background()

	// One task fell due yesterday, the other stays at tomorrow
	_, err := DB.Exec("UPDATE review_tasks SET next_review = $1 WHERE collection_id = $2",
		fixedNow.AddDate(0, 0, -1), overdue.ID)
	require.NoError(t, err)

	due, err := repo.DueCollectionsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, overdue.ID, due[0].Collection.ID)
	assert.Equal(t, user.ID, due[0].User.ID)

	// Querying is read-only
	task, err := repo.GetByCollectionID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, task.ReviewCount)
	assert.Equal(t, 0, task.IntervalIndex)
}

func TestDueCollectionsForUserScopedToOwner(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com")
	bob := createTestUser(t, "bob@example.com")
	aliceColl := createTestCollection(t, alice.ID, "alice words")
	createTestCollection(t, bob.ID, "bob words")
	repo := testTaskRepo()

	_, err := DB.Exec("UPDATE review_tasks SET next_review = $1", fixedNow.AddDate(0, 0, -2))
	require.NoError(t, err)

	due, err := repo.DueCollectionsForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, aliceColl.ID, due[0].Collection.ID)
}

func TestDueCollectionsGlobalLoadsContactAndWords(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com")
	bob := createTestUser(t, "bob@example.com")
	aliceColl := createTestCollection(t, alice.ID, "alice words")
	createTestCollection(t, bob.ID, "bob words")
	repo := testTaskRepo()
	ctx := context.Background()

	wordRepo := NewWordRepository()
	for _, w := range []string{"hola", "adios"} {
		require.NoError(t, wordRepo.Create(ctx, &models.Word{
			CollectionID: aliceColl.ID, Word: w, Translation: w,
		}))
	}

	_, err := DB.Exec("UPDATE review_tasks SET next_review = $1", fixedNow.AddDate(0, 0, -1))
	require.NoError(t, err)

	due, err := repo.DueCollections(ctx)
	require.NoError(t, err)
	require.Len(t, due, 2)

	byName := map[string]models.DueCollection{}
	for _, d := range due {
		byName[d.Collection.Name] = d
	}
	assert.Equal(t, "alice@example.com", byName["alice words"].User.Email)
	assert.Equal(t, "bob@example.com", byName["bob words"].User.Email)
	assert.Len(t, byName["alice words"].Words, 2)
	assert.Empty(t, byName["bob words"].Words)
}

func TestFreshCollectionNotDueUntilTomorrow(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	createTestCollection(t, user.ID, "fresh")
	ctx := context.Background()

	// Not due today
	repo := testTaskRepo()
	due, err := repo.DueCollectionsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Due once the clock passes into tomorrow
	later := testTaskRepo()
	later.now = func() time.Time { return fixedNow.Add(25 * time.Hour) }
	due, err = later.DueCollectionsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestDeleteCollectionCascadesToTaskAndWords(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com")
	collection := createTestCollection(t, user.ID, "doomed")
	repo := testTaskRepo()
	ctx := context.Background()

	wordRepo := NewWordRepository()
	require.NoError(t, wordRepo.Create(ctx, &models.Word{
		CollectionID: collection.ID, Word: "hola", Translation: "hello",
	}))

	collRepo := NewCollectionRepository(time.UTC)
	require.NoError(t, collRepo.Delete(ctx, collection.ID))

	_, err := repo.GetByCollectionID(ctx, collection.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	words, err := wordRepo.GetByCollectionID(ctx, collection.ID)
	require.NoError(t, err)
	assert.Empty(t, words)
}
