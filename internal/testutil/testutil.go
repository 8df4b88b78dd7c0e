package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirzamitdinovs/vocab-master/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedUser inserts a user row and its stats row, returning the user id.
func SeedUser(t *testing.T, database *db.DB, name, phone string, admin bool) int64 {
	t.Helper()
	res, err := database.ExecContext(context.Background(),
		`INSERT INTO users (name, phone, is_admin) VALUES (?, ?, ?)`, name, phone, admin)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = database.ExecContext(context.Background(),
		`INSERT INTO user_stats (user_id, words_learned, sessions_completed, points) VALUES (?, 0, 0, 0)`, id)
	require.NoError(t, err)
	return id
}

// SeedChapter inserts a language, level, and chapter, returning the chapter id.
func SeedChapter(t *testing.T, database *db.DB, langKey, levelTitle, chapterTitle string) int64 {
	t.Helper()
	ctx := context.Background()
	res, err := database.ExecContext(ctx,
		`INSERT INTO languages (key, value) VALUES (?, ?)`, langKey, langKey)
	require.NoError(t, err)
	langID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = database.ExecContext(ctx,
		`INSERT INTO levels (language_id, title) VALUES (?, ?)`, langID, levelTitle)
	require.NoError(t, err)
	levelID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = database.ExecContext(ctx,
		`INSERT INTO chapters (level_id, title) VALUES (?, ?)`, levelID, chapterTitle)
	require.NoError(t, err)
	chapterID, err := res.LastInsertId()
	require.NoError(t, err)
	return chapterID
}

// SeedWord inserts a word into a chapter, returning the word id.
func SeedWord(t *testing.T, database *db.DB, chapterID int64, korean, translation string, order int) int64 {
	t.Helper()
	res, err := database.ExecContext(context.Background(),
		`INSERT INTO words (chapter_id, korean, translation, sort_order) VALUES (?, ?, ?, ?)`,
		chapterID, korean, translation, order)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
