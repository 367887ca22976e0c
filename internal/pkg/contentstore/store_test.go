package contentstore

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/database"
)

type noteRow struct {
	ID    int64  `gorm:"column:id"`
	Slug  string `gorm:"column:slug"`
	Views int64  `gorm:"column:views"`
}

type countRow struct {
	Total int64 `gorm:"column:total"`
}

func newNotesStore(t *testing.T) *Store {
	t.Helper()
	s := New(database.NewTestDB(t))
	_, err := s.Run(context.Background(),
		`CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, slug TEXT NOT NULL UNIQUE, views INTEGER NOT NULL DEFAULT 0)`)
	require.NoError(t, err)
	return s
}

func TestRunReportsInsertedIDAndAffectedRows(t *testing.T) {
	ctx := context.Background()
	s := newNotesStore(t)

	first, err := s.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, "welcome")
	require.NoError(t, err)
	second, err := s.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, "easter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.AffectedRows)
	assert.Greater(t, second.InsertedID, first.InsertedID)

	upd, err := s.Run(ctx, `UPDATE notes SET views = views + 1 WHERE id = ?`, first.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.AffectedRows)

	missing, err := s.Run(ctx, `UPDATE notes SET views = views + 1 WHERE id = ?`, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), missing.AffectedRows)
}

func TestGetAndAll(t *testing.T) {
	ctx := context.Background()
	s := newNotesStore(t)
	for _, slug := range []string{"a", "b", "c"} {
		_, err := s.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, slug)
		require.NoError(t, err)
	}

	var row noteRow
	found, err := s.Get(ctx, &row, `SELECT * FROM notes WHERE slug = ?`, "b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", row.Slug)

	var absent noteRow
	found, err = s.Get(ctx, &absent, `SELECT * FROM notes WHERE slug = ?`, "zzz")
	require.NoError(t, err)
	assert.False(t, found)

	var rows []noteRow
	require.NoError(t, s.All(ctx, &rows, `SELECT * FROM notes ORDER BY id DESC`))
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].Slug)
}

func TestRunTranslatesDuplicateKeyToConflict(t *testing.T) {
	ctx := context.Background()
	s := newNotesStore(t)

	_, err := s.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, "dup")
	require.NoError(t, err)
	_, err = s.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, "dup")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var count countRow
	_, err = s.Get(ctx, &count, `SELECT COUNT(*) AS total FROM notes`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Total)
}

func TestTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newNotesStore(t)

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx *Store) error {
		if _, err := tx.Run(ctx, `INSERT INTO notes (slug) VALUES (?)`, "inside"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var row noteRow
	found, err := s.Get(ctx, &row, `SELECT * FROM notes WHERE slug = ?`, "inside")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}))
	assert.True(t, IsDuplicateKey(errors.New("constraint failed: UNIQUE constraint failed: blog_posts.slug (2067)")))
	assert.False(t, IsDuplicateKey(nil))
}
