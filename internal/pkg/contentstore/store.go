// Package contentstore runs parameterized SQL against the content database.
// It is the only place the repositories touch raw SQL results.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
)

const mysqlDuplicateEntry = 1062

// RunResult reports the outcome of a write statement.
type RunResult struct {
	InsertedID   int64
	AffectedRows int64
}

// Store wraps a gorm connection (or transaction).
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying gorm handle for builder-style queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// All scans every row of the query into dest (a pointer to a slice).
func (s *Store) All(ctx context.Context, dest any, query string, args ...any) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// Get scans the first row into dest. found is false when no row matched.
func (s *Store) Get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	res := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return false, fmt.Errorf("query: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Run executes a write statement. Duplicate key violations come back as
// apperrors conflicts.
func (s *Store) Run(ctx context.Context, query string, args ...any) (RunResult, error) {
	tx := s.db.WithContext(ctx)
	res, err := tx.Statement.ConnPool.ExecContext(ctx, query, args...)
	if err != nil {
		if IsDuplicateKey(err) {
			return RunResult{}, apperrors.Conflict("A record with this slug already exists", err)
		}
		return RunResult{}, fmt.Errorf("exec: %w", err)
	}

	var out RunResult
	// LastInsertId is meaningless for UPDATE/DELETE; drivers return 0 there.
	if id, err := res.LastInsertId(); err == nil {
		out.InsertedID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.AffectedRows = n
	}
	return out, nil
}

// Tx runs fn inside a transaction; fn's Store is bound to that transaction.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// IsDuplicateKey recognizes unique constraint violations from MySQL, from
// gorm's translated error and from SQLite.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
