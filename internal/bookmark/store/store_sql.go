package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"linkshelf/internal/bookmark/models"
	"linkshelf/pkg/platform/sentinel"
)

const table = "bookmarks"

var columns = []string{"id", "name", "url", "display_rank", "type", "region"}

// Schema creates the bookmarks table. The statements are valid for both
// PostgreSQL and SQLite.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		url          TEXT NOT NULL,
		display_rank INTEGER NOT NULL DEFAULT 0,
		type         TEXT NOT NULL DEFAULT '',
		region       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS bookmarks_rank_idx ON bookmarks (display_rank, id)`,
}

// SQLStore persists the collection through database/sql. Queries are built
// with squirrel so one implementation serves PostgreSQL and SQLite.
type SQLStore struct {
	db       *sql.DB
	sb       sq.StatementBuilderType
	postgres bool
}

// NewSQL wraps db for the named driver ("postgres", "pgx" or "sqlite").
func NewSQL(db *sql.DB, driver string) *SQLStore {
	s := &SQLStore{db: db}
	switch driver {
	case "postgres", "pgx":
		s.postgres = true
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	default:
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return s
}

// EnsureSchema creates the table and index when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure bookmarks schema: %w", err)
		}
	}
	return nil
}

// Ping verifies that the database connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) ListAll(ctx context.Context) ([]*models.Bookmark, error) {
	query, args, err := s.sb.Select(columns...).From(table).OrderBy("display_rank ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	out := []*models.Bookmark{}
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.ID, &b.Name, &b.URL, &b.Rank, &b.Type, &b.Region); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return out, nil
}

// Insert reads the current max rank and inserts at max+1. The read and the
// insert are separate statements, so concurrent inserts may share a rank.
func (s *SQLStore) Insert(ctx context.Context, b *models.Bookmark) error {
	query, args, err := s.sb.Select("COALESCE(MAX(display_rank), -1) + 1").From(table).ToSql()
	if err != nil {
		return fmt.Errorf("building max rank query: %w", err)
	}
	var next int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return fmt.Errorf("read next rank: %w", err)
	}
	if b.ID == "" {
		b.ID = newID()
	}
	b.Rank = next
	if err := s.insert(ctx, s.db, []*models.Bookmark{b}); err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch models.Patch) error {
	if patch.Empty() {
		return s.requireExists(ctx, id)
	}
	// Apply to a scratch record so trimming rules live in one place.
	var scratch models.Bookmark
	patch.Apply(&scratch)

	ub := s.sb.Update(table).Where(sq.Eq{"id": id})
	if patch.Name != nil {
		ub = ub.Set("name", scratch.Name)
	}
	if patch.URL != nil {
		ub = ub.Set("url", scratch.URL)
	}
	if patch.Type != nil {
		ub = ub.Set("type", scratch.Type)
	}
	if patch.Region != nil {
		ub = ub.Set("region", scratch.Region)
	}
	query, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// SetRank is a no-op for unknown ids.
func (s *SQLStore) SetRank(ctx context.Context, id string, rank int) error {
	query, args, err := s.sb.Update(table).Set("display_rank", rank).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building rank query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set rank: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	query, args, err := s.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query, args, err := s.sb.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("building clear query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear bookmarks: %w", err)
	}
	return nil
}

// SeedIfEmpty counts and inserts inside one transaction. On PostgreSQL the
// table is locked first so concurrent seeders serialize; SQLite connections
// are already serialized by the pool.
func (s *SQLStore) SeedIfEmpty(ctx context.Context, records []*models.Bookmark) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if s.postgres {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE "+table+" IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return false, fmt.Errorf("lock bookmarks: %w", err)
		}
	}
	n, err := s.count(ctx, tx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	for _, b := range records {
		if b.ID == "" {
			b.ID = newID()
		}
	}
	if err := s.insert(ctx, tx, records); err != nil {
		return false, fmt.Errorf("seed bookmarks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) count(ctx context.Context, q execQuerier) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return n, nil
}

func (s *SQLStore) insert(ctx context.Context, q execQuerier, records []*models.Bookmark) error {
	if len(records) == 0 {
		return nil
	}
	ib := s.sb.Insert(table).Columns(columns...)
	for _, b := range records {
		ib = ib.Values(b.ID, b.Name, b.URL, b.Rank, b.Type, b.Region)
	}
	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	_, err = q.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStore) requireExists(ctx context.Context, id string) error {
	query, args, err := s.sb.Select("COUNT(*)").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building exists query: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return fmt.Errorf("find bookmark: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
