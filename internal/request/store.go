package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const selectColumns = `SELECT id, user_id, media_id, media_type, season, episode, status, created_at, updated_at FROM requests`

// Store persists requests. Every write is a single-row statement.
type Store struct {
	db *sql.DB
}

// NewStore creates a request store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts r, stamping both timestamps with now. An empty status means Pending.
func (s *Store) Add(ctx context.Context, r *Request, now time.Time) error {
	if r.Status == "" {
		r.Status = StatusPending
	}
	if err := r.Validate(); err != nil {
		return err
	}
	now = now.UTC().Truncate(time.Millisecond)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (user_id, media_id, media_type, season, episode, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.MediaID, r.Kind, r.Season, r.Episode, r.Status, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// Get retrieves a request by ID.
// Returns ErrNotFound if the request does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Request, error) {
	r, err := scanRequest(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	return r, nil
}

// Transition moves r to the target status. The update only applies while the stored
// status still equals r.Status, so two concurrent decisions cannot both win.
func (s *Store) Transition(ctx context.Context, r *Request, to Status, now time.Time) error {
	if !r.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	now = now.UTC().Truncate(time.Millisecond)

	result, err := s.db.ExecContext(ctx, `
		UPDATE requests SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		to, now.UnixMilli(), r.ID, r.Status,
	)
	if err != nil {
		return fmt.Errorf("update request %d: %w", r.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		current, err := s.Get(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("transition request %d: %w", r.ID, err)
		}
		return fmt.Errorf("transition request %d: %w: status is now %s", r.ID, ErrInvalidTransition, current.Status)
	}

	r.Status = to
	r.UpdatedAt = now
	return nil
}

// Delete removes a request.
// Returns ErrNotFound if the request does not exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete request %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete request %d: %w", id, ErrNotFound)
	}
	return nil
}

// List returns requests matching the filter, oldest first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Request, error) {
	where, args := f.clause()
	rows, err := s.db.QueryContext(ctx, selectColumns+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of requests matching the filter.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, args := f.clause()
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

func (f Filter) clause() (string, []any) {
	var conditions []string
	var args []any

	if f.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.MediaID != nil {
		conditions = append(conditions, "media_id = ?")
		args = append(args, *f.MediaID)
	}
	if f.Kind != nil {
		conditions = append(conditions, "media_type = ?")
		args = append(args, *f.Kind)
	}
	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}
	if f.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.Since.UnixMilli())
	}
	if f.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, f.Until.UnixMilli())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*Request, error) {
	var (
		r                Request
		season, episode  sql.NullInt64
		created, updated int64
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.MediaID, &r.Kind, &season, &episode, &r.Status, &created, &updated); err != nil {
		return nil, err
	}
	if season.Valid {
		n := int(season.Int64)
		r.Season = &n
	}
	if episode.Valid {
		n := int(episode.Int64)
		r.Episode = &n
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	r.UpdatedAt = time.UnixMilli(updated).UTC()
	return &r, nil
}
