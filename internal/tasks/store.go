package tasks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Store owns all task rows. Every method is scoped to one user;
// tasks belonging to other users are invisible through it.
type Store struct {
	DB *sql.DB
}

func NewStore(dbx *sql.DB) *Store {
	return &Store{DB: dbx}
}

const taskColumns = `id, user_id, title, COALESCE(description,''), status, created_at, updated_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	var completed sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt, &completed)
	if err != nil {
		return Task{}, err
	}
	if completed.Valid {
		t.CompletedAt = &completed.Time
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, userID uuid.UUID, title, description string) (Task, error) {
	now := time.Now().UTC()
	t := Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.UserID, t.Title, t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// GetByID returns (nil, nil) when the task does not exist for this user.
func (s *Store) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, taskID, userID)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the user's tasks newest-first.
// status "" means no filter.
func (s *Store) List(ctx context.Context, userID uuid.UUID, status string) ([]Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Update applies the provided fields and returns the fresh row,
// or (nil, nil) when the task does not exist for this user.
// Setting status to Completed stamps completed_at; any other status clears it.
func (s *Store) Update(ctx context.Context, userID, taskID uuid.UUID, upd Update) (*Task, error) {
	t, err := s.GetByID(ctx, userID, taskID)
	if err != nil || t == nil {
		return nil, err
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Status != nil {
		t.Status = *upd.Status
		if t.Status == StatusCompleted {
			if t.CompletedAt == nil {
				now := time.Now().UTC()
				t.CompletedAt = &now
			}
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = time.Now().UTC()

	var completed sql.NullTime
	if t.CompletedAt != nil {
		completed = sql.NullTime{Time: *t.CompletedAt, Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, `
		UPDATE tasks
		SET title=$1, description=$2, status=$3, updated_at=$4, completed_at=$5
		WHERE id=$6 AND user_id=$7
	`, t.Title, t.Description, t.Status, t.UpdatedAt, completed, taskID, userID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// FindByTitleSubstring matches titles case-insensitively, newest-first.
func (s *Store) FindByTitleSubstring(ctx context.Context, userID uuid.UUID, text string) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
	`, userID, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Counts returns total / pending / completed for the statistics endpoint.
func (s *Store) Counts(ctx context.Context, userID uuid.UUID) (total, pending, completed int, err error) {
	err = s.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM tasks
		WHERE user_id = $1
	`, userID, StatusPending, StatusCompleted).Scan(&total, &pending, &completed)
	return
}
