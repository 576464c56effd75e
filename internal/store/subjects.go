package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studytrack/studytrack/pkg/models"
)

// epoch is the last_opened value reported for subjects that have never been
// opened. Ordering relies on it comparing older than any real open.
var epoch = time.Unix(0, 0).UTC()

// ListSubjects returns all subjects owned by ownerID. Rows come back in
// creation order; recency ordering is applied by the caller so that ties
// stay stable.
func (s *Store) ListSubjects(ctx context.Context, ownerID string) ([]models.Subject, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	query := `
		SELECT id, title, owner_id, last_opened, created_at, updated_at
		FROM subjects
		WHERE owner_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	subjects := []models.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

func (s *Store) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	query := `
		SELECT id, title, owner_id, last_opened, created_at, updated_at
		FROM subjects
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	subject, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subject: %w", err)
	}
	return &subject, nil
}

// CreateSubject inserts one subject. last_opened stays NULL (epoch) until
// the subject is first opened; creation never advances it.
func (s *Store) CreateSubject(ctx context.Context, ownerID, title string) (*models.Subject, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	if title == "" {
		return nil, fmt.Errorf("subject title is required")
	}

	now := time.Now().UTC()
	subject := models.Subject{
		ID:         uuid.New().String(),
		Title:      title,
		OwnerID:    ownerID,
		LastOpened: epoch,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := `
		INSERT INTO subjects (id, title, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, subject.ID, subject.Title, subject.OwnerID, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	return &subject, nil
}

func (s *Store) RenameSubject(ctx context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("subject title is required")
	}

	query := `UPDATE subjects SET title = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchSubject persists a new last_opened timestamp. This is the only write
// path that advances it; callers re-read after a successful touch rather
// than reordering an in-memory copy first.
func (s *Store) TouchSubject(ctx context.Context, id string, openedAt time.Time) error {
	query := `UPDATE subjects SET last_opened = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, openedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch subject: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSubject removes the subject row only. Chapters are NOT cascaded:
// the schema carries no enforcing foreign key, so chapters of a deleted
// subject are orphaned.
func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubject(row rowScanner) (models.Subject, error) {
	var subject models.Subject
	var lastOpened sql.NullTime

	err := row.Scan(
		&subject.ID,
		&subject.Title,
		&subject.OwnerID,
		&lastOpened,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		return subject, err
	}

	if lastOpened.Valid {
		subject.LastOpened = lastOpened.Time.UTC()
	} else {
		subject.LastOpened = epoch
	}
	return subject, nil
}
