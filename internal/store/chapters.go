package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studytrack/studytrack/pkg/models"
)

func (s *Store) ListChapters(ctx context.Context, subjectID string) ([]models.Chapter, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject id is required")
	}

	query := `
		SELECT id, subject_id, title, completed, progress, created_at
		FROM chapters
		WHERE subject_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		var ch models.Chapter
		err := rows.Scan(&ch.ID, &ch.SubjectID, &ch.Title, &ch.Completed, &ch.Progress, &ch.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

func (s *Store) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	query := `
		SELECT id, subject_id, title, completed, progress, created_at
		FROM chapters
		WHERE id = ?
	`

	var ch models.Chapter
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ch.ID, &ch.SubjectID, &ch.Title, &ch.Completed, &ch.Progress, &ch.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query chapter: %w", err)
	}
	return &ch, nil
}

func (s *Store) CreateChapter(ctx context.Context, subjectID, title string) (*models.Chapter, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject id is required")
	}
	if title == "" {
		return nil, fmt.Errorf("chapter title is required")
	}

	ch := models.Chapter{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO chapters (id, subject_id, title, completed, progress, created_at)
		VALUES (?, ?, ?, 0, 0, ?)
	`

	_, err := s.db.ExecContext(ctx, query, ch.ID, ch.SubjectID, ch.Title, ch.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chapter: %w", err)
	}
	return &ch, nil
}

// SetChapterCompletion toggles completion. The stored progress value is
// derived display state and moves in lockstep: 100 when completed, 0 when
// unmarked. Partial progress is never tracked.
func (s *Store) SetChapterCompletion(ctx context.Context, id string, completed bool) error {
	progress := 0
	if completed {
		progress = 100
	}

	query := `UPDATE chapters SET completed = ?, progress = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, completed, progress, id)
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
