package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studytrack/studytrack/pkg/models"
)

// CreateTarget persists a target with its pace already frozen by the caller.
func (s *Store) CreateTarget(ctx context.Context, t *models.Target) (*models.Target, error) {
	if t == nil {
		return nil, fmt.Errorf("target is nil")
	}
	if t.OwnerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	if t.TotalChapters <= 0 {
		return nil, fmt.Errorf("total chapters must be positive")
	}

	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO targets (id, owner_id, total_chapters, chapters_per_day, target_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.TotalChapters, t.ChaptersPerDay, t.TargetDate.UTC(), t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert target: %w", err)
	}
	return t, nil
}

func (s *Store) ListTargets(ctx context.Context, ownerID string) ([]models.Target, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	query := `
		SELECT id, owner_id, total_chapters, chapters_per_day, target_date, created_at
		FROM targets
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	targets := []models.Target{}
	for rows.Next() {
		var t models.Target
		err := rows.Scan(&t.ID, &t.OwnerID, &t.TotalChapters, &t.ChaptersPerDay, &t.TargetDate, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
