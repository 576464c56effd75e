package models

import "time"

// Chapter is a unit of work within a subject, binary complete/incomplete.
// Progress is a derived display value kept in lockstep with Completed:
// 100 when completed, 0 otherwise.
type Chapter struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	Progress  int       `json:"progress" db:"progress"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateChaptersRequest struct {
	// Titles accepts a single title or a comma-separated list; each piece
	// becomes one chapter under the subject.
	Titles string `json:"titles" binding:"required"`
}

type SetCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}
