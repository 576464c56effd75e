package models

import "time"

// Target is a user-declared goal: finish TotalChapters by TargetDate.
// ChaptersPerDay is computed once at creation and frozen; it describes the
// pace that was required as of the moment the target was set.
type Target struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	TotalChapters  int       `json:"total_chapters" db:"total_chapters"`
	ChaptersPerDay float64   `json:"chapters_per_day" db:"chapters_per_day"`
	TargetDate     time.Time `json:"target_date" db:"target_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type CreateTargetRequest struct {
	TotalChapters int       `json:"total_chapters" binding:"required,min=1"`
	TargetDate    time.Time `json:"target_date" binding:"required"`
}

// SubjectProgress is a subject annotated with its chapter counts, recomputed
// from the store on every read.
type SubjectProgress struct {
	Subject           Subject `json:"subject"`
	CompletedChapters int     `json:"completed_chapters"`
	TotalChapters     int     `json:"total_chapters"`
	Percentage        float64 `json:"percentage"`
}

// ProgressOverview is the global aggregate across all of a user's subjects.
// Totals are elementwise sums; the percentage is recomputed from the sums.
type ProgressOverview struct {
	Subjects          []SubjectProgress `json:"subjects"`
	CompletedChapters int               `json:"completed_chapters"`
	TotalChapters     int               `json:"total_chapters"`
	Percentage        float64           `json:"percentage"`
}
