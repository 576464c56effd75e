package models

import "time"

// Subject is a top-level grouping the user studies (e.g. a course).
// LastOpened is only advanced by an explicit "open"; freshly created
// subjects keep the store default (epoch) until first opened.
type Subject struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	LastOpened time.Time `json:"last_opened" db:"last_opened"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CreateSubjectsRequest struct {
	// Titles accepts a single title or a comma-separated list; each piece
	// becomes one subject.
	Titles string `json:"titles" binding:"required"`
}

type RenameSubjectRequest struct {
	Title string `json:"title" binding:"required"`
}

// BatchItemResult reports the outcome of one create in a batch. Batches are
// not transactional: failed items leave the successful ones in place.
type BatchItemResult struct {
	Title string `json:"title"`
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type BatchCreateResponse struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}
