package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the record store for subjects, chapters and targets. It is the
// single source of truth: callers hold no durable state and re-derive
// everything from reads. Every mutation is a single independent statement;
// concurrent edits are last-write-wins with no conflict detection.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}
