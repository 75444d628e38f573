package id

import "github.com/google/uuid"

// NewSessionID returns an opaque random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Valid reports whether s looks like an id produced by NewSessionID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
