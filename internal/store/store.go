package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
)

var (
	ErrNotFound = errors.New("not found")
)

// Session is the persisted per-user quiz record. Sections are frozen at
// mode selection together with the id of the bank they were drawn from.
type Session struct {
	ID          string            `json:"id"`
	State       quizsession.State `json:"state"`
	Sections    []section.Section `json:"sections"`
	BankID      string            `json:"bank_id"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (s *Session) Clone() *Session {
	c := *s
	c.State.Tallies = slices.Clone(s.State.Tallies)
	if s.Sections != nil {
		c.Sections = make([]section.Section, len(s.Sections))
		for i, sec := range s.Sections {
			c.Sections[i] = section.Section{Name: sec.Name, QuestionIDs: slices.Clone(sec.QuestionIDs)}
		}
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	return &c
}

// SessionStore persists quiz sessions keyed by opaque id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// DeleteIdle removes sessions not updated since before and reports how
	// many were removed.
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
	Close() error
}

// New returns the store named by kind: "memory" (or empty), "sqlite" or
// "postgres".
func New(ctx context.Context, kind, dsn string) (SessionStore, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	default:
		return Open(ctx, Driver(kind), dsn)
	}
}
