package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/store"
)

func stores(t *testing.T) map[string]store.SessionStore {
	t.Helper()

	sqlStore, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]store.SessionStore{
		"memory": store.NewMemory(),
		"sqlite": sqlStore,
	}
}

func newSession(id string, updated time.Time) *store.Session {
	started := updated.Add(-time.Minute)
	st := quizsession.New(quizsession.ModeTest, 2)
	st.Score = 3
	st.Tallies[1].Wrong = 1
	return &store.Session{
		ID:    id,
		State: st,
		Sections: []section.Section{
			{Name: "Road Signs", QuestionIDs: []questionbank.ID{4, 1, 7}},
			{Name: "Safe Driving", QuestionIDs: []questionbank.ID{2}},
		},
		BankID:    "9f2c",
		CreatedAt: updated.Add(-time.Hour),
		StartedAt: &started,
		UpdatedAt: updated,
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, newSession("abc", now)); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := s.Get(ctx, "abc")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.State.Mode != quizsession.ModeTest || got.State.Score != 3 {
				t.Errorf("unexpected state %+v", got.State)
			}
			if got.State.Tallies[1].Wrong != 1 {
				t.Errorf("expected tallies to survive, got %+v", got.State.Tallies)
			}
			if len(got.Sections) != 2 || got.Sections[0].QuestionIDs[2] != 7 {
				t.Errorf("unexpected sections %+v", got.Sections)
			}
			if got.BankID != "9f2c" {
				t.Errorf("expected bank id 9f2c, got %q", got.BankID)
			}
			if got.StartedAt == nil || !got.StartedAt.Equal(now.Add(-time.Minute)) {
				t.Errorf("unexpected started_at %v", got.StartedAt)
			}
		})
	}
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sess := newSession("abc", now)
			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("save: %v", err)
			}

			sess.State.Score = 10
			sess.State.SectionIndex = 1
			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, _ := s.Get(ctx, "abc")
			if got.State.Score != 10 || got.State.SectionIndex != 1 {
				t.Errorf("expected overwritten state, got %+v", got.State)
			}
		})
	}
}

func TestSessionStore_NotFound(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound from Get, got %v", err)
			}
			if err := s.Delete(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound from Delete, got %v", err)
			}
		})
	}
}

func TestSessionStore_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.Save(ctx, newSession("old", now.Add(-48*time.Hour)))
			s.Save(ctx, newSession("fresh", now))

			n, err := s.DeleteIdle(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("delete idle: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 purged session, got %d", n)
			}
			if _, err := s.Get(ctx, "old"); !errors.Is(err, store.ErrNotFound) {
				t.Error("expected idle session to be purged")
			}
			if _, err := s.Get(ctx, "fresh"); err != nil {
				t.Errorf("expected fresh session to survive: %v", err)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	s.Save(ctx, newSession("abc", time.Now()))

	got, _ := s.Get(ctx, "abc")
	got.Sections[0].QuestionIDs[0] = 99
	got.State.Tallies[0].Correct = 42

	again, _ := s.Get(ctx, "abc")
	if again.Sections[0].QuestionIDs[0] != 4 || again.State.Tallies[0].Correct != 0 {
		t.Error("expected stored session to be isolated from callers")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := store.Open(context.Background(), store.Driver("mysql"), ""); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestNew_SelectsImplementation(t *testing.T) {
	ctx := context.Background()

	s, err := store.New(ctx, "memory", "")
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", s)
	}

	s, err = store.New(ctx, "sqlite", filepath.Join(t.TempDir(), "s.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*store.SQLStore); !ok {
		t.Errorf("expected *SQLStore, got %T", s)
	}
}
