package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/category"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/results"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/service"
	"github.com/spotcircuit/dmv-test/internal/store"
)

type record struct {
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// writeExactBank writes a bank that matches the default distribution
// exactly, plus extra uncategorized questions. Every answer is A.
func writeExactBank(t *testing.T, extra int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	writeBankFile(t, path, extra, "A")
	return path
}

// writeBankFile (re)writes the bank at path with answer as the correct
// letter of every distributed question.
func writeBankFile(t *testing.T, path string, extra int, answer string) {
	t.Helper()
	var recs []record
	for _, c := range category.Default().Entries() {
		for i := 0; i < c.Count; i++ {
			recs = append(recs, record{
				Category: c.Name,
				Question: fmt.Sprintf("%s question %d?", c.Name, i),
				Options:  []string{"A. yes", "B. no", "C. maybe", "D. never"},
				Answer:   answer,
			})
		}
	}
	for i := 0; i < extra; i++ {
		recs = append(recs, record{
			Question: fmt.Sprintf("General question %d?", i),
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "B",
		})
	}

	data, err := json.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
}

func newService(t *testing.T, path string) *service.QuizService {
	t.Helper()
	sampler := section.NewSampler(rand.New(rand.NewPCG(7, 11)), nil)
	cat := catalog.New(catalog.Options{Path: path}, sampler, nil)
	return service.NewQuizService(cat, sampler, store.NewMemory(), nil)
}

func TestQuizService_NotStarted(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()

	if _, err := svc.CurrentQuestion(ctx, "s1"); !errors.Is(err, service.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from CurrentQuestion, got %v", err)
	}
	if _, err := svc.Results(ctx, "s1"); !errors.Is(err, service.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from Results, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "s1", 0); !errors.Is(err, quizsession.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState from SubmitAnswer, got %v", err)
	}
}

func TestQuizService_SelectModeRejectsUnknownMode(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))

	_, err := svc.SelectMode(context.Background(), "s1", "exam")
	if !errors.Is(err, quizsession.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQuizService_SelectModeSurfacesLoadError(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "missing.json"))

	_, err := svc.SelectMode(context.Background(), "s1", "test")
	var le *questionbank.LoadError
	if !errors.As(err, &le) || le.Kind != questionbank.FileMissing {
		t.Errorf("expected FileMissing load error, got %v", err)
	}
}

func TestQuizService_PerfectTestRun(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()

	f, err := svc.SelectMode(ctx, "s1", "test")
	if err != nil {
		t.Fatalf("select mode: %v", err)
	}
	if f.Question == nil || f.Progress.Total != 35 || f.Mode != quizsession.ModeTest {
		t.Fatalf("unexpected first fetch %+v", f)
	}
	if f.Progress.Section != "Road Signs" {
		t.Errorf("expected first section Road Signs, got %q", f.Progress.Section)
	}

	var last service.Answer
	for i := 0; i < 35; i++ {
		last, err = svc.SubmitAnswer(ctx, "s1", 0)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if !last.Correct {
			t.Fatalf("answer %d: expected correct", i)
		}
		if last.Feedback != "" {
			t.Errorf("answer %d: expected no feedback on a correct answer", i)
		}
	}
	if !last.QuizComplete {
		t.Error("expected quiz complete after 35 answers")
	}

	f, err = svc.CurrentQuestion(ctx, "s1")
	if err != nil || !f.QuizComplete || f.Question != nil {
		t.Errorf("expected completion indicator, got %+v, %v", f, err)
	}

	r, err := svc.Results(ctx, "s1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if !r.Passed || r.CorrectCount != 35 || r.Message != results.Message(true, 35, 0) {
		t.Errorf("unexpected results %+v", r)
	}

	// Further submissions report completion without touching counters.
	a, err := svc.SubmitAnswer(ctx, "s1", 1)
	if err != nil || !a.QuizComplete || a.Progress.Wrong != 0 {
		t.Errorf("expected no-op completion, got %+v, %v", a, err)
	}
}

func TestQuizService_PracticeRetry(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()

	first, err := svc.SelectMode(ctx, "s1", "practice")
	if err != nil {
		t.Fatalf("select mode: %v", err)
	}

	a, _ := svc.SubmitAnswer(ctx, "s1", 1)
	if a.Correct || a.Feedback != results.WrongAnswerFeedback(1) {
		t.Errorf("unexpected first attempt %+v", a)
	}
	a, _ = svc.SubmitAnswer(ctx, "s1", 2)
	if a.Feedback != results.WrongAnswerFeedback(2) {
		t.Errorf("expected second roast line, got %q", a.Feedback)
	}

	f, _ := svc.CurrentQuestion(ctx, "s1")
	if f.Question.ID != first.Question.ID {
		t.Error("expected the same question after wrong practice answers")
	}

	a, _ = svc.SubmitAnswer(ctx, "s1", 0)
	if !a.Correct {
		t.Fatal("expected correct answer")
	}
	if a.Progress.Attempts != 3 || a.Progress.Answered != 1 {
		t.Errorf("expected 3 attempts over 1 question, got %+v", a.Progress)
	}

	f, _ = svc.CurrentQuestion(ctx, "s1")
	if f.Question.ID == first.Question.ID {
		t.Error("expected cursor to advance after a correct answer")
	}
}

func TestQuizService_RejectsOutOfRangeSelection(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")

	if _, err := svc.SubmitAnswer(ctx, "s1", 4); !errors.Is(err, quizsession.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	f, _ := svc.CurrentQuestion(ctx, "s1")
	if f.Progress.Attempts != 0 {
		t.Error("expected rejected input to leave state untouched")
	}
}

func TestQuizService_Reset(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")
	svc.SubmitAnswer(ctx, "s1", 0)

	if err := svc.Reset(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.CurrentQuestion(ctx, "s1"); !errors.Is(err, service.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted after reset, got %v", err)
	}
	if err := svc.Reset(ctx, "never-started"); err != nil {
		t.Errorf("expected reset of an unknown session to succeed, got %v", err)
	}
}

func TestQuizService_NewModeDrawsFreshState(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")
	svc.SubmitAnswer(ctx, "s1", 1)

	f, err := svc.SelectMode(ctx, "s1", "practice")
	if err != nil {
		t.Fatalf("select mode: %v", err)
	}
	if f.Mode != quizsession.ModePractice || f.Progress.Attempts != 0 || f.Progress.Wrong != 0 {
		t.Errorf("expected zeroed state in practice mode, got %+v", f)
	}
}

func TestQuizService_ReloadKeepsRunningSession(t *testing.T) {
	path := writeExactBank(t, 0)
	svc := newService(t, path)
	ctx := context.Background()

	before, _ := svc.SelectMode(ctx, "s1", "test")

	writeBankFile(t, path, 3, "B")
	info, err := svc.Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if info.Version != 2 || info.Questions != 38 || info.ID == "" {
		t.Errorf("unexpected reload info %+v", info)
	}

	after, _ := svc.CurrentQuestion(ctx, "s1")
	if after.Question == nil || after.Question.Text != before.Question.Text {
		t.Error("expected the running session to keep its question")
	}

	ans, err := svc.SubmitAnswer(ctx, "s1", 0)
	if err != nil || !ans.Correct {
		t.Errorf("expected scoring against the bank the session started on, got %+v, %v", ans, err)
	}
}

func TestQuizService_EvictedBankEndsQuiz(t *testing.T) {
	path := writeExactBank(t, 0)
	svc := newService(t, path)
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")
	svc.SubmitAnswer(ctx, "s1", 0)

	for i := 0; i < 8; i++ {
		writeBankFile(t, path, i+1, "A")
		if _, err := svc.Reload(ctx); err != nil {
			t.Fatalf("reload: %v", err)
		}
	}

	f, err := svc.CurrentQuestion(ctx, "s1")
	if err != nil || !f.QuizComplete {
		t.Fatalf("expected completion after bank eviction, got %+v, %v", f, err)
	}

	r, _ := svc.Results(ctx, "s1")
	if r.CorrectCount != 1 || r.WrongCount != 0 {
		t.Errorf("expected counters untouched, got %+v", r)
	}
}

func TestQuizService_ConcurrentSubmissions(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.SubmitAnswer(ctx, "s1", 0)
		}()
	}
	wg.Wait()

	r, err := svc.Results(ctx, "s1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if r.CorrectCount != 35 {
		t.Errorf("expected exactly 35 scored answers, got %d", r.CorrectCount)
	}
}

func TestQuizService_Categories(t *testing.T) {
	svc := newService(t, writeExactBank(t, 2))

	inv, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(inv) != 7 {
		t.Fatalf("expected 6 requested plus 1 extra category, got %d", len(inv))
	}
	if inv[0] != (service.CategoryInventory{Name: "Road Signs", Requested: 9, Available: 9}) {
		t.Errorf("unexpected first entry %+v", inv[0])
	}
	extra := inv[6]
	if extra.Name != questionbank.DefaultCategory || extra.Requested != 0 || extra.Available != 2 {
		t.Errorf("unexpected extra entry %+v", extra)
	}
}

func TestQuizService_PurgeIdle(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()
	svc.SelectMode(ctx, "s1", "test")

	n, err := svc.PurgeIdle(ctx, time.Hour)
	if err != nil || n != 0 {
		t.Errorf("expected nothing purged, got %d, %v", n, err)
	}

	n, err = svc.PurgeIdle(ctx, -time.Hour)
	if err != nil || n != 1 {
		t.Errorf("expected 1 purged, got %d, %v", n, err)
	}
	if _, err := svc.CurrentQuestion(ctx, "s1"); !errors.Is(err, service.ErrNotStarted) {
		t.Errorf("expected purged session to be gone, got %v", err)
	}
}

// newProcess wires a service the way cmd/server does, against a shared
// SQLite session file, so several instances act like restarts.
func newProcess(t *testing.T, bankPath, dbPath string) *service.QuizService {
	t.Helper()
	ctx := context.Background()

	sessions, err := store.Open(ctx, store.DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	sampler := section.NewSampler(rand.New(rand.NewPCG(7, 11)), nil)
	cat := catalog.New(catalog.Options{Path: bankPath}, sampler, nil)
	cat.Reload(ctx) // startup failures are retried on demand
	return service.NewQuizService(cat, sampler, sessions, nil)
}

func TestQuizService_SessionsAcrossRestarts(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged bank resumes", func(t *testing.T) {
		path := writeExactBank(t, 0)
		db := filepath.Join(t.TempDir(), "sessions.db")

		first := newProcess(t, path, db)
		first.SelectMode(ctx, "s1", "test")
		first.SubmitAnswer(ctx, "s1", 0)
		want, _ := first.CurrentQuestion(ctx, "s1")

		second := newProcess(t, path, db)
		got, err := second.CurrentQuestion(ctx, "s1")
		if err != nil || got.Question == nil || got.Question.Text != want.Question.Text {
			t.Fatalf("expected the same question after restart, got %+v, %v", got, err)
		}
		ans, err := second.SubmitAnswer(ctx, "s1", 0)
		if err != nil || !ans.Correct {
			t.Errorf("expected correct answer after restart, got %+v, %v", ans, err)
		}
	})

	t.Run("edited bank never scores old draws", func(t *testing.T) {
		path := writeExactBank(t, 0)
		db := filepath.Join(t.TempDir(), "sessions.db")

		first := newProcess(t, path, db)
		first.SelectMode(ctx, "s1", "test")

		writeBankFile(t, path, 0, "B")
		second := newProcess(t, path, db)

		ans, err := second.SubmitAnswer(ctx, "s1", 0)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if !ans.QuizComplete || ans.Correct || ans.Feedback != "" {
			t.Errorf("expected the quiz to end unscored, got %+v", ans)
		}
		r, _ := second.Results(ctx, "s1")
		if r.CorrectCount != 0 || r.WrongCount != 0 {
			t.Errorf("expected no answer scored against the edited bank, got %+v", r)
		}
	})

	t.Run("failed startup load is reported and recovers", func(t *testing.T) {
		path := writeExactBank(t, 0)
		db := filepath.Join(t.TempDir(), "sessions.db")

		first := newProcess(t, path, db)
		started, _ := first.SelectMode(ctx, "s1", "test")

		if err := os.Remove(path); err != nil {
			t.Fatalf("remove bank: %v", err)
		}
		second := newProcess(t, path, db)

		var le *questionbank.LoadError
		if _, err := second.CurrentQuestion(ctx, "s1"); !errors.As(err, &le) || le.Kind != questionbank.FileMissing {
			t.Fatalf("expected FileMissing from CurrentQuestion, got %v", err)
		}
		if _, err := second.SubmitAnswer(ctx, "s1", 0); !errors.As(err, &le) {
			t.Fatalf("expected load error from SubmitAnswer, got %v", err)
		}

		writeBankFile(t, path, 0, "A")
		f, err := second.CurrentQuestion(ctx, "s1")
		if err != nil || f.QuizComplete || f.Question == nil || f.Question.Text != started.Question.Text {
			t.Errorf("expected the quiz to resume once the bank loads, got %+v, %v", f, err)
		}
	})
}

func TestQuizService_SubmitAnswerToRejectsStaleQuestion(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()

	f, _ := svc.SelectMode(ctx, "s1", "test")
	first := f.Question.ID

	if _, err := svc.SubmitAnswerTo(ctx, "s1", first+1000, 0); !errors.Is(err, service.ErrStaleQuestion) {
		t.Errorf("expected ErrStaleQuestion for another question, got %v", err)
	}

	ans, err := svc.SubmitAnswerTo(ctx, "s1", first, 0)
	if err != nil || !ans.Correct {
		t.Fatalf("expected the current question to be scored, got %+v, %v", ans, err)
	}

	if _, err := svc.SubmitAnswerTo(ctx, "s1", first, 0); !errors.Is(err, service.ErrStaleQuestion) {
		t.Errorf("expected ErrStaleQuestion once answered, got %v", err)
	}
	if ans.Progress.Attempts != 1 {
		t.Errorf("expected a single attempt, got %d", ans.Progress.Attempts)
	}
}

func TestQuizService_SubmitAnswerToScoresOnePress(t *testing.T) {
	svc := newService(t, writeExactBank(t, 0))
	ctx := context.Background()

	f, _ := svc.SelectMode(ctx, "s1", "test")
	qid := f.Question.ID

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		scored int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitAnswerTo(ctx, "s1", qid, 0)
			if err == nil {
				mu.Lock()
				scored++
				mu.Unlock()
			} else if !errors.Is(err, service.ErrStaleQuestion) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if scored != 1 {
		t.Errorf("expected exactly one press to score, got %d", scored)
	}
	r, _ := svc.Results(ctx, "s1")
	if r.CorrectCount != 1 {
		t.Errorf("expected one correct answer, got %+v", r)
	}
}
