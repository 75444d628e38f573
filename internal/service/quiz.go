package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/results"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/store"
)

var (
	// ErrNotStarted is returned for reads on a session with no selected mode.
	ErrNotStarted = errors.New("quiz not started")
	// ErrStaleQuestion is returned when an answer names a question other
	// than the one under the cursor.
	ErrStaleQuestion = errors.New("question already answered")
)

// Progress is the snapshot shown next to each question. Answered counts
// distinct questions the cursor has moved past; Attempts counts every
// submission, including practice retries.
type Progress struct {
	Answered      int    `json:"answered"`
	Attempts      int    `json:"attempts"`
	Total         int    `json:"total"`
	Correct       int    `json:"correct"`
	Wrong         int    `json:"wrong"`
	Streak        int    `json:"streak"`
	MaxStreak     int    `json:"max_streak"`
	Section       string `json:"section,omitempty"`
	SectionIndex  int    `json:"section_index"`
	QuestionIndex int    `json:"question_index"`
}

// QuestionView is a question without its answer key.
type QuestionView struct {
	ID       questionbank.ID `json:"id"`
	Category string          `json:"category"`
	Text     string          `json:"question"`
	Options  []string        `json:"options"`
	Image    *string         `json:"image,omitempty"`
}

type Fetch struct {
	Mode         quizsession.Mode `json:"mode"`
	QuizComplete bool             `json:"quiz_complete"`
	Question     *QuestionView    `json:"question,omitempty"`
	Progress     Progress         `json:"progress"`
}

type Answer struct {
	quizsession.AnswerResult
	Feedback string   `json:"feedback,omitempty"`
	Progress Progress `json:"progress"`
}

// CategoryInventory compares the distribution against the loaded bank.
type CategoryInventory struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type ReloadInfo struct {
	ID        string              `json:"id"`
	Version   int64               `json:"version"`
	Questions int                 `json:"questions"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Audit     catalog.AuditReport `json:"audit"`
}

// QuizService runs quiz sessions against the published catalog. Calls on
// the same session id are serialized; different sessions run in parallel.
type QuizService struct {
	catalog *catalog.Catalog
	sampler *section.Sampler
	store   store.SessionStore
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock // sessionID → lock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewQuizService(c *catalog.Catalog, sampler *section.Sampler, s store.SessionStore, logger *slog.Logger) *QuizService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QuizService{
		catalog: c,
		sampler: sampler,
		store:   s,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sessionLock),
	}
}

// lock acquires the per-session mutex and returns its release func.
func (qs *QuizService) lock(sessionID string) func() {
	qs.mu.Lock()
	l, ok := qs.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		qs.locks[sessionID] = l
	}
	l.refs++
	qs.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		qs.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(qs.locks, sessionID)
		}
		qs.mu.Unlock()
	}
}

// SelectMode starts a quiz in the given mode with freshly drawn sections,
// discarding any previous progress for the session.
func (qs *QuizService) SelectMode(ctx context.Context, sessionID, mode string) (Fetch, error) {
	m, err := quizsession.ParseMode(mode)
	if err != nil {
		return Fetch{}, err
	}

	snap, err := qs.catalog.Ensure(ctx)
	if err != nil {
		return Fetch{}, err
	}

	sections, err := qs.sampler.Build(snap.Bank, snap.Distribution)
	if err != nil {
		return Fetch{}, err
	}

	unlock := qs.lock(sessionID)
	defer unlock()

	now := qs.now()
	sess, err := qs.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		sess = &store.Session{ID: sessionID, CreatedAt: now}
	} else if err != nil {
		return Fetch{}, err
	}

	sess.State = quizsession.New(m, len(sections))
	sess.Sections = sections
	sess.BankID = snap.ID
	sess.StartedAt = &now
	sess.UpdatedAt = now

	if err := qs.store.Save(ctx, sess); err != nil {
		return Fetch{}, err
	}

	qs.logger.Info("quiz started",
		"session_id", sessionID,
		"mode", m,
		"bank_id", snap.ID,
		"sections", len(sections),
		"questions", section.TotalQuestions(sections),
	)

	return qs.fetch(ctx, sess, snap.Bank)
}

// CurrentQuestion returns the question under the cursor or a completion
// indicator. It does not move the cursor.
func (qs *QuizService) CurrentQuestion(ctx context.Context, sessionID string) (Fetch, error) {
	unlock := qs.lock(sessionID)
	defer unlock()

	sess, err := qs.started(ctx, sessionID)
	if err != nil {
		return Fetch{}, err
	}

	bank, err := qs.bankFor(ctx, sess)
	if err != nil {
		return Fetch{}, err
	}
	return qs.fetch(ctx, sess, bank)
}

// SubmitAnswer scores selected against the current question.
func (qs *QuizService) SubmitAnswer(ctx context.Context, sessionID string, selected int) (Answer, error) {
	return qs.submit(ctx, sessionID, nil, selected)
}

// SubmitAnswerTo is SubmitAnswer for a client that names the question it
// is answering. If the cursor has moved on, nothing is scored and
// ErrStaleQuestion is returned.
func (qs *QuizService) SubmitAnswerTo(ctx context.Context, sessionID string, questionID questionbank.ID, selected int) (Answer, error) {
	return qs.submit(ctx, sessionID, &questionID, selected)
}

func (qs *QuizService) submit(ctx context.Context, sessionID string, expect *questionbank.ID, selected int) (Answer, error) {
	unlock := qs.lock(sessionID)
	defer unlock()

	sess, err := qs.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return Answer{}, quizsession.ErrInvalidState
	}
	if err != nil {
		return Answer{}, err
	}
	if err := quizsession.CheckSubmission(&sess.State, selected); err != nil {
		return Answer{}, err
	}

	bank, err := qs.bankFor(ctx, sess)
	if err != nil {
		return Answer{}, err
	}

	if expect != nil {
		q, err := quizsession.CurrentQuestion(&sess.State, sess.Sections, bank)
		if errors.Is(err, quizsession.ErrQuizComplete) || (err == nil && q.ID != *expect) {
			return Answer{}, ErrStaleQuestion
		}
	}

	before := sess.State.TotalAnswered
	res, err := quizsession.SubmitAnswer(&sess.State, sess.Sections, bank, selected)
	switch {
	case errors.Is(err, quizsession.ErrInvalidQuestionReference):
		qs.logger.Warn("invalid question reference, ending quiz",
			"session_id", sessionID,
			"bank_id", sess.BankID,
		)
	case err != nil:
		return Answer{}, err
	}

	sess.UpdatedAt = qs.now()
	if err := qs.store.Save(ctx, sess); err != nil {
		return Answer{}, err
	}

	out := Answer{AnswerResult: res, Progress: progressOf(sess)}
	if scored := sess.State.TotalAnswered > before; scored && !res.Correct {
		out.Feedback = results.WrongAnswerFeedback(sess.State.WrongCount)
	}
	return out, nil
}

// Results reports the verdict for the session's current counts.
func (qs *QuizService) Results(ctx context.Context, sessionID string) (results.Result, error) {
	unlock := qs.lock(sessionID)
	defer unlock()

	sess, err := qs.started(ctx, sessionID)
	if err != nil {
		return results.Result{}, err
	}
	return results.Compute(&sess.State, sess.Sections), nil
}

// Reset clears all state for the session, returning it to mode selection.
func (qs *QuizService) Reset(ctx context.Context, sessionID string) error {
	unlock := qs.lock(sessionID)
	defer unlock()

	err := qs.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	qs.logger.Info("quiz reset", "session_id", sessionID)
	return nil
}

// Reload re-reads the question bank. Running sessions keep the snapshot
// they started with.
func (qs *QuizService) Reload(ctx context.Context) (ReloadInfo, error) {
	snap, err := qs.catalog.Reload(ctx)
	if err != nil {
		return ReloadInfo{}, err
	}
	return ReloadInfo{
		ID:        snap.ID,
		Version:   snap.Version,
		Questions: snap.Bank.Len(),
		LoadedAt:  snap.LoadedAt,
		Audit:     snap.Audit,
	}, nil
}

// Categories lists every distribution entry with its available count,
// followed by bank categories the distribution does not request.
func (qs *QuizService) Categories(ctx context.Context) ([]CategoryInventory, error) {
	snap, err := qs.catalog.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var out []CategoryInventory
	for _, e := range snap.Distribution.Entries() {
		out = append(out, CategoryInventory{
			Name:      e.Name,
			Requested: e.Count,
			Available: snap.Bank.CountInCategory(e.Name),
		})
	}
	for _, name := range snap.Bank.Categories() {
		if snap.Distribution.Requested(name) == 0 {
			out = append(out, CategoryInventory{
				Name:      name,
				Available: snap.Bank.CountInCategory(name),
			})
		}
	}
	return out, nil
}

// PurgeIdle removes sessions not touched within ttl.
func (qs *QuizService) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	n, err := qs.store.DeleteIdle(ctx, qs.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}
	if n > 0 {
		qs.logger.Info("purged idle sessions", "count", n, "ttl", ttl.String())
	}
	return n, nil
}

// RunJanitor purges idle sessions every interval until ctx is done.
func (qs *QuizService) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := qs.PurgeIdle(ctx, ttl); err != nil {
				qs.logger.Error("janitor error", "error", err)
			}
		}
	}
}

func (qs *QuizService) started(ctx context.Context, sessionID string) (*store.Session, error) {
	sess, err := qs.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotStarted
	}
	if err != nil {
		return nil, err
	}
	if sess.State.Mode == quizsession.ModeNone {
		return nil, ErrNotStarted
	}
	return sess, nil
}

// fetch resolves the current question. A dangling reference ends the quiz
// and the finished state is persisted.
func (qs *QuizService) fetch(ctx context.Context, sess *store.Session, lk quizsession.Lookup) (Fetch, error) {
	q, err := quizsession.CurrentQuestion(&sess.State, sess.Sections, lk)
	switch {
	case err == nil:
		return Fetch{
			Mode:     sess.State.Mode,
			Question: viewOf(q),
			Progress: progressOf(sess),
		}, nil
	case errors.Is(err, quizsession.ErrQuizComplete):
	case errors.Is(err, quizsession.ErrInvalidQuestionReference):
		qs.logger.Warn("invalid question reference, ending quiz",
			"session_id", sess.ID,
			"bank_id", sess.BankID,
		)
		sess.State.Finish(sess.Sections)
		sess.UpdatedAt = qs.now()
		if err := qs.store.Save(ctx, sess); err != nil {
			return Fetch{}, err
		}
	default:
		return Fetch{}, err
	}

	return Fetch{
		Mode:         sess.State.Mode,
		QuizComplete: true,
		Progress:     progressOf(sess),
	}, nil
}

// bankFor resolves the bank a session was drawn from. When it is not
// retained the catalog is loaded first, so a process that has not loaded
// the bank yet reports the load error instead of ending the quiz. A session
// whose bank is gone after a successful load resolves nothing and its quiz
// ends.
func (qs *QuizService) bankFor(ctx context.Context, sess *store.Session) (quizsession.Lookup, error) {
	if snap, ok := qs.catalog.Lookup(sess.BankID); ok {
		return snap.Bank, nil
	}
	if _, err := qs.catalog.Ensure(ctx); err != nil {
		return nil, err
	}
	if snap, ok := qs.catalog.Lookup(sess.BankID); ok {
		return snap.Bank, nil
	}
	return missingBank{}, nil
}

type missingBank struct{}

func (missingBank) Lookup(questionbank.ID) (questionbank.Question, bool) {
	return questionbank.Question{}, false
}

func viewOf(q questionbank.Question) *QuestionView {
	return &QuestionView{
		ID:       q.ID,
		Category: q.Category,
		Text:     q.Text,
		Options:  append([]string(nil), q.Options...),
		Image:    q.ImageRef,
	}
}

func progressOf(sess *store.Session) Progress {
	st := &sess.State
	p := Progress{
		Answered:      st.Position(sess.Sections),
		Attempts:      st.TotalAnswered,
		Total:         section.TotalQuestions(sess.Sections),
		Correct:       st.Score,
		Wrong:         st.WrongCount,
		Streak:        st.Streak,
		MaxStreak:     st.MaxStreak,
		SectionIndex:  st.SectionIndex,
		QuestionIndex: st.QuestionIndex,
	}
	if !st.IsComplete(sess.Sections) {
		p.Section = sess.Sections[st.SectionIndex].Name
	}
	return p
}
