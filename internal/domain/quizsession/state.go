package quizsession

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spotcircuit/dmv-test/internal/domain/section"
)

var (
	ErrInvalidState             = errors.New("no quiz mode selected")
	ErrInvalidInput             = errors.New("invalid answer selection")
	ErrInvalidQuestionReference = errors.New("question reference not found")
	ErrQuizComplete             = errors.New("quiz complete")
)

type Mode string

const (
	ModeNone     Mode = ""
	ModePractice Mode = "practice"
	ModeTest     Mode = "test"
)

// ParseMode accepts "practice" or "test", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePractice:
		return ModePractice, nil
	case ModeTest:
		return ModeTest, nil
	default:
		return ModeNone, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
	}
}

type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Complete
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Tally counts correct and wrong attempts within one section.
type Tally struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// State is the per-user progress cursor and score record.
type State struct {
	Mode          Mode    `json:"mode"`
	SectionIndex  int     `json:"current_section_index"`
	QuestionIndex int     `json:"current_question_index"`
	Score         int     `json:"score"`
	WrongCount    int     `json:"wrong_count"`
	TotalAnswered int     `json:"total_answered"`
	Streak        int     `json:"streak"`
	MaxStreak     int     `json:"max_streak"`
	Tallies       []Tally `json:"tallies,omitempty"`
}

// New returns a fresh state for a quiz over sectionCount sections.
func New(mode Mode, sectionCount int) State {
	return State{
		Mode:    mode,
		Tallies: make([]Tally, sectionCount),
	}
}

// Phase derives the lifecycle phase from the cursor.
func (s *State) Phase(sections []section.Section) Phase {
	switch {
	case s.Mode == ModeNone:
		return NotStarted
	case s.IsComplete(sections):
		return Complete
	default:
		return InProgress
	}
}

// IsComplete reports whether the cursor has moved past the last section.
func (s *State) IsComplete(sections []section.Section) bool {
	return s.SectionIndex >= len(sections)
}

// Finish moves the cursor past the last section without touching counters.
func (s *State) Finish(sections []section.Section) {
	s.SectionIndex = len(sections)
	s.QuestionIndex = 0
}

// Position counts the distinct questions the cursor has moved past.
func (s *State) Position(sections []section.Section) int {
	pos := 0
	for i := 0; i < s.SectionIndex && i < len(sections); i++ {
		pos += sections[i].Len()
	}
	if !s.IsComplete(sections) {
		pos += min(s.QuestionIndex, sections[s.SectionIndex].Len())
	}
	return pos
}

func (s *State) advance(sections []section.Section) {
	s.QuestionIndex++
	if s.QuestionIndex >= sections[s.SectionIndex].Len() {
		s.QuestionIndex = 0
		s.SectionIndex++
	}
}

func (s *State) record(correct bool, sectionCount int) {
	s.TotalAnswered++
	if correct {
		s.Score++
		s.Streak++
		s.MaxStreak = max(s.MaxStreak, s.Streak)
	} else {
		s.WrongCount++
		s.Streak = 0
	}

	if len(s.Tallies) < sectionCount {
		s.Tallies = append(s.Tallies, make([]Tally, sectionCount-len(s.Tallies))...)
	}
	if correct {
		s.Tallies[s.SectionIndex].Correct++
	} else {
		s.Tallies[s.SectionIndex].Wrong++
	}
}
