package quizsession

import (
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
)

// Lookup resolves question ids; *questionbank.Repository satisfies it.
type Lookup interface {
	Lookup(id questionbank.ID) (questionbank.Question, bool)
}

// AnswerResult is the outcome of one submission.
type AnswerResult struct {
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation"`
	QuizComplete bool   `json:"quiz_complete"`
}

// CurrentQuestion resolves the question under the cursor. It returns
// ErrQuizComplete once the cursor is past the last section and
// ErrInvalidQuestionReference when the id is unknown to lk. It never
// mutates the state, so repeated calls return the same question.
func CurrentQuestion(st *State, sections []section.Section, lk Lookup) (questionbank.Question, error) {
	if st.IsComplete(sections) {
		return questionbank.Question{}, ErrQuizComplete
	}

	ids := sections[st.SectionIndex].QuestionIDs
	if st.QuestionIndex < 0 || st.QuestionIndex >= len(ids) {
		return questionbank.Question{}, ErrInvalidQuestionReference
	}

	q, ok := lk.Lookup(ids[st.QuestionIndex])
	if !ok {
		return questionbank.Question{}, ErrInvalidQuestionReference
	}
	return q, nil
}

// CheckSubmission rejects a submission before any question is resolved:
// ErrInvalidState without a selected mode, then ErrInvalidInput for a
// selection outside the option range.
func CheckSubmission(st *State, selected int) error {
	if st.Mode != ModePractice && st.Mode != ModeTest {
		return ErrInvalidState
	}
	if selected < 0 || selected >= questionbank.OptionCount {
		return ErrInvalidInput
	}
	return nil
}

// SubmitAnswer scores selected against the current question and moves the
// cursor. Test mode always advances; practice mode advances only on a
// correct answer so the same question is asked again, except that a
// question with no usable answer is passed after one miss.
//
// A cursor that no longer resolves ends the quiz: the state is finished,
// the result reports completion and ErrInvalidQuestionReference is
// returned alongside it for the caller to log. Counters are untouched.
func SubmitAnswer(st *State, sections []section.Section, lk Lookup, selected int) (AnswerResult, error) {
	if err := CheckSubmission(st, selected); err != nil {
		return AnswerResult{}, err
	}

	q, err := CurrentQuestion(st, sections, lk)
	switch err {
	case nil:
	case ErrQuizComplete:
		return AnswerResult{QuizComplete: true}, nil
	case ErrInvalidQuestionReference:
		st.Finish(sections)
		return AnswerResult{QuizComplete: true}, err
	default:
		return AnswerResult{}, err
	}

	correct := selected == q.CorrectIndex
	st.record(correct, len(sections))

	// A question without a usable answer can never be passed, so practice
	// mode moves on after recording the miss.
	if st.Mode == ModeTest || correct || !q.HasAnswer() {
		st.advance(sections)
	}

	return AnswerResult{
		Correct:      correct,
		Explanation:  q.Explanation,
		QuizComplete: st.IsComplete(sections),
	}, nil
}
