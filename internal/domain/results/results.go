package results

import (
	"fmt"

	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
)

const (
	// PassingScore is the fixed exam cutoff. It does not scale with the
	// number of questions actually available.
	PassingScore = 30
	// PerfectScore is the nominal quiz length.
	PerfectScore = 35
	// HighScore is the lower bound of the high pass tier.
	HighScore = 33

	SevereFailWrong = 25
	MidFailWrong    = 15
)

// CategoryScore summarizes one section of a finished or running quiz.
type CategoryScore struct {
	Category  string `json:"category"`
	Questions int    `json:"questions"`
	Correct   int    `json:"correct"`
	Wrong     int    `json:"wrong"`
}

type Result struct {
	Passed         bool            `json:"passed"`
	Message        string          `json:"message"`
	CorrectCount   int             `json:"correct_count"`
	WrongCount     int             `json:"wrong_count"`
	TotalQuestions int             `json:"total_questions"`
	Breakdown      []CategoryScore `json:"breakdown"`
}

// Compute derives the verdict and feedback message from the final counts.
func Compute(st *quizsession.State, sections []section.Section) Result {
	passed := st.Score >= PassingScore

	breakdown := make([]CategoryScore, len(sections))
	for i, s := range sections {
		breakdown[i] = CategoryScore{Category: s.Name, Questions: s.Len()}
		if i < len(st.Tallies) {
			breakdown[i].Correct = st.Tallies[i].Correct
			breakdown[i].Wrong = st.Tallies[i].Wrong
		}
	}

	return Result{
		Passed:         passed,
		Message:        Message(passed, st.Score, st.WrongCount),
		CorrectCount:   st.Score,
		WrongCount:     st.WrongCount,
		TotalQuestions: section.TotalQuestions(sections),
		Breakdown:      breakdown,
	}
}

// Message picks the feedback tier for the given counts.
func Message(passed bool, correct, wrong int) string {
	if passed {
		switch {
		case correct == PerfectScore:
			return "PERIODT! YOU DEVOURED THIS TEST AND LEFT NO CRUMBS! 💅✨ DMV QUEEN/KING BEHAVIOR!"
		case correct >= HighScore:
			return "THE SERVE! Almost perfect bestie, you really ate that! 💃✨"
		default:
			return "You passed! Not the most glamorous performance, but we take those! 💁‍♀️✨"
		}
	}

	switch {
	case wrong >= SevereFailWrong:
		return "The way you failed... it's actually impressive? 😭 " +
			"Like you had to TRY to get this many wrong! " +
			"See you in 15 days after you actually READ the manual! 📚"
	case wrong >= MidFailWrong:
		return "Bestie... your performance is giving 'I learned driving from Mario Kart'! 🎮 " +
			"The DMV said 'Thank u, next!' Try again in 15 days! 😩"
	default:
		return fmt.Sprintf("SO CLOSE YET SO FAR! Only needed %d more right! "+
			"You're giving 'almost ate' but the DMV said 'still hungry'! "+
			"Come back in 15 days bestie! 😔✨", PassingScore-correct)
	}
}
