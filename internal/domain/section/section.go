package section

import (
	"errors"

	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
)

// ErrNoSectionsAvailable is returned when no category in the distribution
// had a single question in the bank.
var ErrNoSectionsAvailable = errors.New("no sections available")

// Section is the realized sample of question ids for one category.
type Section struct {
	Name        string            `json:"name"`
	QuestionIDs []questionbank.ID `json:"question_ids"`
}

func (s Section) Len() int {
	return len(s.QuestionIDs)
}

// TotalQuestions sums the section lengths.
func TotalQuestions(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += len(s.QuestionIDs)
	}
	return total
}
