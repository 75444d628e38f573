package questionbank

import "strconv"

// ID identifies a question by its position in the bank file.
type ID int

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// NoCorrectAnswer marks a question whose answer letter could not be mapped.
// No submitted choice ever matches it.
const NoCorrectAnswer = -1

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// DefaultCategory is assigned to records that omit a category.
const DefaultCategory = "General"

type Question struct {
	ID           ID
	Category     string
	Text         string
	Options      []string
	CorrectIndex int     // 0..3, or NoCorrectAnswer
	ImageRef     *string // nil when the record has no image
	Explanation  string
}

// HasAnswer reports whether the question has a usable correct index.
func (q Question) HasAnswer() bool {
	return q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// Repository is an immutable, indexed view over a loaded bank.
type Repository struct {
	digest     string
	byID       map[ID]Question
	order      []ID
	byCategory map[string][]ID
	categories []string
}

// NewRepository indexes the given questions. Order is preserved both
// globally and within each category.
func NewRepository(questions []Question) *Repository {
	r := &Repository{
		byID:       make(map[ID]Question, len(questions)),
		order:      make([]ID, 0, len(questions)),
		byCategory: make(map[string][]ID),
	}
	for _, q := range questions {
		if _, dup := r.byID[q.ID]; dup {
			continue
		}
		r.byID[q.ID] = q
		r.order = append(r.order, q.ID)
		if _, seen := r.byCategory[q.Category]; !seen {
			r.categories = append(r.categories, q.Category)
		}
		r.byCategory[q.Category] = append(r.byCategory[q.Category], q.ID)
	}
	return r
}

// Digest is the hex SHA-256 of the bank file the repository was decoded
// from. Ids are file positions, so two repositories with the same digest
// resolve every id to the same question. Empty for repositories built
// directly with NewRepository.
func (r *Repository) Digest() string {
	return r.digest
}

// Lookup resolves a question by id.
func (r *Repository) Lookup(id ID) (Question, bool) {
	q, ok := r.byID[id]
	return q, ok
}

// IDsInCategory returns a copy of the ids in the category, in file order.
func (r *Repository) IDsInCategory(category string) []ID {
	ids := r.byCategory[category]
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

// CountInCategory returns the number of questions in the category.
func (r *Repository) CountInCategory(category string) int {
	return len(r.byCategory[category])
}

// Categories lists category names in order of first appearance.
func (r *Repository) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of questions.
func (r *Repository) Len() int {
	return len(r.order)
}

// Questions returns all questions in file order.
func (r *Repository) Questions() []Question {
	out := make([]Question, len(r.order))
	for i, id := range r.order {
		out[i] = r.byID[id]
	}
	return out
}
