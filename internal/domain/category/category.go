package category

// Category is one row of the distribution table: a topical grouping of
// questions and how many of them a quiz draws.
type Category struct {
	Name  string
	Count int
}

// Distribution is an ordered, read-only table of categories. The order is
// the order sections are presented in.
type Distribution struct {
	entries []Category
}

// New builds a distribution from entries in presentation order.
// Entries with a non-positive count or a repeated name are ignored.
func New(entries ...Category) Distribution {
	seen := make(map[string]bool, len(entries))
	out := make([]Category, 0, len(entries))
	for _, e := range entries {
		if e.Count <= 0 || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return Distribution{entries: out}
}

// Default is the Virginia DMV knowledge test layout: 35 questions.
func Default() Distribution {
	return New(
		Category{Name: "Road Signs", Count: 9},
		Category{Name: "Traffic Signals", Count: 5},
		Category{Name: "Rules of the Road", Count: 7},
		Category{Name: "Safe Driving", Count: 7},
		Category{Name: "Penalties and Insurance", Count: 4},
		Category{Name: "Alcohol and Drugs", Count: 3},
	)
}

// Entries returns a copy of the table.
func (d Distribution) Entries() []Category {
	out := make([]Category, len(d.entries))
	copy(out, d.entries)
	return out
}

// Total is the nominal quiz length.
func (d Distribution) Total() int {
	total := 0
	for _, e := range d.entries {
		total += e.Count
	}
	return total
}

// Requested returns the count for name, or 0 if it is not in the table.
func (d Distribution) Requested(name string) int {
	for _, e := range d.entries {
		if e.Name == name {
			return e.Count
		}
	}
	return 0
}

func (d Distribution) Len() int {
	return len(d.entries)
}
