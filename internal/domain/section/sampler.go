package section

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/spotcircuit/dmv-test/internal/domain/category"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
)

// Source is the part of the question repository the sampler needs.
type Source interface {
	IDsInCategory(category string) []questionbank.ID
}

// Sampler draws stratified random samples of question ids. It is safe for
// concurrent use; draws are serialized on the injected generator.
type Sampler struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSampler creates a Sampler. A nil rng gets a randomly seeded PCG
// generator; tests pass a fixed seed.
func NewSampler(rng *rand.Rand, logger *slog.Logger) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{rng: rng, logger: logger}
}

// Build returns one section per distribution entry that has at least one
// question, in distribution order. Each section holds
// min(requested, available) distinct ids drawn uniformly without
// replacement. Missing categories are skipped with a warning.
func (s *Sampler) Build(src Source, dist category.Distribution) ([]Section, error) {
	sections := make([]Section, 0, dist.Len())

	for _, entry := range dist.Entries() {
		ids := src.IDsInCategory(entry.Name)
		if len(ids) == 0 {
			s.logger.Warn("category not found in question bank", "category", entry.Name)
			continue
		}

		take := min(entry.Count, len(ids))
		if take < entry.Count {
			s.logger.Warn("category shortfall",
				"category", entry.Name,
				"requested", entry.Count,
				"available", len(ids),
			)
		}

		sections = append(sections, Section{
			Name:        entry.Name,
			QuestionIDs: s.sample(ids, take),
		})
	}

	if len(sections) == 0 {
		return sections, ErrNoSectionsAvailable
	}
	return sections, nil
}

// sample runs a partial Fisher-Yates shuffle over a copy of ids and keeps
// the first k.
func (s *Sampler) sample(ids []questionbank.ID, k int) []questionbank.ID {
	pool := make([]questionbank.ID, len(ids))
	copy(pool, ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}
