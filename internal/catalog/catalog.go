// Package catalog holds the published question bank. Readers get an
// immutable snapshot; reloads build a new one and swap it in atomically.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spotcircuit/dmv-test/internal/domain/category"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
)

var ErrNotLoaded = errors.New("question bank not loaded")

// Snapshot is one successfully loaded bank. It is never mutated after
// publication, so sessions may keep references to it across reloads.
//
// ID is the bank file digest and stays stable across processes, so stored
// sessions can name it. Version only counts reloads within this process.
type Snapshot struct {
	ID           string
	Version      int64
	Bank         *questionbank.Repository
	Distribution category.Distribution
	LoadedAt     time.Time
	Audit        AuditReport
}

type Options struct {
	Path         string
	ImagePrefix  string
	AssetDir     string // empty disables the image audit
	AuditWorkers int
	Distribution category.Distribution
}

type Catalog struct {
	opts    Options
	sampler *section.Sampler
	logger  *slog.Logger

	mu      sync.Mutex // serializes reloads
	current atomic.Pointer[Snapshot]

	histMu  sync.RWMutex
	history map[string]*Snapshot
	order   []string // history ids, oldest first
}

// retainedBanks bounds how many distinct banks stay resolvable for sessions
// that started before a reload.
const retainedBanks = 8

func New(opts Options, sampler *section.Sampler, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Distribution.Len() == 0 {
		opts.Distribution = category.Default()
	}
	if opts.AuditWorkers < 1 {
		opts.AuditWorkers = 1
	}
	return &Catalog{
		opts:    opts,
		sampler: sampler,
		logger:  logger,
		history: make(map[string]*Snapshot),
	}
}

// Current returns the published snapshot or ErrNotLoaded.
func (c *Catalog) Current() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Lookup returns the retained snapshot with the given ID.
func (c *Catalog) Lookup(id string) (*Snapshot, bool) {
	c.histMu.RLock()
	defer c.histMu.RUnlock()

	snap, ok := c.history[id]
	return snap, ok
}

// Ensure returns the published snapshot, loading once if there is none.
func (c *Catalog) Ensure(ctx context.Context) (*Snapshot, error) {
	if snap, err := c.Current(); err == nil {
		return snap, nil
	}
	c.logger.Warn("question bank not loaded, retrying")
	return c.Reload(ctx)
}

// Reload reads the bank file and publishes it if at least one section can
// be drawn from it. On failure the previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bank, err := questionbank.Load(c.opts.Path, questionbank.LoadOptions{
		ImagePrefix: c.opts.ImagePrefix,
		Logger:      c.logger,
	})
	if err != nil {
		c.logger.Error("failed to load question bank", "path", c.opts.Path, "error", err)
		return nil, err
	}

	if _, err := c.sampler.Build(bank, c.opts.Distribution); err != nil {
		c.logger.Error("question bank has no usable sections", "path", c.opts.Path, "error", err)
		return nil, fmt.Errorf("load %s: %w", c.opts.Path, err)
	}

	var report AuditReport
	if c.opts.AssetDir != "" {
		report = Audit(ctx, c.opts.AssetDir, imageRefs(bank), c.opts.AuditWorkers, c.logger)
	}

	var version int64 = 1
	if prev := c.current.Load(); prev != nil {
		version = prev.Version + 1
	}

	snap := &Snapshot{
		ID:           bank.Digest(),
		Version:      version,
		Bank:         bank,
		Distribution: c.opts.Distribution,
		LoadedAt:     time.Now().UTC(),
		Audit:        report,
	}
	c.current.Store(snap)

	c.remember(snap)

	c.logger.Info("question bank loaded",
		"path", c.opts.Path,
		"id", snap.ID,
		"version", version,
		"questions", bank.Len(),
		"categories", len(bank.Categories()),
	)
	return snap, nil
}

// remember adds snap to the history. Reloading unchanged content refreshes
// its entry instead of taking another slot.
func (c *Catalog) remember(snap *Snapshot) {
	c.histMu.Lock()
	defer c.histMu.Unlock()

	if _, ok := c.history[snap.ID]; ok {
		c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == snap.ID })
	}
	c.history[snap.ID] = snap
	c.order = append(c.order, snap.ID)

	for len(c.order) > retainedBanks {
		delete(c.history, c.order[0])
		c.order = c.order[1:]
	}
}

func imageRefs(bank *questionbank.Repository) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, q := range bank.Questions() {
		if q.ImageRef == nil || seen[*q.ImageRef] {
			continue
		}
		seen[*q.ImageRef] = true
		refs = append(refs, *q.ImageRef)
	}
	return refs
}
