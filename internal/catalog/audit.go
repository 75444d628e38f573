package catalog

import (
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spotcircuit/dmv-test/internal/worker"
)

// AuditReport lists image references that cannot be served.
type AuditReport struct {
	Checked int      `json:"checked"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// OK reports whether every checked image decoded.
func (r AuditReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

type assetStatus int

const (
	assetOK assetStatus = iota
	assetMissing
	assetInvalid
	assetSkipped
)

// Audit checks each image reference under dir on the worker pool. Problems
// are logged and reported, never returned as errors.
func Audit(ctx context.Context, dir string, refs []string, workers int, logger *slog.Logger) AuditReport {
	jobs := make(map[string]worker.Job[assetStatus], len(refs))
	for _, ref := range refs {
		jobs[ref] = func() assetStatus {
			if ctx.Err() != nil {
				return assetSkipped
			}
			return checkAsset(filepath.Join(dir, filepath.FromSlash(ref)))
		}
	}

	var report AuditReport
	for ref, status := range worker.Run(workers, jobs) {
		switch status {
		case assetOK:
			report.Checked++
		case assetMissing:
			report.Checked++
			report.Missing = append(report.Missing, ref)
			logger.Warn("image asset missing", "image", ref, "dir", dir)
		case assetInvalid:
			report.Checked++
			report.Invalid = append(report.Invalid, ref)
			logger.Warn("image asset not decodable", "image", ref, "dir", dir)
		}
	}
	slices.Sort(report.Missing)
	slices.Sort(report.Invalid)

	if !report.OK() {
		logger.Warn("image audit found problems",
			"checked", report.Checked,
			"missing", len(report.Missing),
			"invalid", len(report.Invalid),
		)
	}
	return report
}

func checkAsset(path string) assetStatus {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return assetMissing
	}
	if err != nil {
		return assetInvalid
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return assetInvalid
	}
	return assetOK
}
