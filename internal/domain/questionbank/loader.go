package questionbank

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

var (
	ErrFileMissing = errors.New("question bank file missing")
	ErrParse       = errors.New("question bank malformed")
)

type LoadErrorKind int

const (
	FileMissing LoadErrorKind = iota + 1
	ParseError
)

func (k LoadErrorKind) String() string {
	switch k {
	case FileMissing:
		return "file missing"
	case ParseError:
		return "parse error"
	default:
		return "unknown"
	}
}

// LoadError is returned when the bank cannot be read or decoded.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Kind)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets callers match with errors.Is(err, ErrFileMissing) / ErrParse.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrFileMissing:
		return e.Kind == FileMissing
	case ErrParse:
		return e.Kind == ParseError
	}
	return false
}

// LoadOptions controls normalization of raw records.
type LoadOptions struct {
	ImagePrefix string // prepended to non-blank image names, e.g. "dmv_images/"
	Logger      *slog.Logger
}

// rawQuestion mirrors one record of the bank file.
type rawQuestion struct {
	Category    string   `json:"category"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Image       *string  `json:"image"`
	Explanation *string  `json:"explanation"`
}

var answerIndex = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// Load reads the bank file at path and builds a Repository.
func Load(path string, opts LoadOptions) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Kind: FileMissing, Path: path, Err: err}
		}
		return nil, &LoadError{Kind: ParseError, Path: path, Err: err}
	}
	defer f.Close()

	repo, err := Decode(f, opts)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return repo, nil
}

// Decode parses a bank from r. Ids are assigned from record positions.
func Decode(r io.Reader, opts LoadOptions) (*Repository, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: ParseError, Err: err}
	}

	var records []rawQuestion
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Kind: ParseError, Err: err}
	}

	seen := make(map[string]ID, len(records))
	questions := make([]Question, 0, len(records))

	// duplicates per category, reported once the whole file is read
	skipped := make(map[string]int)
	var skippedOrder []string

	for i, rec := range records {
		id := ID(i)

		if len(rec.Options) != OptionCount {
			return nil, &LoadError{
				Kind: ParseError,
				Err:  fmt.Errorf("record %d: expected %d options, got %d", i, OptionCount, len(rec.Options)),
			}
		}

		key := strings.ToLower(strings.TrimSpace(rec.Question))
		if key == "" {
			return nil, &LoadError{Kind: ParseError, Err: fmt.Errorf("record %d: empty question text", i)}
		}

		category := strings.TrimSpace(rec.Category)
		if category == "" {
			category = DefaultCategory
		}

		if first, dup := seen[key]; dup {
			logger.Debug("duplicate question skipped", "question_id", id, "duplicate_of", first, "category", category)
			if skipped[category] == 0 {
				skippedOrder = append(skippedOrder, category)
			}
			skipped[category]++
			continue
		}
		seen[key] = id

		correct, ok := answerIndex[strings.ToUpper(strings.TrimSpace(rec.Answer))]
		if !ok {
			logger.Warn("invalid answer letter", "question_id", id, "answer", rec.Answer)
			correct = NoCorrectAnswer
		}

		q := Question{
			ID:           id,
			Category:     category,
			Text:         rec.Question,
			Options:      append([]string(nil), rec.Options...),
			CorrectIndex: correct,
			ImageRef:     normalizeImage(rec.Image, opts.ImagePrefix),
		}
		if rec.Explanation != nil {
			q.Explanation = *rec.Explanation
		}
		questions = append(questions, q)
	}

	repo := NewRepository(questions)
	for _, category := range skippedOrder {
		logger.Info("duplicate questions skipped",
			"category", category,
			"skipped", skipped[category],
			"kept", repo.CountInCategory(category),
		)
	}

	sum := sha256.Sum256(data)
	repo.digest = hex.EncodeToString(sum[:])
	return repo, nil
}

func normalizeImage(image *string, prefix string) *string {
	if image == nil {
		return nil
	}
	name := strings.TrimSpace(*image)
	if name == "" {
		return nil
	}
	ref := prefix + name
	return &ref
}
