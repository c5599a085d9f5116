// Package export writes stored questions as Anki-importable flash-card text
// files, one file per category.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/logger"
)

const (
	fileExt  = ".txt"
	filePerm = 0o644
	dirPerm  = 0o755
)

// header tells Anki the fields are tab separated and contain HTML.
const header = "#separator:tab\n#html:true\n\n"

var flatten = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// ErrInvalidCategory is returned for category names that are not a plain
// file name.
var ErrInvalidCategory = errors.New("invalid category name")

// QuestionSource reads stored questions.
type QuestionSource interface {
	DistinctCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Question, error)
}

// NotifyFunc receives a human-readable message per finished category.
type NotifyFunc func(msg string)

// Exporter writes flash-card files.
type Exporter struct {
	source QuestionSource
	log    logger.Logger
	notify NotifyFunc
}

// New creates an Exporter. notify may be nil.
func New(source QuestionSource, log logger.Logger, notify NotifyFunc) *Exporter {
	if log == nil {
		log = logger.NewNop()
	}
	if notify == nil {
		notify = func(string) {}
	}
	return &Exporter{source: source, log: log, notify: notify}
}

// Export writes <outputDir>/<category>.txt for every stored category,
// replacing existing files, and returns the number of files written.
func (e *Exporter) Export(ctx context.Context, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	categories, err := e.source.DistinctCategories(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, category := range categories {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return written, ctxErr
		}

		path, pathErr := categoryPath(outputDir, category)
		if pathErr != nil {
			e.log.Warn("Skipping category", logger.String("category", category), logger.Error(pathErr))
			continue
		}

		questions, listErr := e.source.ListByCategory(ctx, category)
		if listErr != nil {
			return written, listErr
		}

		deck, cards := e.deck(category, questions)
		if writeErr := os.WriteFile(path, []byte(deck), filePerm); writeErr != nil {
			return written, fmt.Errorf("write %s: %w", path, writeErr)
		}
		written++

		e.log.Info("Flash cards written",
			logger.String("category", category),
			logger.String("path", path),
			logger.Int("cards", cards),
		)
		e.notify(fmt.Sprintf("Completed creating flashcards for %s", category))
	}

	return written, nil
}

func (e *Exporter) deck(category string, questions []domain.Question) (string, int) {
	var b strings.Builder
	b.WriteString(header)

	cards := 0
	for _, q := range questions {
		card, ok := FormatCard(q)
		if !ok {
			e.log.Debug("Skipping question without text or answer", logger.String("category", category))
			continue
		}
		b.WriteString(card)
		cards++
	}

	return b.String(), cards
}

// FormatCard renders q as one tab-separated card line: the question and a
// lettered option list on the front, the correct letter and option on the
// back. It returns false for questions without text or a correct option.
func FormatCard(q domain.Question) (string, bool) {
	if q.QuestionText == "" || q.CorrectOption < 1 || q.CorrectOption > domain.MaxOptions {
		return "", false
	}

	options := q.Options()
	for i := range options {
		options[i] = flatten.Replace(options[i])
	}

	var b strings.Builder
	b.WriteString(flatten.Replace(q.QuestionText))
	b.WriteString(`<br><ol type="a">`)
	for i, opt := range options {
		// The first two options are always listed.
		if i >= 2 && opt == "" {
			continue
		}
		b.WriteString("<li>" + opt + "</li>")
	}
	b.WriteString("</ol>\t")
	b.WriteString(domain.OptionLetter(q.CorrectOption) + ". " + options[q.CorrectOption-1])
	b.WriteString("\n")

	return b.String(), true
}

func categoryPath(dir, category string) (string, error) {
	name := category + fileExt
	if category == "" || !filepath.IsLocal(name) || strings.ContainsAny(category, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return filepath.Join(dir, name), nil
}
