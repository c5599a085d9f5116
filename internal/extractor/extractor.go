// Package extractor turns a rendered question-bank page into question
// records.
package extractor

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/navigator"
)

// DefaultSourceName identifies records scraped from the default site.
const DefaultSourceName = "Indiabix"

// Default structural marker classes.
const (
	DefaultContainerClass = "bix-div-container"
	DefaultQuestionClass  = "bix-td-qtxt"
	DefaultOptionsClass   = "bix-tbl-options"
	DefaultOptionClass    = "flex-wrap"
	DefaultAnswerClass    = "jq-hdnakq"
)

// Selectors names the marker classes of each part of a question container.
type Selectors struct {
	ContainerClass string `mapstructure:"container_class"`
	QuestionClass  string `mapstructure:"question_class"`
	OptionsClass   string `mapstructure:"options_class"`
	OptionClass    string `mapstructure:"option_class"`
	AnswerClass    string `mapstructure:"answer_class"`
}

// WithDefaults fills empty fields with the default marker classes.
func (s Selectors) WithDefaults() Selectors {
	if s.ContainerClass == "" {
		s.ContainerClass = DefaultContainerClass
	}
	if s.QuestionClass == "" {
		s.QuestionClass = DefaultQuestionClass
	}
	if s.OptionsClass == "" {
		s.OptionsClass = DefaultOptionsClass
	}
	if s.OptionClass == "" {
		s.OptionClass = DefaultOptionClass
	}
	if s.AnswerClass == "" {
		s.AnswerClass = DefaultAnswerClass
	}
	return s
}

// Skip records a container that yielded no question.
type Skip struct {
	Index int // zero-based container position on the page
	Err   error
}

// Result is the outcome of extracting one page.
type Result struct {
	Questions []domain.Question
	Skipped   []Skip
}

// Extractor extracts questions using a fixed set of selectors.
type Extractor struct {
	selectors Selectors
	source    string
}

// New creates an Extractor. An empty source uses DefaultSourceName.
func New(selectors Selectors, source string) *Extractor {
	if source == "" {
		source = DefaultSourceName
	}
	return &Extractor{selectors: selectors.WithDefaults(), source: source}
}

// Extract returns one question per well-formed container on the page. A
// container missing its question text, options or answer input is reported
// in Skipped and its siblings are still extracted. Only a page that cannot
// be parsed returns an error.
func (e *Extractor) Extract(page []byte, category string) (Result, error) {
	doc, err := navigator.Parse(page)
	if err != nil {
		return Result{}, err
	}

	var res Result
	navigator.ByClass(doc.Selection, "div", e.selectors.ContainerClass).Each(func(i int, container *goquery.Selection) {
		q, extractErr := e.extractOne(container, category)
		if extractErr != nil {
			res.Skipped = append(res.Skipped, Skip{Index: i, Err: extractErr})
			return
		}
		res.Questions = append(res.Questions, q)
	})

	return res, nil
}

func (e *Extractor) extractOne(container *goquery.Selection, category string) (domain.Question, error) {
	text, ok := navigator.InnerHTML(navigator.FirstByClass(container, "div", e.selectors.QuestionClass))
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: no question text node", domain.ErrMalformedRecord)
	}

	optionsRoot := navigator.FirstByClass(container, "div", e.selectors.OptionsClass)
	if optionsRoot.Length() == 0 {
		return domain.Question{}, fmt.Errorf("%w: no options container", domain.ErrMalformedRecord)
	}

	var options []string
	navigator.ByClass(optionsRoot, "div", e.selectors.OptionClass).EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		inner, _ := navigator.InnerHTML(opt)
		options = append(options, inner)
		return len(options) < domain.MaxOptions
	})
	if len(options) < 2 {
		return domain.Question{}, fmt.Errorf("%w: %d options", domain.ErrMalformedRecord, len(options))
	}

	answer := navigator.FirstByClass(container, "input", e.selectors.AnswerClass)
	if answer.Length() == 0 {
		return domain.Question{}, fmt.Errorf("%w: no answer input", domain.ErrMalformedRecord)
	}

	q := domain.Question{
		QuestionText:  text,
		CorrectOption: domain.OptionIndexFromLetter(navigator.Attr(answer, "value")),
		Category:      category,
		Source:        e.source,
	}
	return q.WithOptions(options), nil
}
