// Package domain holds the question record shared by extraction, inlining,
// persistence and export.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MaxOptions is the number of option slots a question carries.
const MaxOptions = 5

// minOptions is the number of options every question must populate.
const minOptions = 2

// controlCharReplacer flattens raw control characters to spaces.
var controlCharReplacer = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Question is one extracted multiple-choice question.
// Text fields are markup fragments and may contain inline tags.
type Question struct {
	QuestionText  string `db:"question_text"         json:"question_text"`
	Option1       string `db:"option1"               json:"option1"`
	Option2       string `db:"option2"               json:"option2"`
	Option3       string `db:"option3"               json:"option3,omitempty"`
	Option4       string `db:"option4"               json:"option4,omitempty"`
	Option5       string `db:"option5"               json:"option5,omitempty"`
	CorrectOption int    `db:"correct_option_number" json:"correct_option_number"` // 1-based, 0 = unset
	HasImages     bool   `db:"has_images"            json:"has_images"`
	Category      string `db:"category"              json:"category"`
	Source        string `db:"source"                json:"source"`
}

// Options returns the five option slots in order.
func (q Question) Options() [MaxOptions]string {
	return [MaxOptions]string{q.Option1, q.Option2, q.Option3, q.Option4, q.Option5}
}

// WithOptions returns a copy of q with the given options mapped onto the
// option slots. Options beyond MaxOptions are ignored.
func (q Question) WithOptions(options []string) Question {
	slots := []*string{&q.Option1, &q.Option2, &q.Option3, &q.Option4, &q.Option5}
	for i, slot := range slots {
		if i < len(options) {
			*slot = options[i]
		} else {
			*slot = ""
		}
	}
	return q
}

// OptionCount returns the number of populated option slots.
func (q Question) OptionCount() int {
	n := 0
	for _, o := range q.Options() {
		if o != "" {
			n++
		}
	}
	return n
}

// CorrectOptionText returns the markup of the correct option, or "" when the
// index does not point at a populated slot.
func (q Question) CorrectOptionText() string {
	if q.CorrectOption < 1 || q.CorrectOption > MaxOptions {
		return ""
	}
	return q.Options()[q.CorrectOption-1]
}

// Normalize returns a copy of q with raw newline, carriage-return and tab
// characters in every text field replaced by spaces.
func (q Question) Normalize() Question {
	q.QuestionText = controlCharReplacer.Replace(q.QuestionText)
	q.Option1 = controlCharReplacer.Replace(q.Option1)
	q.Option2 = controlCharReplacer.Replace(q.Option2)
	q.Option3 = controlCharReplacer.Replace(q.Option3)
	q.Option4 = controlCharReplacer.Replace(q.Option4)
	q.Option5 = controlCharReplacer.Replace(q.Option5)
	return q
}

// Validate reports whether q may be persisted. It returns an error wrapping
// ErrMissingRequiredField or ErrMalformedRecord.
func (q Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("%w: question text", ErrMissingRequiredField)
	}
	if q.Category == "" {
		return fmt.Errorf("%w: category", ErrMissingRequiredField)
	}
	if q.Option1 == "" || q.Option2 == "" {
		return fmt.Errorf("%w: need at least %d options", ErrMalformedRecord, minOptions)
	}
	if q.CorrectOption < 1 || q.CorrectOption > MaxOptions {
		return fmt.Errorf("%w: correct option %d", ErrMissingRequiredField, q.CorrectOption)
	}
	if q.CorrectOptionText() == "" {
		return fmt.Errorf("%w: correct option %d is not populated", ErrMalformedRecord, q.CorrectOption)
	}
	return nil
}

// Key returns the uniqueness key of q: the hex SHA-256 of the question text
// and the five options. Category and source are not part of the key.
func (q Question) Key() string {
	h := sha256.New()
	opts := q.Options()
	fields := append([]string{q.QuestionText}, opts[:]...)
	for _, f := range fields {
		// Length prefix keeps ("ab","c") and ("a","bc") apart.
		fmt.Fprintf(h, "%d:%s;", len(f), f)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// OptionIndexFromLetter maps an answer-key letter (a-e, case-insensitive) to
// a 1-based option index. Anything else maps to 0.
func OptionIndexFromLetter(letter string) int {
	switch strings.ToLower(strings.TrimSpace(letter)) {
	case "a":
		return 1
	case "b":
		return 2
	case "c":
		return 3
	case "d":
		return 4
	case "e":
		return 5
	default:
		return 0
	}
}

// OptionLetter maps a 1-based option index to its letter, or "" if out of range.
func OptionLetter(index int) string {
	if index < 1 || index > MaxOptions {
		return ""
	}
	return string(rune('a' + index - 1))
}
