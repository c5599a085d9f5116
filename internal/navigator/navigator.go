// Package navigator wraps goquery with the small set of selection primitives
// the extraction steps share: parse, select by class containment, select by
// tag, inner markup and attribute access.
package navigator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse parses raw HTML into a traversable document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseString parses an HTML string into a traversable document.
func ParseString(body string) (*goquery.Document, error) {
	return Parse([]byte(body))
}

// ClassContains builds a selector matching tag elements whose class
// attribute contains class as a substring. tag may be empty for any element.
func ClassContains(tag, class string) string {
	return fmt.Sprintf("%s[class*='%s']", tag, escapeQuotes(class))
}

// IDContains builds a selector matching tag elements whose id attribute
// contains id as a substring.
func IDContains(tag, id string) string {
	return fmt.Sprintf("%s[id*='%s']", tag, escapeQuotes(id))
}

// ByClass returns descendants of sel that match tag and contain class.
func ByClass(sel *goquery.Selection, tag, class string) *goquery.Selection {
	return sel.Find(ClassContains(tag, class))
}

// FirstByClass returns the first descendant of sel matching tag and class.
func FirstByClass(sel *goquery.Selection, tag, class string) *goquery.Selection {
	return ByClass(sel, tag, class).First()
}

// ByTag returns descendants of sel with the given tag name.
func ByTag(sel *goquery.Selection, tag string) *goquery.Selection {
	return sel.Find(tag)
}

// InnerHTML returns the inner markup of the first node in sel verbatim.
// The boolean is false when sel is empty.
func InnerHTML(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	html, err := sel.First().Html()
	if err != nil {
		return "", false
	}
	return html, true
}

// Attr returns the named attribute of the first node in sel, or "".
func Attr(sel *goquery.Selection, name string) string {
	val, _ := sel.First().Attr(name)
	return val
}

// escapeQuotes keeps a user supplied class or id from breaking out of the
// quoted attribute selector.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
