// Package pagination discovers the sections of a category and the pages of
// a section. Page discovery tries a URL template embedded in hidden inputs
// first and falls back to following "next" links.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/logger"
	"github.com/jonesrussell/mcqer/internal/navigator"
)

// Page is one page of a section. Body is non-nil when the resolver already
// fetched the page while discovering it.
type Page struct {
	URL  string
	Body []byte
}

// Strategy names the page discovery strategy that produced a result.
type Strategy string

const (
	StrategyTemplate  Strategy = "template"
	StrategyIterative Strategy = "iterative"
)

// Resolver discovers section and page URLs.
type Resolver struct {
	fetcher   fetcher.Fetcher
	selectors Selectors
	log       logger.Logger
}

// NewResolver creates a Resolver that fetches through f.
func NewResolver(f fetcher.Fetcher, selectors Selectors, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{
		fetcher:   f,
		selectors: selectors.WithDefaults(),
		log:       log,
	}
}

// ResolveSectionURLs fetches the category root and returns every anchor
// target matching <categoryURL>/<digits>, once each, in document order.
// The category root itself is not included.
func (r *Resolver) ResolveSectionURLs(ctx context.Context, categoryURL string) ([]string, error) {
	categoryURL = strings.TrimRight(categoryURL, "/")

	body, err := r.fetcher.Fetch(ctx, categoryURL)
	if err != nil {
		return nil, fmt.Errorf("fetch category %s: %w", categoryURL, err)
	}

	doc, err := navigator.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", categoryURL, err)
	}

	base, err := url.Parse(categoryURL)
	if err != nil {
		return nil, fmt.Errorf("parse category url: %w", err)
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(categoryURL) + `/\d+$`)

	seen := make(map[string]struct{})
	var sections []string

	navigator.ByTag(doc.Selection, "a[href]").Each(func(_ int, a *goquery.Selection) {
		target := resolve(base, navigator.Attr(a, "href"))
		if !pattern.MatchString(target) {
			return
		}
		if _, dup := seen[target]; dup {
			return
		}
		seen[target] = struct{}{}
		sections = append(sections, target)
	})

	r.log.Debug("sections resolved",
		logger.String("category_url", categoryURL),
		logger.Int("sections", len(sections)),
	)

	return sections, nil
}

// ResolvePageURLs returns the URLs of every page in the section.
func (r *Resolver) ResolvePageURLs(ctx context.Context, sectionURL string) ([]string, error) {
	pages, _, err := r.ResolvePages(ctx, sectionURL)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(pages))
	for i, p := range pages {
		urls[i] = p.URL
	}
	return urls, nil
}

// ResolvePages fetches the section page and discovers its pages. Pages
// found by following links carry their already-fetched bodies.
func (r *Resolver) ResolvePages(ctx context.Context, sectionURL string) ([]Page, Strategy, error) {
	body, err := r.fetcher.Fetch(ctx, sectionURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetch section %s: %w", sectionURL, err)
	}

	doc, err := navigator.Parse(body)
	if err != nil {
		return nil, "", fmt.Errorf("section %s: %w", sectionURL, err)
	}

	base, err := url.Parse(sectionURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse section url: %w", err)
	}

	if pages, ok := r.fromTemplate(doc, base); ok {
		return pages, StrategyTemplate, nil
	}

	pages := r.iterate(ctx, Page{URL: sectionURL, Body: body}, doc)
	return pages, StrategyIterative, nil
}

// fromTemplate generates page URLs from the hidden template and max-page
// inputs. ok is false unless both are present and usable.
func (r *Resolver) fromTemplate(doc *goquery.Document, base *url.URL) ([]Page, bool) {
	tmplInput := doc.Find(navigator.IDContains("input", r.selectors.TemplateInputID)).First()
	tmpl := strings.TrimSpace(navigator.Attr(tmplInput, "value"))
	if tmpl == "" || !strings.Contains(tmpl, r.selectors.PageToken) {
		return nil, false
	}

	maxInput := doc.Find(navigator.IDContains("input", r.selectors.MaxInputID)).First()
	n, err := strconv.Atoi(strings.TrimSpace(navigator.Attr(maxInput, "value")))
	if err != nil || n < 1 {
		return nil, false
	}
	if n > r.selectors.MaxPages {
		r.log.Warn("template page count capped",
			logger.Int("declared", n),
			logger.Int("max_pages", r.selectors.MaxPages),
		)
		n = r.selectors.MaxPages
	}

	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		u := strings.ReplaceAll(tmpl, r.selectors.PageToken, fmt.Sprintf("%03d", i))
		pages = append(pages, Page{URL: resolve(base, u)})
	}
	return pages, true
}

// iterate follows "next" links starting from the already-fetched seed page.
// It stops at a placeholder link, a page already visited, a fetch failure,
// an empty body or the page cap.
func (r *Resolver) iterate(ctx context.Context, seed Page, seedDoc *goquery.Document) []Page {
	pages := []Page{seed}
	visited := map[string]struct{}{seed.URL: {}}

	current, doc := seed, seedDoc
	for len(pages) < r.selectors.MaxPages {
		next := r.nextLink(doc)
		if next == "" || next == "#" {
			break
		}

		base, err := url.Parse(current.URL)
		if err != nil {
			break
		}
		next = resolve(base, next)
		if _, loop := visited[next]; loop {
			r.log.Debug("pagination loop detected", logger.String("url", next))
			break
		}
		visited[next] = struct{}{}

		body, err := r.fetcher.Fetch(ctx, next)
		if err != nil || len(body) == 0 {
			r.log.Debug("pagination stopped",
				logger.String("url", next),
				logger.Error(err),
			)
			break
		}

		doc, err = navigator.Parse(body)
		if err != nil {
			break
		}
		current = Page{URL: next, Body: body}
		pages = append(pages, current)
	}

	return pages
}

// nextLink returns the href of the pagination entry labelled as "next", or
// "" when the page has no such entry.
func (r *Resolver) nextLink(doc *goquery.Document) string {
	var href string
	navigator.ByClass(doc.Selection, "li", r.selectors.PageItemClass).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		inner, ok := navigator.InnerHTML(item)
		if !ok || !strings.Contains(inner, r.selectors.NextLabel) || !strings.Contains(inner, "</span>") {
			return true
		}
		href = strings.TrimSpace(navigator.Attr(navigator.FirstByClass(item, "a", r.selectors.PageLinkClass), "href"))
		return false
	})
	return href
}

// resolve makes ref absolute against base; unparseable refs are returned
// unchanged.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
