// Package crawler drives the category, section and page traversal: it
// resolves pages, extracts and inlines questions and submits them to the
// store, reporting progress as it goes.
package crawler

//go:generate mockgen -destination=../../testutils/mocks/crawler/crawler.go -package=crawler github.com/jonesrussell/mcqer/internal/crawler QuestionStore,PageResolver,QuestionExtractor,ImageInliner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/extractor"
	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/logger"
	"github.com/jonesrussell/mcqer/internal/pagination"
)

// DefaultPageWorkers processes the pages of a section one at a time.
const DefaultPageWorkers = 1

var (
	// ErrSystemic wraps failures that stop a crawl, such as the store
	// rejecting writes.
	ErrSystemic = errors.New("systemic crawl failure")

	ErrFetcherRequired   = errors.New("fetcher is required")
	ErrResolverRequired  = errors.New("resolver is required")
	ErrExtractorRequired = errors.New("extractor is required")
	ErrInlinerRequired   = errors.New("inliner is required")
	ErrStoreRequired     = errors.New("store is required")
	ErrNoCategories      = errors.New("at least one category is required")
	ErrBaseURLRequired   = errors.New("base url is required")
)

// QuestionStore persists questions, ignoring duplicates.
type QuestionStore interface {
	InsertIfNew(ctx context.Context, q domain.Question) (bool, error)
}

// PageResolver discovers sections and pages.
type PageResolver interface {
	ResolveSectionURLs(ctx context.Context, categoryURL string) ([]string, error)
	ResolvePages(ctx context.Context, sectionURL string) ([]pagination.Page, pagination.Strategy, error)
}

// QuestionExtractor extracts questions from a page.
type QuestionExtractor interface {
	Extract(page []byte, category string) (extractor.Result, error)
}

// ImageInliner embeds images referenced by a question.
type ImageInliner interface {
	InlineQuestion(ctx context.Context, q domain.Question) (domain.Question, []string)
}

// Config holds crawl configuration.
type Config struct {
	// BaseURL is the prefix of every category URL, e.g.
	// https://www.indiabix.com/civil-engineering.
	BaseURL     string
	Categories  []string
	PageWorkers int
}

// Params holds the dependencies of a Crawler.
type Params struct {
	Config    Config
	Fetcher   fetcher.Fetcher
	Resolver  PageResolver
	Extractor QuestionExtractor
	Inliner   ImageInliner
	Store     QuestionStore
	Logger    logger.Logger
	Progress  ProgressFunc
}

// Summary reports the totals of one crawl run.
type Summary struct {
	RunID         string
	Categories    int
	Sections      int
	Pages         int
	Extracted     int
	Written       int
	Duplicates    int
	Skipped       int
	Failures      int
	ImageFailures int
	Duration      time.Duration
}

// Crawler crawls the configured categories.
type Crawler struct {
	cfg       Config
	fetcher   fetcher.Fetcher
	resolver  PageResolver
	extractor QuestionExtractor
	inliner   ImageInliner
	store     QuestionStore
	log       logger.Logger
	progress  ProgressFunc
}

// New creates a Crawler.
func New(p Params) (*Crawler, error) {
	switch {
	case p.Fetcher == nil:
		return nil, ErrFetcherRequired
	case p.Resolver == nil:
		return nil, ErrResolverRequired
	case p.Extractor == nil:
		return nil, ErrExtractorRequired
	case p.Inliner == nil:
		return nil, ErrInlinerRequired
	case p.Store == nil:
		return nil, ErrStoreRequired
	case len(p.Config.Categories) == 0:
		return nil, ErrNoCategories
	case p.Config.BaseURL == "":
		return nil, ErrBaseURLRequired
	}

	cfg := p.Config
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = DefaultPageWorkers
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	progress := p.Progress
	if progress == nil {
		progress = func(Event) {}
	}

	return &Crawler{
		cfg:       cfg,
		fetcher:   p.Fetcher,
		resolver:  p.Resolver,
		extractor: p.Extractor,
		inliner:   p.Inliner,
		store:     p.Store,
		log:       log,
		progress:  progress,
	}, nil
}

// CategoryURL returns the root URL of a category.
func (c *Crawler) CategoryURL(category string) string {
	return c.cfg.BaseURL + "/" + category
}

// run holds the state of one Run call.
type run struct {
	id  string
	log logger.Logger

	mu      sync.Mutex
	summary Summary
}

func (r *run) add(fn func(s *Summary)) {
	r.mu.Lock()
	fn(&r.summary)
	r.mu.Unlock()
}

// Run crawls every configured category in order. Per-URL and per-record
// failures are reported and skipped; Run only returns an error when the
// context ends or the store fails (wrapping ErrSystemic).
func (c *Crawler) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	id := uuid.NewString()
	r := &run{
		id:      id,
		log:     c.log.With(logger.String("run_id", id)),
		summary: Summary{RunID: id},
	}

	r.log.Info("Crawl started",
		logger.Strings("categories", c.cfg.Categories),
		logger.Int("page_workers", c.cfg.PageWorkers),
	)

	var runErr error
	for _, category := range c.cfg.Categories {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := c.crawlCategory(ctx, r, category); err != nil {
			runErr = err
			break
		}
		r.add(func(s *Summary) { s.Categories++ })
	}

	r.mu.Lock()
	summary := r.summary
	r.mu.Unlock()
	summary.Duration = time.Since(start)

	fields := []logger.Field{
		logger.Int("categories", summary.Categories),
		logger.Int("pages", summary.Pages),
		logger.Int("written", summary.Written),
		logger.Int("duplicates", summary.Duplicates),
		logger.Int("skipped", summary.Skipped),
		logger.Int("failures", summary.Failures),
		logger.Duration("duration", summary.Duration),
	}
	if runErr != nil {
		r.log.Error("Crawl stopped", append(fields, logger.Error(runErr))...)
		return summary, runErr
	}
	r.log.Info("Crawl finished", fields...)

	return summary, nil
}

func (c *Crawler) crawlCategory(ctx context.Context, r *run, category string) error {
	m := newMachine(StateIdle)
	categoryURL := c.CategoryURL(category)
	c.emit(r, Event{Kind: EventCategoryStarted, Category: category, URL: categoryURL})

	discovered, err := c.resolver.ResolveSectionURLs(ctx, categoryURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.emit(r, Event{Kind: EventFetchFailed, Category: category, URL: categoryURL, Err: err})
		r.add(func(s *Summary) { s.Failures++ })
	}

	// The category root is a section of its own.
	sections := dedupe(append([]string{categoryURL}, discovered...))
	if err = m.to(StateSectionsDiscovered); err != nil {
		return err
	}
	c.emit(r, Event{Kind: EventSectionsFound, Category: category, URL: categoryURL, Count: len(sections) - 1})

	written := 0
	for _, section := range sections {
		if err = ctx.Err(); err != nil {
			return err
		}

		pages, strategy, resolveErr := c.resolver.ResolvePages(ctx, section)
		if resolveErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			c.emit(r, Event{Kind: EventFetchFailed, Category: category, URL: section, Err: resolveErr})
			r.add(func(s *Summary) { s.Failures++ })
			continue
		}
		if err = m.to(StatePagesDiscovered); err != nil {
			return err
		}
		c.emit(r, Event{
			Kind:     EventPagesFound,
			Category: category,
			URL:      section,
			Strategy: string(strategy),
			Count:    len(pages),
		})
		r.add(func(s *Summary) {
			s.Sections++
			s.Pages += len(pages)
		})

		n, pagesErr := c.crawlPages(ctx, r, category, pages)
		written += n
		if pagesErr != nil {
			return pagesErr
		}
	}

	if err = m.to(StateIdle); err != nil {
		return err
	}
	c.emit(r, Event{Kind: EventCategoryFinished, Category: category, URL: categoryURL, Count: written})

	return nil
}

// crawlPages processes pages on a bounded pool and returns the number of
// questions written.
func (c *Crawler) crawlPages(ctx context.Context, r *run, category string, pages []pagination.Page) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.PageWorkers)

	var (
		mu      sync.Mutex
		written int
	)
	for _, page := range pages {
		g.Go(func() error {
			n, err := c.processPageSafely(gctx, r, category, page)
			mu.Lock()
			written += n
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	return written, err
}

// processPageSafely turns a panic while processing one page into a reported
// page failure.
func (c *Crawler) processPageSafely(ctx context.Context, r *run, category string, page pagination.Page) (written int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			c.emit(r, Event{
				Kind:     EventPageFailed,
				Category: category,
				URL:      page.URL,
				Err:      fmt.Errorf("panic: %v", rec),
			})
			r.add(func(s *Summary) { s.Failures++ })
			written, err = 0, nil
		}
	}()

	return c.processPage(ctx, r, category, page)
}

func (c *Crawler) processPage(ctx context.Context, r *run, category string, page pagination.Page) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := newMachine(StatePagesDiscovered)

	body := page.Body
	if body == nil {
		var err error
		body, err = c.fetcher.Fetch(ctx, page.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			c.emit(r, Event{Kind: EventFetchFailed, Category: category, URL: page.URL, Err: err})
			r.add(func(s *Summary) { s.Failures++ })
			return 0, nil
		}
	}
	if err := m.to(StatePageFetched); err != nil {
		return 0, err
	}

	result, err := c.extractor.Extract(body, category)
	if err != nil {
		c.emit(r, Event{Kind: EventPageFailed, Category: category, URL: page.URL, Err: err})
		r.add(func(s *Summary) { s.Failures++ })
		return 0, m.to(StatePagesDiscovered)
	}
	if err = m.to(StateRecordsExtracted); err != nil {
		return 0, err
	}

	for _, skip := range result.Skipped {
		c.emit(r, Event{Kind: EventRecordSkipped, Category: category, URL: page.URL, Index: skip.Index, Err: skip.Err})
	}
	skipped := len(result.Skipped)

	ready := make([]domain.Question, 0, len(result.Questions))
	for i, q := range result.Questions {
		q = q.Normalize()
		if validateErr := q.Validate(); validateErr != nil {
			c.emit(r, Event{Kind: EventRecordSkipped, Category: category, URL: page.URL, Index: i, Err: validateErr})
			skipped++
			continue
		}

		inlined, failed := c.inliner.InlineQuestion(ctx, q)
		for _, imageURL := range failed {
			c.emit(r, Event{
				Kind:     EventImageFailed,
				Category: category,
				URL:      imageURL,
				Err:      domain.ErrImageFetchFailure,
			})
		}
		r.add(func(s *Summary) { s.ImageFailures += len(failed) })
		ready = append(ready, inlined)
	}
	if err = m.to(StateRecordsInlined); err != nil {
		return 0, err
	}

	written, duplicates := 0, 0
	defer func() {
		r.add(func(s *Summary) {
			s.Extracted += len(result.Questions)
			s.Skipped += skipped
			s.Written += written
			s.Duplicates += duplicates
		})
	}()

	for _, q := range ready {
		inserted, insertErr := c.store.InsertIfNew(ctx, q)
		if insertErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return written, ctxErr
			}
			return written, fmt.Errorf("%w: store question from %s: %w", ErrSystemic, page.URL, insertErr)
		}
		if inserted {
			written++
		} else {
			duplicates++
		}
	}
	if err = m.to(StateRecordsSubmitted); err != nil {
		return written, err
	}

	c.emit(r, Event{Kind: EventPageWritten, Category: category, URL: page.URL, Count: written})

	return written, nil
}

// emit logs ev and forwards it to the progress sink.
func (c *Crawler) emit(r *run, ev Event) {
	ev.RunID = r.id

	fields := []logger.Field{
		logger.String("event", string(ev.Kind)),
		logger.String("category", ev.Category),
		logger.String("url", ev.URL),
	}
	switch ev.Kind {
	case EventFetchFailed, EventPageFailed, EventImageFailed:
		r.log.Warn(ev.String(), append(fields, logger.Error(ev.Err))...)
	case EventRecordSkipped:
		r.log.Debug(ev.String(), append(fields, logger.Int("index", ev.Index), logger.Error(ev.Err))...)
	default:
		r.log.Info(ev.String(), append(fields, logger.Int("count", ev.Count))...)
	}

	c.progress(ev)
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
