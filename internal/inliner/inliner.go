// Package inliner rewrites image references in markup fragments into base64
// data URIs so stored records are self-contained.
package inliner

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/logger"
)

const (
	dataURIPrefix  = "data:"
	defaultMIME    = "image/png"
	imageMIMEClass = "image/"
)

// Config holds inliner configuration.
type Config struct {
	// RootURL is the site root relative image sources resolve against.
	RootURL string `mapstructure:"root_url"`
	// DetectMIME labels payloads with their sniffed image type instead of
	// always using image/png.
	DetectMIME bool `mapstructure:"detect_mime"`
}

// Result is the outcome of inlining one fragment.
type Result struct {
	HTML      string
	HasImages bool
	// Failed lists image URLs that could not be fetched. Their src
	// attributes are left unchanged.
	Failed []string
}

// Inliner fetches images and embeds them as data URIs.
type Inliner struct {
	fetcher    fetcher.Fetcher
	root       *url.URL
	detectMIME bool
	log        logger.Logger
	group      singleflight.Group
}

// New creates an Inliner.
func New(f fetcher.Fetcher, cfg Config, log logger.Logger) (*Inliner, error) {
	root, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, fmt.Errorf("parse root url: %w", err)
	}
	if !root.IsAbs() {
		return nil, fmt.Errorf("root url %q must be absolute", cfg.RootURL)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Inliner{
		fetcher:    f,
		root:       root,
		detectMIME: cfg.DetectMIME,
		log:        log,
	}, nil
}

// Inline replaces the src of every img element in fragment with a data URI.
// A fragment without images is returned unchanged.
func (in *Inliner) Inline(ctx context.Context, fragment string) Result {
	unchanged := Result{HTML: fragment}
	if !strings.Contains(strings.ToLower(fragment), "<img") {
		return unchanged
	}

	container, err := parseFragment(fragment)
	if err != nil {
		in.log.Debug("fragment parse failed", logger.Error(err))
		return unchanged
	}

	images := goquery.NewDocumentFromNode(container).Find("img[src]").FilterFunction(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		return strings.TrimSpace(src) != ""
	})
	if images.Length() == 0 {
		return unchanged
	}

	res := Result{HasImages: true}
	images.Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if strings.HasPrefix(strings.TrimSpace(src), dataURIPrefix) {
			return
		}

		imageURL := in.resolve(src)
		dataURI, fetchErr := in.dataURI(ctx, imageURL)
		if fetchErr != nil {
			in.log.Warn("image not inlined",
				logger.String("url", imageURL),
				logger.Error(fetchErr),
			)
			res.Failed = append(res.Failed, imageURL)
			return
		}
		img.SetAttr("src", dataURI)
	})

	rendered, err := renderChildren(container)
	if err != nil {
		in.log.Debug("fragment render failed", logger.Error(err))
		return Result{HTML: fragment, HasImages: true, Failed: res.Failed}
	}
	res.HTML = rendered

	return res
}

// InlineQuestion inlines the question text and all five options. The
// returned question has HasImages set when any of the six fragments holds an
// image. The second value lists image URLs that failed to load.
func (in *Inliner) InlineQuestion(ctx context.Context, q domain.Question) (domain.Question, []string) {
	var failed []string
	hasImages := false

	apply := func(fragment string) string {
		if fragment == "" {
			return fragment
		}
		r := in.Inline(ctx, fragment)
		hasImages = hasImages || r.HasImages
		failed = append(failed, r.Failed...)
		return r.HTML
	}

	q.QuestionText = apply(q.QuestionText)
	q.Option1 = apply(q.Option1)
	q.Option2 = apply(q.Option2)
	q.Option3 = apply(q.Option3)
	q.Option4 = apply(q.Option4)
	q.Option5 = apply(q.Option5)
	q.HasImages = hasImages

	return q, failed
}

func (in *Inliner) resolve(src string) string {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return src
	}
	return in.root.ResolveReference(ref).String()
}

// dataURI fetches imageURL once per concurrent burst and encodes it.
func (in *Inliner) dataURI(ctx context.Context, imageURL string) (string, error) {
	v, err, _ := in.group.Do(imageURL, func() (any, error) {
		body, fetchErr := in.fetcher.Fetch(ctx, imageURL)
		if fetchErr != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrImageFetchFailure, fetchErr)
		}
		return "data:" + in.mimeType(body) + ";base64," + base64.StdEncoding.EncodeToString(body), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (in *Inliner) mimeType(body []byte) string {
	if !in.detectMIME {
		return defaultMIME
	}
	detected := mimetype.Detect(body)
	if !strings.HasPrefix(detected.String(), imageMIMEClass) {
		return defaultMIME
	}
	return detected.String()
}

// parseFragment parses fragment in a body context and hangs the resulting
// nodes under a detached div so they can be queried as one tree.
func parseFragment(fragment string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		container.AppendChild(n)
	}
	return container, nil
}

func renderChildren(container *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), nil
}
