package pagination_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/logger"
	"github.com/jonesrussell/mcqer/internal/pagination"
)

const (
	categoryURL = "https://www.indiabix.com/civil-engineering/surveying"
	sectionURL  = categoryURL + "/032001"
)

// siteFetcher serves canned pages and records every requested URL.
type siteFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (s *siteFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, rawURL)
	body, ok := s.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetworkFailure, rawURL)
	}
	return []byte(body), nil
}

func newResolver(pages map[string]string) (*pagination.Resolver, *siteFetcher) {
	f := &siteFetcher{pages: pages}
	return pagination.NewResolver(f, pagination.Selectors{}, logger.NewNop()), f
}

func nextControl(href string) string {
	return `<ul class="pagination">
		<li class="page-item"><a class="page-link" href="#">1</a></li>
		<li class="page-item"><a class="page-link" href="` + href + `"><span aria-hidden="true">Next</span></a></li>
	</ul>`
}

func TestResolveSectionURLs(t *testing.T) {
	t.Parallel()

	root := `<html><body>
		<a href="` + categoryURL + `/032001">Section 1</a>
		<a href="` + categoryURL + `/032002">Section 2</a>
		<a href="` + categoryURL + `/032001">Section 1 again</a>
		<a href="` + categoryURL + `/032003/extra">Not a section</a>
		<a href="` + categoryURL + `/abc">Not numeric</a>
		<a href="https://www.indiabix.com/civil-engineering/tunnelling/001001">Other category</a>
		<a href="/civil-engineering/surveying/032004">Relative</a>
	</body></html>`

	r, _ := newResolver(map[string]string{categoryURL: root})

	got, err := r.ResolveSectionURLs(context.Background(), categoryURL)
	require.NoError(t, err)
	assert.Equal(t, []string{
		categoryURL + "/032001",
		categoryURL + "/032002",
		categoryURL + "/032004",
	}, got)
}

func TestResolveSectionURLs_FetchFailure(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(map[string]string{})

	got, err := r.ResolveSectionURLs(context.Background(), categoryURL)
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Empty(t, got)
}

func TestResolvePageURLs_Template(t *testing.T) {
	t.Parallel()

	section := `<html><body>
		<input type="hidden" id="inp_pg_no_url" value="https://example.com/x/page-[[[p-no]]].html">
		<input type="hidden" id="inp_pg_no_max" value="3">
	</body></html>`

	r, f := newResolver(map[string]string{sectionURL: section})

	got, err := r.ResolvePageURLs(context.Background(), sectionURL)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/x/page-001.html",
		"https://example.com/x/page-002.html",
		"https://example.com/x/page-003.html",
	}, got)
	assert.Equal(t, []string{sectionURL}, f.calls)
}

func TestResolvePages_TemplateIncompleteFallsThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inputs string
	}{
		{
			name:   "missing max input",
			inputs: `<input id="inp_pg_no_url" value="https://example.com/p-[[[p-no]]]">`,
		},
		{
			name:   "empty template",
			inputs: `<input id="inp_pg_no_url" value=""><input id="inp_pg_no_max" value="4">`,
		},
		{
			name:   "non numeric max",
			inputs: `<input id="inp_pg_no_url" value="https://example.com/p-[[[p-no]]]"><input id="inp_pg_no_max" value="many">`,
		},
		{
			name:   "zero max",
			inputs: `<input id="inp_pg_no_url" value="https://example.com/p-[[[p-no]]]"><input id="inp_pg_no_max" value="0">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := "<html><body>" + tt.inputs + "</body></html>"
			r, _ := newResolver(map[string]string{sectionURL: body})

			pages, strategy, err := r.ResolvePages(context.Background(), sectionURL)
			require.NoError(t, err)
			assert.Equal(t, pagination.StrategyIterative, strategy)
			require.Len(t, pages, 1)
			assert.Equal(t, sectionURL, pages[0].URL)
			assert.Equal(t, body, string(pages[0].Body), "seed page reuses the fetched body")
		})
	}
}

func TestResolvePageURLs_Iterative(t *testing.T) {
	t.Parallel()

	page2 := sectionURL + "/2"
	r, f := newResolver(map[string]string{
		sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
		page2:      `<html><body><ul><li class="page-item"><a class="page-link" href="#">1</a></li></ul></body></html>`,
	})

	got, err := r.ResolvePageURLs(context.Background(), sectionURL)
	require.NoError(t, err)
	assert.Equal(t, []string{sectionURL, page2}, got)
	assert.Equal(t, []string{sectionURL, page2}, f.calls)
}

func TestResolvePages_IterativeTerminates(t *testing.T) {
	t.Parallel()

	page2 := sectionURL + "/2"
	page3 := sectionURL + "/3"

	tests := []struct {
		name  string
		pages map[string]string
		want  []string
	}{
		{
			name: "self link",
			pages: map[string]string{
				sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
				page2:      "<html><body>" + nextControl(page2) + "</body></html>",
			},
			want: []string{sectionURL, page2},
		},
		{
			name: "back link",
			pages: map[string]string{
				sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
				page2:      "<html><body>" + nextControl(sectionURL) + "</body></html>",
			},
			want: []string{sectionURL, page2},
		},
		{
			name: "placeholder link",
			pages: map[string]string{
				sectionURL: "<html><body>" + nextControl("#") + "</body></html>",
			},
			want: []string{sectionURL},
		},
		{
			name: "next page fetch failure",
			pages: map[string]string{
				sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
				page2:      "<html><body>" + nextControl(page3) + "</body></html>",
			},
			want: []string{sectionURL, page2},
		},
		{
			name: "next page empty",
			pages: map[string]string{
				sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
				page2:      "",
			},
			want: []string{sectionURL},
		},
		{
			name: "no pagination control",
			pages: map[string]string{
				sectionURL: "<html><body><p>just questions</p></body></html>",
			},
			want: []string{sectionURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, _ := newResolver(tt.pages)

			got, err := r.ResolvePageURLs(context.Background(), sectionURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePages_IterativeCarriesBodies(t *testing.T) {
	t.Parallel()

	page2 := "/civil-engineering/surveying/032001/2"
	page2URL := "https://www.indiabix.com" + page2
	r, _ := newResolver(map[string]string{
		sectionURL: "<html><body>" + nextControl(page2) + "</body></html>",
		page2URL:   "<html><body>second</body></html>",
	})

	pages, strategy, err := r.ResolvePages(context.Background(), sectionURL)
	require.NoError(t, err)
	assert.Equal(t, pagination.StrategyIterative, strategy)
	require.Len(t, pages, 2)
	assert.Equal(t, page2URL, pages[1].URL)
	assert.Contains(t, string(pages[1].Body), "second")
}

func TestResolvePages_MaxPagesCap(t *testing.T) {
	t.Parallel()

	pages := map[string]string{}
	for i := 1; i <= 10; i++ {
		u := fmt.Sprintf("%s/%d", sectionURL, i)
		if i == 1 {
			u = sectionURL
		}
		pages[u] = "<html><body>" + nextControl(fmt.Sprintf("%s/%d", sectionURL, i+1)) + "</body></html>"
	}

	f := &siteFetcher{pages: pages}
	r := pagination.NewResolver(f, pagination.Selectors{MaxPages: 3}, logger.NewNop())

	got, err := r.ResolvePageURLs(context.Background(), sectionURL)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSelectors_WithDefaults(t *testing.T) {
	t.Parallel()

	s := pagination.Selectors{NextLabel: "Suivant"}.WithDefaults()
	assert.Equal(t, "Suivant", s.NextLabel)
	assert.Equal(t, pagination.DefaultTemplateInputID, s.TemplateInputID)
	assert.Equal(t, pagination.DefaultPageToken, s.PageToken)
	assert.Equal(t, pagination.DefaultMaxPages, s.MaxPages)
}
