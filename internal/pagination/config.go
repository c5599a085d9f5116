package pagination

// Default markup hooks for the question bank's pagination controls.
const (
	DefaultTemplateInputID = "inp_pg_no_url"
	DefaultMaxInputID      = "inp_pg_no_max"
	DefaultPageToken       = "[[[p-no]]]"
	DefaultPageItemClass   = "page-item"
	DefaultPageLinkClass   = "page-link"
	DefaultNextLabel       = "Next"
	DefaultMaxPages        = 1000
)

// Selectors configures which markup the resolver looks for.
type Selectors struct {
	TemplateInputID string `mapstructure:"template_input_id"`
	MaxInputID      string `mapstructure:"max_input_id"`
	PageToken       string `mapstructure:"page_token"`
	PageItemClass   string `mapstructure:"page_item_class"`
	PageLinkClass   string `mapstructure:"page_link_class"`
	NextLabel       string `mapstructure:"next_label"`
	// MaxPages caps both strategies. Zero means DefaultMaxPages.
	MaxPages int `mapstructure:"max_pages"`
}

// WithDefaults fills empty fields with the default hooks.
func (s Selectors) WithDefaults() Selectors {
	if s.TemplateInputID == "" {
		s.TemplateInputID = DefaultTemplateInputID
	}
	if s.MaxInputID == "" {
		s.MaxInputID = DefaultMaxInputID
	}
	if s.PageToken == "" {
		s.PageToken = DefaultPageToken
	}
	if s.PageItemClass == "" {
		s.PageItemClass = DefaultPageItemClass
	}
	if s.PageLinkClass == "" {
		s.PageLinkClass = DefaultPageLinkClass
	}
	if s.NextLabel == "" {
		s.NextLabel = DefaultNextLabel
	}
	if s.MaxPages <= 0 {
		s.MaxPages = DefaultMaxPages
	}
	return s
}
