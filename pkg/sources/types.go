package sources

import (
	"fmt"
	"strings"
)

const (
	// Supported source types.
	TypeRest = "rest"
	TypeRss  = "rss"
	TypeHtml = "html"

	defaultMethod    = "GET"
	defaultTitleAttr = "text"
	defaultURLAttr   = "href"
	defaultTsAttr    = "datetime"
)

// SourceConfig declares one external source. Type selects which payload
// variant is active: Rest for "rest", HTML for "html", none for "rss".
type SourceConfig struct {
	Key       string     `json:"key" yaml:"key"`
	Name      string     `json:"name" yaml:"name"`
	Type      string     `json:"type" yaml:"type"`
	Endpoint  string     `json:"endpoint" yaml:"endpoint"`
	Enabled   *bool      `json:"enabled" yaml:"enabled"`
	RateLimit *RateLimit `json:"rate_limit" yaml:"rate_limit"`

	Rest *RestSpec `json:"rest" yaml:"rest"`
	HTML *HtmlSpec `json:"html" yaml:"html"`
}

// RateLimit caps requests per source per minute. Zero or absent means
// unbounded.
type RateLimit struct {
	RPM int `json:"rpm" yaml:"rpm"`
}

// RestSpec configures a JSON API source.
type RestSpec struct {
	Method  string            `json:"method" yaml:"method"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Params  map[string]string `json:"params" yaml:"params"`
	Extract ExtractRule       `json:"extract" yaml:"extract"`
}

// ExtractRule maps JSONPath expressions onto item fields. List, Title and
// URL are required; Ts and Rank are optional.
type ExtractRule struct {
	List  string `json:"list" yaml:"list"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Ts    string `json:"ts" yaml:"ts"`
	Rank  string `json:"rank" yaml:"rank"`
}

// HtmlSpec configures a scraped HTML source. TitleAttr's special value
// "text" selects the element text content instead of an attribute.
type HtmlSpec struct {
	ItemSelector string `json:"item" yaml:"item"`
	TitleAttr    string `json:"title_attr" yaml:"title_attr"`
	URLAttr      string `json:"url_attr" yaml:"url_attr"`
	TsSelector   string `json:"ts_selector" yaml:"ts_selector"`
	TsAttr       string `json:"ts_attr" yaml:"ts_attr"`
}

// IsEnabled reports whether the source takes part in a run. Absent means
// enabled.
func (c SourceConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// RPM returns the configured per-minute budget, 0 for unbounded.
func (c SourceConfig) RPM() int {
	if c.RateLimit == nil {
		return 0
	}
	return c.RateLimit.RPM
}

// applyDefaults fills optional fields so adapters never have to.
func (c *SourceConfig) applyDefaults() {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.Name == "" {
		c.Name = c.Key
	}
	if c.Rest != nil {
		if c.Rest.Method == "" {
			c.Rest.Method = defaultMethod
		}
		c.Rest.Method = strings.ToUpper(c.Rest.Method)
	}
	if c.HTML != nil {
		if c.HTML.TitleAttr == "" {
			c.HTML.TitleAttr = defaultTitleAttr
		}
		if c.HTML.URLAttr == "" {
			c.HTML.URLAttr = defaultURLAttr
		}
		if c.HTML.TsAttr == "" {
			c.HTML.TsAttr = defaultTsAttr
		}
	}
}

// Validate checks the structural invariants the adapters rely on.
func (c SourceConfig) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("source key is empty")
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("source %q endpoint is empty", c.Key)
	}

	switch c.Type {
	case TypeRest:
		if c.Rest == nil {
			return fmt.Errorf("source %q has type rest but no rest payload", c.Key)
		}
		ex := c.Rest.Extract
		if ex.List == "" || ex.Title == "" || ex.URL == "" {
			return fmt.Errorf("source %q rest extract requires list, title and url paths", c.Key)
		}
	case TypeRss:
		// endpoint alone suffices
	case TypeHtml:
		if c.HTML == nil {
			return fmt.Errorf("source %q has type html but no html payload", c.Key)
		}
		if strings.TrimSpace(c.HTML.ItemSelector) == "" {
			return fmt.Errorf("source %q html payload requires an item selector", c.Key)
		}
	default:
		return fmt.Errorf("source %q has unsupported type %q", c.Key, c.Type)
	}
	return nil
}
