package sources

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
)

// htmlFetcher extracts items from HTML pages via CSS selectors.
type htmlFetcher struct {
	client httpclient.Client
}

// NewHtmlFetcher builds a fetcher for scraped HTML sources.
func NewHtmlFetcher(client httpclient.Client) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &htmlFetcher{client: client}
}

func (f *htmlFetcher) Type() string {
	return TypeHtml
}

// Fetch retrieves the page, selects entry nodes via the item selector and
// extracts title, URL and an optional timestamp per node. Nodes missing a
// title or URL are dropped; the remaining nodes still yield items.
func (f *htmlFetcher) Fetch(ctx context.Context, cfg SourceConfig) ([]domain.NewsItem, error) {
	if !strings.EqualFold(cfg.Type, TypeHtml) {
		return nil, configErr("html fetcher received incompatible source type %q", cfg.Type)
	}
	if cfg.HTML == nil {
		return nil, configErr("source %q has no html payload", cfg.Key)
	}

	spec := cfg.HTML

	resp, err := f.client.Get(ctx, cfg.Endpoint, nil)
	if err != nil {
		return nil, fetchErr("fetch %s: %w", cfg.Key, err)
	}
	if resp.StatusCode()/100 != 2 {
		return nil, statusError(cfg.Key, resp.StatusCode(), resp.Body())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, extractErr("parse %s html: %w", cfg.Key, err)
	}

	now := time.Now()
	var items []domain.NewsItem
	doc.Find(spec.ItemSelector).Each(func(_ int, node *goquery.Selection) {
		title := nodeValue(node, spec.TitleAttr)
		itemURL, _ := node.Attr(spec.URLAttr)
		itemURL = resolveURL(strings.TrimSpace(itemURL), cfg.Endpoint)

		var ts any
		if spec.TsSelector != "" {
			ts = timestampValue(node, doc, spec.TsSelector, spec.TsAttr)
		}

		if item, ok := buildItem(cfg, title, itemURL, ts, 0, now); ok {
			items = append(items, item)
		}
	})

	return items, nil
}

// nodeValue reads the configured attribute from a node. The special attr
// "text" selects the trimmed text content.
func nodeValue(node *goquery.Selection, attr string) string {
	if attr == defaultTitleAttr {
		return strings.TrimSpace(node.Text())
	}
	v, _ := node.Attr(attr)
	return strings.TrimSpace(v)
}

// timestampValue looks the timestamp node up beneath the item node first,
// falling back to a document-wide lookup.
func timestampValue(node *goquery.Selection, doc *goquery.Document, selector, attr string) any {
	tsNode := node.Find(selector).First()
	if tsNode.Length() == 0 {
		tsNode = doc.Find(selector).First()
	}
	if tsNode.Length() == 0 {
		return nil
	}

	if v, ok := tsNode.Attr(attr); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(tsNode.Text())
}
