package sources

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
)

// rssFetcher extracts items from RSS and Atom feeds.
type rssFetcher struct {
	client httpclient.Client
	parser *gofeed.Parser
}

// NewRssFetcher builds a fetcher for feed sources.
func NewRssFetcher(client httpclient.Client) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssFetcher{
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (f *rssFetcher) Type() string {
	return TypeRss
}

// Fetch retrieves the feed and maps each entry's title, link and published
// time onto an item. Entries without a title or link are skipped.
func (f *rssFetcher) Fetch(ctx context.Context, cfg SourceConfig) ([]domain.NewsItem, error) {
	if !strings.EqualFold(cfg.Type, TypeRss) {
		return nil, configErr("rss fetcher received incompatible source type %q", cfg.Type)
	}

	resp, err := f.client.Get(ctx, cfg.Endpoint, nil)
	if err != nil {
		return nil, fetchErr("fetch %s: %w", cfg.Key, err)
	}
	if resp.StatusCode()/100 != 2 {
		return nil, statusError(cfg.Key, resp.StatusCode(), resp.Body())
	}

	feed, err := f.parser.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, extractErr("parse %s feed: %w", cfg.Key, err)
	}
	// The parser accepts any JSON object as a JSON Feed. A real one always
	// carries a version; without it the body is not a feed at all.
	if feed.FeedType == "json" && feed.FeedVersion == "" {
		return nil, extractErr("parse %s feed: not a feed", cfg.Key)
	}

	now := time.Now()
	items := make([]domain.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		var ts any
		switch {
		case entry.PublishedParsed != nil:
			ts = entry.PublishedParsed
		case entry.UpdatedParsed != nil:
			ts = entry.UpdatedParsed
		case entry.Published != "":
			ts = entry.Published
		}

		if item, ok := buildItem(cfg, entry.Title, entry.Link, ts, 0, now); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
