package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Feed story one</title>
      <link>https://example.com/one</link>
      <pubDate>Sat, 01 Jun 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Feed story two</title>
      <link>https://example.com/two</link>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
  </channel>
</rss>`

func TestRssFetcher_MapsFeedEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer ts.Close()

	cfg := SourceConfig{Key: "feed", Name: "Example", Type: TypeRss, Endpoint: ts.URL}

	f := NewRssFetcher(testClient())
	items, err := f.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (untitled dropped), got %d", len(items))
	}

	if items[0].Title != "Feed story one" || items[0].URL != "https://example.com/one" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].Timestamp.UTC().Hour() != 10 {
		t.Errorf("published time not mapped: %v", items[0].Timestamp)
	}
	if items[1].Timestamp.IsZero() {
		t.Error("entries without a published time should fall back to fetch time")
	}
}

func TestRssFetcher_NonFeedBodyFails(t *testing.T) {
	bodies := map[string]string{
		"html garbage":    `<html><body>not a feed</body></html>`,
		"arbitrary json":  `{"not":"a feed"}`,
		"empty json":      `{}`,
		"truncated bytes": `<?xml version=`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer ts.Close()

			cfg := SourceConfig{Key: "feed", Type: TypeRss, Endpoint: ts.URL}

			f := NewRssFetcher(testClient())
			if _, err := f.Fetch(context.Background(), cfg); err == nil {
				t.Fatal("expected error for non-feed body")
			}
		})
	}
}

func TestRssFetcher_JSONFeedStillParses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"version": "https://jsonfeed.org/version/1",
			"title": "JSON Feed",
			"items": [
				{"id": "1", "title": "json story", "url": "https://example.com/json"}
			]
		}`))
	}))
	defer ts.Close()

	cfg := SourceConfig{Key: "feed", Type: TypeRss, Endpoint: ts.URL}

	f := NewRssFetcher(testClient())
	items, err := f.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "json story" {
		t.Errorf("unexpected items: %+v", items)
	}
}
