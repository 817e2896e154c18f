package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
)

func restConfig(endpoint string) SourceConfig {
	cfg := SourceConfig{
		Key:      "api",
		Name:     "Test API",
		Type:     TypeRest,
		Endpoint: endpoint,
		Rest: &RestSpec{
			Headers: map[string]string{"X-Token": "secret"},
			Params:  map[string]string{"limit": "10"},
			Extract: ExtractRule{
				List:  "$.data.items",
				Title: "$.title",
				URL:   "$.link",
				Ts:    "$.ts",
				Rank:  "$.rank",
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func testClient() httpclient.Client {
	return httpclient.NewRestyClient(5 * time.Second)
}

func TestRestFetcher_ExtractsItems(t *testing.T) {
	var gotToken, gotLimit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"items":[
			{"title":"First","link":"https://example.com/1","ts":1717243200,"rank":1},
			{"title":"Second","link":"https://example.com/2","ts":"2024-06-01T12:00:00Z","rank":2}
		]}}`))
	}))
	defer ts.Close()

	f := NewRestFetcher(testClient())
	items, err := f.Fetch(context.Background(), restConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if gotToken != "secret" {
		t.Errorf("configured header not sent, got %q", gotToken)
	}
	if gotLimit != "10" {
		t.Errorf("configured param not sent, got %q", gotLimit)
	}

	first := items[0]
	if first.Title != "First" || first.URL != "https://example.com/1" || first.Rank != 1 {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.SourceKey != "api" || first.Source != "Test API" {
		t.Errorf("item should carry source identity: %+v", first)
	}
	if first.ID == "" {
		t.Error("item id should be set")
	}
	if first.Timestamp.Unix() != 1717243200 {
		t.Errorf("numeric timestamp mishandled: %v", first.Timestamp)
	}

	if !items[1].Timestamp.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("string timestamp mishandled: %v", items[1].Timestamp)
	}
}

func TestRestFetcher_SkipsEntriesMissingRequiredFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"items":[
			{"title":"Valid","link":"https://example.com/ok"},
			{"title":"","link":"https://example.com/no-title"},
			{"title":"No URL"},
			{"link":"https://example.com/untitled"}
		]}}`))
	}))
	defer ts.Close()

	f := NewRestFetcher(testClient())
	items, err := f.Fetch(context.Background(), restConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Valid" {
		t.Errorf("entries missing required fields must be skipped, got %+v", items)
	}
}

func TestRestFetcher_EmptyListYieldsNoItemsNoError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"items":[]}}`))
	}))
	defer ts.Close()

	f := NewRestFetcher(testClient())
	items, err := f.Fetch(context.Background(), restConfig(ts.URL))
	if err != nil {
		t.Fatalf("zero entries must not be an error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestRestFetcher_NonSuccessStatusFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer ts.Close()

	f := NewRestFetcher(testClient())
	if _, err := f.Fetch(context.Background(), restConfig(ts.URL)); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestRestFetcher_UnparseableBodyFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	f := NewRestFetcher(testClient())
	if _, err := f.Fetch(context.Background(), restConfig(ts.URL)); err == nil {
		t.Fatal("expected error for unparseable body")
	}
}

func TestRestFetcher_RejectsWrongType(t *testing.T) {
	f := NewRestFetcher(testClient())
	cfg := SourceConfig{Key: "x", Type: TypeRss, Endpoint: "https://example.com"}
	if _, err := f.Fetch(context.Background(), cfg); err == nil {
		t.Fatal("expected error for incompatible source type")
	}
}
