package sources

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
)

// restFetcher extracts items from JSON APIs via JSONPath expressions.
type restFetcher struct {
	client httpclient.Client
}

// NewRestFetcher builds a fetcher for REST JSON sources.
func NewRestFetcher(client httpclient.Client) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &restFetcher{client: client}
}

func (f *restFetcher) Type() string {
	return TypeRest
}

// Fetch retrieves the endpoint and applies the configured extract rule.
// Entries missing a required field are skipped, never fatal to the batch.
func (f *restFetcher) Fetch(ctx context.Context, cfg SourceConfig) ([]domain.NewsItem, error) {
	if !strings.EqualFold(cfg.Type, TypeRest) {
		return nil, configErr("rest fetcher received incompatible source type %q", cfg.Type)
	}
	if cfg.Rest == nil {
		return nil, configErr("source %q has no rest payload", cfg.Key)
	}

	spec := cfg.Rest

	resp, err := f.client.Do(ctx, spec.Method, cfg.Endpoint, spec.Headers, spec.Params)
	if err != nil {
		return nil, fetchErr("fetch %s: %w", cfg.Key, err)
	}
	if resp.StatusCode()/100 != 2 {
		return nil, statusError(cfg.Key, resp.StatusCode(), resp.Body())
	}

	var doc any
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, extractErr("decode %s json body: %w", cfg.Key, err)
	}

	list, err := jsonpath.Get(spec.Extract.List, doc)
	if err != nil {
		return nil, extractErr("source %s list path %q: %w", cfg.Key, spec.Extract.List, err)
	}

	entries, ok := list.([]any)
	if !ok {
		// A list path resolving to a single object yields one candidate.
		entries = []any{list}
	}

	now := time.Now()
	items := make([]domain.NewsItem, 0, len(entries))
	for _, entry := range entries {
		title := asString(pathValue(spec.Extract.Title, entry))
		itemURL := asString(pathValue(spec.Extract.URL, entry))

		var ts any
		if spec.Extract.Ts != "" {
			ts = pathValue(spec.Extract.Ts, entry)
		}

		rank := 0
		if spec.Extract.Rank != "" {
			rank = asInt(pathValue(spec.Extract.Rank, entry))
		}

		if item, ok := buildItem(cfg, title, itemURL, ts, rank, now); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// pathValue evaluates a JSONPath expression, returning nil on any failure.
func pathValue(path string, doc any) any {
	if path == "" {
		return nil
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	return v
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
