package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
)

// Fetcher turns one source configuration into extracted items. One
// implementation exists per source type.
type Fetcher interface {
	// Type returns the source type this fetcher serves.
	Type() string
	// Fetch retrieves and extracts items for the given source.
	Fetch(ctx context.Context, cfg SourceConfig) ([]domain.NewsItem, error)
}

// FetcherRegistry selects the fetcher for a source by its type.
type FetcherRegistry interface {
	FetcherFor(cfg SourceConfig) (Fetcher, error)
}

type fetcherRegistry struct {
	fetchers map[string]Fetcher
	mu       sync.RWMutex
}

// NewFetcherRegistry builds a registry for the provided fetcher implementations.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchers: make(map[string]Fetcher, len(fetchers)),
	}

	for _, f := range fetchers {
		if f == nil {
			continue
		}
		reg.fetchers[strings.ToLower(strings.TrimSpace(f.Type()))] = f
	}

	return reg
}

// FetcherFor selects the fetcher for the given source based on its type.
func (r *fetcherRegistry) FetcherFor(cfg SourceConfig) (Fetcher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("source %q type is empty", cfg.Key)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[strings.ToLower(cfg.Type)]; ok {
		return f, nil
	}

	return nil, fmt.Errorf("no fetcher registered for source type %q", cfg.Type)
}

// DefaultHTTPClient returns a tuned HTTP client for source fetchers.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultFetcherRegistry wires up the three known source type fetchers.
func DefaultFetcherRegistry(client httpclient.Client) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	return NewFetcherRegistry(
		NewRestFetcher(client),
		NewRssFetcher(client),
		NewHtmlFetcher(client),
	)
}
