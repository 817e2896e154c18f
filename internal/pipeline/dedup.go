package pipeline

import (
	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/internal/match"
)

// Deduper collapses duplicate items within one ingestion cycle. Duplicates
// are detected by exact URL, then by normalized title, then optionally by
// fuzzy title similarity at the configured threshold. Cross-cycle dedup is
// an external concern.
type Deduper struct {
	norm      *match.Normalizer
	sim       match.Similarity
	fuzzy     bool
	threshold int
}

// NewDeduper builds a Deduper sharing the matcher's normalizer and scorer so
// title keys agree with match semantics.
func NewDeduper(norm *match.Normalizer, sim match.Similarity, fuzzy bool, threshold int) *Deduper {
	if sim == nil {
		sim = match.NopSimilarity()
		fuzzy = false
	}
	return &Deduper{norm: norm, sim: sim, fuzzy: fuzzy, threshold: threshold}
}

// Run returns the items with duplicates removed, keeping the first
// occurrence and the input order.
func (d *Deduper) Run(items []domain.NewsItem) []domain.NewsItem {
	seenURL := make(map[string]bool, len(items))
	seenTitle := make(map[string]bool, len(items))

	out := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		if item.URL != "" && seenURL[item.URL] {
			continue
		}

		titleKey := d.norm.Normalize(item.Title)
		if titleKey != "" && seenTitle[titleKey] {
			continue
		}

		if d.fuzzy && titleKey != "" && d.similarSeen(titleKey, seenTitle) {
			continue
		}

		if item.URL != "" {
			seenURL[item.URL] = true
		}
		if titleKey != "" {
			seenTitle[titleKey] = true
		}
		out = append(out, item)
	}
	return out
}

// Merge concatenates two batches and deduplicates the result, with base
// items taking precedence.
func (d *Deduper) Merge(base, extra []domain.NewsItem) []domain.NewsItem {
	merged := make([]domain.NewsItem, 0, len(base)+len(extra))
	merged = append(merged, base...)
	merged = append(merged, extra...)
	return d.Run(merged)
}

func (d *Deduper) similarSeen(titleKey string, seen map[string]bool) bool {
	for other := range seen {
		if d.sim.Score(titleKey, other) >= d.threshold {
			return true
		}
	}
	return false
}
