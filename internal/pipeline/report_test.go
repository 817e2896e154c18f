package pipeline

import (
	"errors"
	"testing"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
)

func TestGroupBySource_NamespacesAndAggregates(t *testing.T) {
	items := []Matched{
		{Item: domain.NewsItem{SourceKey: "tech", Source: "Tech Blog", Title: "story one", URL: "https://example.com/1", Rank: 3}},
		{Item: domain.NewsItem{SourceKey: "tech", Source: "Tech Blog", Title: "story two", URL: "https://example.com/2", Rank: 7}},
		{Item: domain.NewsItem{SourceKey: "tech", Source: "Tech Blog", Title: "story one", URL: "", Rank: 5}},
		{Item: domain.NewsItem{SourceKey: "feed", Title: "other", URL: "https://example.com/3"}},
	}

	groups := GroupBySource(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	tech, ok := groups["custom:tech"]
	if !ok {
		t.Fatal("source ids must carry the custom: prefix")
	}
	if tech.Name != "Tech Blog" {
		t.Errorf("group name = %q, want Tech Blog", tech.Name)
	}
	if len(tech.Titles) != 2 || tech.Titles[0] != "story one" || tech.Titles[1] != "story two" {
		t.Errorf("title order broken: %v", tech.Titles)
	}

	one := tech.Entries["story one"]
	if one.URL != "https://example.com/1" {
		t.Errorf("first non-empty URL should stick, got %q", one.URL)
	}
	if len(one.Ranks) != 2 || one.Ranks[0] != 3 || one.Ranks[1] != 5 {
		t.Errorf("ranks = %v, want [3 5]", one.Ranks)
	}

	feed := groups["custom:feed"]
	if feed.Name != "custom:feed" {
		t.Errorf("unnamed source should fall back to its id, got %q", feed.Name)
	}
}

func TestGroupBySource_SequentialRankFallback(t *testing.T) {
	items := []Matched{
		{Item: domain.NewsItem{SourceKey: "s", Title: "a", URL: "https://example.com/a"}},
		{Item: domain.NewsItem{SourceKey: "s", Title: "a", URL: "https://example.com/a"}},
	}

	entry := GroupBySource(items)["custom:s"].Entries["a"]
	if len(entry.Ranks) != 2 || entry.Ranks[0] != 1 || entry.Ranks[1] != 2 {
		t.Errorf("unranked occurrences should rank by arrival, got %v", entry.Ranks)
	}
}

func TestGroupBySource_SkipsUntitled(t *testing.T) {
	items := []Matched{
		{Item: domain.NewsItem{SourceKey: "s", Title: "", URL: "https://example.com/a"}},
	}
	if groups := GroupBySource(items); len(groups) != 0 {
		t.Errorf("untitled items must not create groups, got %v", groups)
	}
}

func TestFailures_SplitsByGrade(t *testing.T) {
	reports := []domain.FailureReport{
		{SourceKey: "a", Kind: domain.FailureFetch, Err: errors.New("boom")},
		{SourceKey: "b", Kind: domain.FailureRateLimited, Err: errors.New("budget spent")},
		{SourceKey: "c", Kind: domain.FailureConfig, Err: errors.New("bad yaml")},
	}

	failures, infos := Failures(reports)
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if failures[0].SourceKey != "a" || failures[1].SourceKey != "c" {
		t.Errorf("wrong failure set: %+v", failures)
	}
	if len(infos) != 1 || infos[0].SourceKey != "b" {
		t.Errorf("rate limit reports belong in the informational set, got %+v", infos)
	}
}
