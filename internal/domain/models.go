package domain

import (
	"fmt"
	"time"
)

// Domain contains core models shared by the source and matching packages.

// NewsItem is one ingested entry, normalized across all source types.
type NewsItem struct {
	ID        string
	SourceKey string
	Source    string // display name of the originating source
	Title     string
	URL       string
	Timestamp time.Time // fetch time when the source carries no usable time
	Rank      int       // 0 when the source carries no rank
}

// MatchStrategy identifies which fallback strategy accepted an item.
type MatchStrategy string

const (
	StrategyRegex     MatchStrategy = "regex"
	StrategyFuzzy     MatchStrategy = "fuzzy"
	StrategySubstring MatchStrategy = "substring"
)

// MatchResult is the outcome of evaluating one item against the keyword set.
// MatchedRule holds the Any pattern that caused acceptance; it is empty when
// the item was rejected or accepted on Must-only grounds.
type MatchResult struct {
	Accepted    bool
	MatchedRule string
	Strategy    MatchStrategy
	Reason      string // rejection cause, empty on acceptance
}

// KeywordClass partitions keyword patterns by their line prefix.
type KeywordClass int

const (
	ClassAny     KeywordClass = iota // unprefixed
	ClassMust                        // prefixed '+'
	ClassExclude                     // prefixed '!'
)

// KeywordRule is one classified keyword pattern. Pattern carries the raw
// text with its class prefix stripped.
type KeywordRule struct {
	Class   KeywordClass
	Pattern string
}

// FailureKind categorizes source-level failures.
type FailureKind string

const (
	FailureConfig      FailureKind = "config"
	FailureFetch       FailureKind = "fetch"
	FailureExtract     FailureKind = "extract"
	FailureRateLimited FailureKind = "rate_limited"
)

// FailureReport records a failure isolated to one configured source.
type FailureReport struct {
	SourceKey string
	Kind      FailureKind
	Err       error
}

// Informational reports that the source was skipped rather than broken.
func (r FailureReport) Informational() bool {
	return r.Kind == FailureRateLimited
}

// String renders the console line the external logger is expected to emit.
func (r FailureReport) String() string {
	return fmt.Sprintf("自定义源抓取失败: key='%s', 错误: %v", r.SourceKey, r.Err)
}
