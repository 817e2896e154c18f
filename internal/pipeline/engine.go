package pipeline

import (
	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/internal/logger"
	"github.com/ReDian-Labs/redian-harvester/internal/match"
)

// Matched pairs an accepted item with its match provenance.
type Matched struct {
	Item   domain.NewsItem
	Result domain.MatchResult
}

// Engine applies the matcher across a batch of ingested items. The keyword
// rule set is read-only during a pass and shared across all evaluations.
type Engine struct {
	matcher *match.Matcher
	log     logger.Logger
}

// NewEngine creates a filtering engine around the given matcher.
func NewEngine(matcher *match.Matcher, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{matcher: matcher, log: log}
}

// Run evaluates every item and returns the accepted subset in input order,
// each with the rule and strategy that admitted it. Rejections never affect
// the processing of other items.
func (e *Engine) Run(items []domain.NewsItem, rules match.Rules) []Matched {
	accepted := make([]Matched, 0, len(items))

	for _, item := range items {
		result := e.matcher.Evaluate(item.Title, rules)
		if !result.Accepted {
			e.log.DebugObj("item rejected", "item_rejected", map[string]any{
				"source_key": item.SourceKey,
				"title":      item.Title,
				"reason":     result.Reason,
			})
			continue
		}
		accepted = append(accepted, Matched{Item: item, Result: result})
	}

	return accepted
}
