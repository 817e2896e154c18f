package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/internal/logger"
)

// Similarity scores how alike two strings are, 0 to 100.
type Similarity interface {
	Score(a, b string) int
}

type nopSimilarity struct{}

func (nopSimilarity) Score(string, string) int { return 0 }

// NopSimilarity returns a scorer that never matches.
func NopSimilarity() Similarity { return nopSimilarity{} }

type diceSimilarity struct {
	metric *metrics.SorensenDice
}

// NewSimilarity builds the default token-overlap scorer (Sørensen–Dice over
// character bigrams).
func NewSimilarity() Similarity {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	return diceSimilarity{metric: m}
}

func (d diceSimilarity) Score(a, b string) int {
	return int(strutil.Similarity(a, b, d.metric) * 100)
}

// Matcher evaluates item titles against a classified keyword set in strict
// stage order: Exclude, then Must, then Any. The Any stage tries regex,
// fuzzy and substring per pattern, in that priority.
type Matcher struct {
	cfg  Config
	norm *Normalizer
	sim  Similarity
}

// NewMatcher builds a Matcher. Nil collaborators are created from cfg; the
// fuzzy scorer degrades to never-match when fuzzy matching is disabled.
func NewMatcher(cfg Config, norm *Normalizer, sim Similarity, log logger.Logger) *Matcher {
	cfg = cfg.withDefaults()
	if norm == nil {
		norm = NewNormalizer(cfg.Normalize, nil, log)
	}
	if sim == nil {
		if cfg.Fuzzy.Enabled {
			sim = NewSimilarity()
		} else {
			sim = nopSimilarity{}
		}
	}
	return &Matcher{cfg: cfg, norm: norm, sim: sim}
}

// Evaluate runs the staged match for one title. Stages short-circuit: an
// Exclude hit rejects before Must runs, a failed Must rejects before Any
// runs. An empty Any set is no gate; Must-only rule sets can accept.
func (m *Matcher) Evaluate(title string, rules Rules) domain.MatchResult {
	normTitle := m.norm.Normalize(title)
	foldedTitle := strings.ToLower(normTitle)

	for _, pattern := range rules.Excludes {
		p := strings.ToLower(m.norm.Normalize(pattern))
		if p != "" && strings.Contains(foldedTitle, p) {
			return domain.MatchResult{
				Reason: fmt.Sprintf("excluded by keyword %q", pattern),
			}
		}
	}

	for _, pattern := range rules.Musts {
		p := strings.ToLower(m.norm.Normalize(pattern))
		if p == "" || !strings.Contains(foldedTitle, p) {
			return domain.MatchResult{
				Reason: fmt.Sprintf("missing required keyword %q", pattern),
			}
		}
	}

	if len(rules.Anys) == 0 {
		return domain.MatchResult{Accepted: true}
	}

	for _, pattern := range rules.Anys {
		if strategy, ok := m.matchAny(title, normTitle, foldedTitle, pattern); ok {
			return domain.MatchResult{
				Accepted:    true,
				MatchedRule: pattern,
				Strategy:    strategy,
			}
		}
	}

	return domain.MatchResult{Reason: "no any-keyword matched"}
}

// matchAny tries the fallback strategies for one Any pattern. Regex runs on
// the raw title so patterns can rely on case and anchors; fuzzy and
// substring compare normalized text. A pattern that fails to compile is
// simply not eligible for the regex strategy.
func (m *Matcher) matchAny(rawTitle, normTitle, foldedTitle, pattern string) (domain.MatchStrategy, bool) {
	if m.cfg.RegexEnabled {
		if re, err := regexp.Compile(pattern); err == nil && re.MatchString(rawTitle) {
			return domain.StrategyRegex, true
		}
	}

	normPattern := m.norm.Normalize(pattern)

	if m.cfg.Fuzzy.Enabled && normPattern != "" {
		if m.sim.Score(normTitle, normPattern) >= m.cfg.Fuzzy.Threshold {
			return domain.StrategyFuzzy, true
		}
	}

	if p := strings.ToLower(normPattern); p != "" && strings.Contains(foldedTitle, p) {
		return domain.StrategySubstring, true
	}

	return "", false
}
