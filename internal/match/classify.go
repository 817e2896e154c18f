package match

import (
	"strings"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
)

// Classify turns raw keyword lines into classified rules. Classification is
// purely syntactic: a leading '!' makes an Exclude, a leading '+' a Must,
// everything else an Any. The prefix is stripped from the stored pattern and
// surrounding whitespace trimmed. Blank lines and '#' comments are ignored.
// Declaration order is preserved.
func Classify(lines []string) []domain.KeywordRule {
	rules := make([]domain.KeywordRule, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		class := domain.ClassAny
		switch line[0] {
		case '!':
			class = domain.ClassExclude
			line = line[1:]
		case '+':
			class = domain.ClassMust
			line = line[1:]
		}

		pattern := strings.TrimSpace(line)
		if pattern == "" {
			continue
		}

		rules = append(rules, domain.KeywordRule{Class: class, Pattern: pattern})
	}

	return rules
}

// Rules partitions classified keywords by class, keeping each class's
// declaration order. Anys order feeds match provenance.
type Rules struct {
	Excludes []string
	Musts    []string
	Anys     []string
}

// Partition splits classified rules into the three pattern lists the matcher
// consumes.
func Partition(rules []domain.KeywordRule) Rules {
	var r Rules
	for _, rule := range rules {
		switch rule.Class {
		case domain.ClassExclude:
			r.Excludes = append(r.Excludes, rule.Pattern)
		case domain.ClassMust:
			r.Musts = append(r.Musts, rule.Pattern)
		default:
			r.Anys = append(r.Anys, rule.Pattern)
		}
	}
	return r
}

// ClassifyText is a convenience wrapper over Classify for whole keyword
// files.
func ClassifyText(text string) []domain.KeywordRule {
	return Classify(strings.Split(text, "\n"))
}
