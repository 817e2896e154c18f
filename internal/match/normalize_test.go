package match

import (
	"errors"
	"strings"
	"testing"

	"github.com/ReDian-Labs/redian-harvester/internal/logger"
)

// stubConverter maps traditional characters to simplified ones without
// pulling in real conversion tables.
type stubConverter struct {
	mapping map[rune]rune
	err     error
}

func (s stubConverter) Convert(in string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return strings.Map(func(r rune) rune {
		if mapped, ok := s.mapping[r]; ok {
			return mapped
		}
		return r
	}, in), nil
}

func TestNormalize_WidthUnification(t *testing.T) {
	n := NewNormalizer(NormalizeConfig{WidthUnify: true}, NopScriptConverter(), logger.NopLogger{})

	got := n.Normalize("ｉＰｈｏｎｅ　１５")
	if got != "iPhone 15" {
		t.Errorf("expected %q, got %q", "iPhone 15", got)
	}
}

func TestNormalize_ScriptUnification(t *testing.T) {
	conv := stubConverter{mapping: map[rune]rune{'蘋': '苹', '發': '发'}}
	n := NewNormalizer(NormalizeConfig{ScriptUnify: true}, conv, logger.NopLogger{})

	got := n.Normalize("蘋果發布")
	if got != "苹果发布" {
		t.Errorf("expected %q, got %q", "苹果发布", got)
	}
}

func TestNormalize_ConversionFailurePassesThrough(t *testing.T) {
	conv := stubConverter{err: errors.New("tables missing")}
	n := NewNormalizer(NormalizeConfig{ScriptUnify: true, WidthUnify: true}, conv, logger.NopLogger{})

	got := n.Normalize("蘋果")
	if got != "蘋果" {
		t.Errorf("conversion failure should pass text through, got %q", got)
	}
}

func TestNormalize_DisabledStepsPassThrough(t *testing.T) {
	conv := stubConverter{mapping: map[rune]rune{'蘋': '苹'}}
	n := NewNormalizer(NormalizeConfig{}, conv, logger.NopLogger{})

	got := n.Normalize("蘋果ｉＰｈｏｎｅ")
	if got != "蘋果ｉＰｈｏｎｅ" {
		t.Errorf("disabled steps must not alter text, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	conv := stubConverter{mapping: map[rune]rune{'蘋': '苹', '發': '发'}}
	n := NewNormalizer(NormalizeConfig{ScriptUnify: true, WidthUnify: true}, conv, logger.NopLogger{})

	inputs := []string{
		"ｉＰｈｏｎｅ　１５",
		"蘋果發布",
		"  plain ascii  ",
		"",
		"混合ｔｅｘｔ蘋果",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_TrimsWhitespace(t *testing.T) {
	n := NewNormalizer(NormalizeConfig{}, NopScriptConverter(), logger.NopLogger{})

	if got := n.Normalize("  hello  "); got != "hello" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}
