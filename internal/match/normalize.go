package match

import (
	"strings"

	"github.com/longbridgeapp/opencc"
	"golang.org/x/text/width"

	"github.com/ReDian-Labs/redian-harvester/internal/logger"
)

// ScriptConverter converts traditional-script text to its simplified form.
// Implementations must leave unmapped characters untouched.
type ScriptConverter interface {
	Convert(s string) (string, error)
}

type nopConverter struct{}

func (nopConverter) Convert(s string) (string, error) { return s, nil }

// NopScriptConverter returns a pass-through converter.
func NopScriptConverter() ScriptConverter { return nopConverter{} }

type openccConverter struct {
	cc *opencc.OpenCC
}

func (c openccConverter) Convert(s string) (string, error) { return c.cc.Convert(s) }

// NewScriptConverter builds the traditional-to-simplified converter. When
// the conversion tables cannot be loaded the capability silently degrades
// to pass-through; the degradation is logged once, informationally.
func NewScriptConverter(log logger.Logger) ScriptConverter {
	if log == nil {
		log = logger.NopLogger{}
	}

	cc, err := opencc.New("t2s")
	if err != nil {
		log.InfoObj("script unification unavailable, matching without it", "capability_degraded", map[string]any{
			"capability": "script_unify",
			"error":      err.Error(),
		})
		return nopConverter{}
	}
	return openccConverter{cc: cc}
}

// Normalizer applies script and width unification per its configuration.
// Normalize is pure and idempotent; both steps are independently toggleable.
type Normalizer struct {
	cfg       NormalizeConfig
	converter ScriptConverter
}

// NewNormalizer builds a Normalizer. A nil converter triggers capability
// detection when script unification is enabled.
func NewNormalizer(cfg NormalizeConfig, converter ScriptConverter, log logger.Logger) *Normalizer {
	if converter == nil {
		if cfg.ScriptUnify {
			converter = NewScriptConverter(log)
		} else {
			converter = nopConverter{}
		}
	}
	return &Normalizer{cfg: cfg, converter: converter}
}

// Normalize unifies character width and script, then trims whitespace.
// Conversion failures pass the text through unchanged rather than erroring.
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	if n.cfg.WidthUnify {
		s = width.Narrow.String(s)
	}

	if n.cfg.ScriptUnify {
		if converted, err := n.converter.Convert(s); err == nil {
			s = converted
		}
	}

	return strings.TrimSpace(s)
}
