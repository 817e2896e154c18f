package match

// Config is the immutable match configuration threaded through the
// normalizer and matcher. It is never consulted as global state.
type Config struct {
	Normalize    NormalizeConfig `mapstructure:"normalize" yaml:"normalize"`
	Fuzzy        FuzzyConfig     `mapstructure:"fuzzy" yaml:"fuzzy"`
	RegexEnabled bool            `mapstructure:"regex_enabled" yaml:"regex_enabled"`
}

// NormalizeConfig toggles the two text unification steps independently.
type NormalizeConfig struct {
	ScriptUnify bool `mapstructure:"script_unify" yaml:"script_unify"`
	WidthUnify  bool `mapstructure:"width_unify" yaml:"width_unify"`
}

// FuzzyConfig controls the fuzzy fallback in the Any stage.
type FuzzyConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Threshold int  `mapstructure:"threshold" yaml:"threshold"`
}

const defaultFuzzyThreshold = 90

// DefaultConfig returns the stock configuration: both normalization steps
// on, regex and fuzzy fallbacks off, threshold 90.
func DefaultConfig() Config {
	return Config{
		Normalize: NormalizeConfig{ScriptUnify: true, WidthUnify: true},
		Fuzzy:     FuzzyConfig{Enabled: false, Threshold: defaultFuzzyThreshold},
	}
}

// BasicConfig returns the fully degraded configuration: no normalization,
// no regex, no fuzzy. Matching falls back to plain substring containment.
func BasicConfig() Config {
	return Config{
		Fuzzy: FuzzyConfig{Threshold: defaultFuzzyThreshold},
	}
}

// withDefaults fills unset values callers commonly omit.
func (c Config) withDefaults() Config {
	if c.Fuzzy.Threshold <= 0 || c.Fuzzy.Threshold > 100 {
		c.Fuzzy.Threshold = defaultFuzzyThreshold
	}
	return c
}
