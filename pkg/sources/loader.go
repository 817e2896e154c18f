package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFile is the on-disk shape of a source configuration unit. A file may
// alternatively hold a single bare source object.
type configFile struct {
	CustomSources []SourceConfig `json:"custom_sources" yaml:"custom_sources"`
}

// LoadDir reads every *.yml / *.yaml file beneath dir and returns the
// flattened, defaulted source list. Files are processed in lexical order and
// a later source overrides an earlier one with the same key, keeping the
// earlier position. Invalid entries are reported and skipped; they never
// abort loading.
func LoadDir(dir string) ([]SourceConfig, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read sources dir %s: %w", dir, err)}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var (
		configs []SourceConfig
		errs    []error
		byKey   = make(map[string]int)
	)

	for _, path := range files {
		loaded, err := loadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for i := range loaded {
			cfg := loaded[i]
			if strings.TrimSpace(cfg.Key) == "" {
				stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				cfg.Key = fmt.Sprintf("%s:%s", strings.ToLower(strings.TrimSpace(cfg.Type)), stem)
			}
			cfg.applyDefaults()

			if err := cfg.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s entry %d: %w", path, i+1, err))
				continue
			}

			if pos, seen := byKey[cfg.Key]; seen {
				configs[pos] = cfg
				continue
			}
			byKey[cfg.Key] = len(configs)
			configs = append(configs, cfg)
		}
	}

	return configs, errs
}

// loadFile parses one configuration unit.
func loadFile(path string) ([]SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file configFile
	if err := yaml.Unmarshal(raw, &file); err == nil && len(file.CustomSources) > 0 {
		return file.CustomSources, nil
	}

	var single SourceConfig
	if err := yaml.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(single.Type) == "" && strings.TrimSpace(single.Endpoint) == "" {
		return nil, nil
	}
	return []SourceConfig{single}, nil
}
