package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ReDian-Labs/redian-harvester/internal/logger"
	"github.com/ReDian-Labs/redian-harvester/internal/match"
	"github.com/ReDian-Labs/redian-harvester/internal/pipeline"
	"github.com/ReDian-Labs/redian-harvester/pkg/httpclient"
	"github.com/ReDian-Labs/redian-harvester/pkg/sources"
)

// advMatchEnv disables the advanced matching stack entirely; matching then
// falls back to plain substring containment.
const advMatchEnv = "ADV_MATCH"

type options struct {
	sourcesDir   string
	keywordsFile string
	configFile   string
	timeout      time.Duration
	workers      int
	debug        bool
}

func rootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Harvest news items from configured sources and filter them by keyword rules",
		Long: "harvester loads custom source definitions (REST, RSS, HTML), fetches and\n" +
			"extracts their items in parallel, and filters the aggregate through layered\n" +
			"exclude / must / any keyword matching.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.sourcesDir, "sources-dir", "config/custom.d", "directory containing source configuration yaml files")
	cmd.Flags().StringVar(&opts.keywordsFile, "keywords-file", "config/keywords.txt", "keyword rules file, one pattern per line")
	cmd.Flags().StringVar(&opts.configFile, "config", "config/config.yaml", "main configuration file with the match section")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request fetch timeout")
	cmd.Flags().IntVar(&opts.workers, "workers", 10, "maximum concurrent source fetches")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func run(opts options) error {
	_ = godotenv.Load()

	log, err := logger.New(opts.debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	matchCfg := loadMatchConfig(opts.configFile, log)

	configs, loadErrs := sources.LoadDir(opts.sourcesDir)
	for _, e := range loadErrs {
		log.WarnObj("source configuration skipped", "config_error", map[string]any{
			"error": e.Error(),
		})
	}
	if len(configs) == 0 {
		return fmt.Errorf("no usable sources in %s", opts.sourcesDir)
	}

	rules, err := loadRules(opts.keywordsFile)
	if err != nil {
		return err
	}

	// One converter and one scorer serve the matcher and the deduper so
	// title keys agree everywhere.
	converter := match.NewScriptConverter(log)
	norm := match.NewNormalizer(matchCfg.Normalize, converter, log)

	sim := match.NopSimilarity()
	if matchCfg.Fuzzy.Enabled {
		sim = match.NewSimilarity()
	}

	matcher := match.NewMatcher(matchCfg, norm, sim, log)
	engine := pipeline.NewEngine(matcher, log)
	deduper := pipeline.NewDeduper(norm, sim, matchCfg.Fuzzy.Enabled, matchCfg.Fuzzy.Threshold)

	client := httpclient.NewRestyClient(opts.timeout)
	registry := sources.NewRegistry(sources.DefaultFetcherRegistry(client), sources.NewLimiter(configs), log)
	registry.SetWorkers(opts.workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, reports := registry.Run(ctx, configs)
	items = deduper.Run(items)
	accepted := engine.Run(items, rules)

	failures, infos := pipeline.Failures(reports)
	for _, r := range failures {
		log.Warn(r.String())
	}
	for _, r := range infos {
		log.InfoObj("source skipped", "source_skipped", map[string]any{
			"source_key": r.SourceKey,
			"cause":      r.Err.Error(),
		})
	}

	for _, m := range accepted {
		line := fmt.Sprintf("[%s] %s  %s", m.Item.SourceKey, m.Item.Title, m.Item.URL)
		if m.Result.MatchedRule != "" {
			line += fmt.Sprintf("  (%s:%s)", m.Result.Strategy, m.Result.MatchedRule)
		}
		fmt.Println(line)
	}

	log.InfoObj("harvest complete", "harvest_summary", map[string]any{
		"sources":  len(configs),
		"ingested": len(items),
		"accepted": len(accepted),
		"failures": len(failures),
		"skipped":  len(infos),
	})
	return nil
}

// loadMatchConfig reads the match section of the main configuration file.
// A missing or unreadable file yields the defaults; ADV_MATCH=disable (or
// off/false/0/none) collapses everything to plain substring matching.
func loadMatchConfig(path string, log logger.Logger) match.Config {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(advMatchEnv))) {
	case "disable", "disabled", "off", "false", "0", "none":
		log.Info("advanced matching disabled via " + advMatchEnv)
		return match.BasicConfig()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("harvester")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("match.normalize.script_unify", true)
	v.SetDefault("match.normalize.width_unify", true)
	v.SetDefault("match.fuzzy.enabled", false)
	v.SetDefault("match.fuzzy.threshold", 90)
	v.SetDefault("match.regex_enabled", false)

	if err := v.ReadInConfig(); err != nil {
		log.InfoObj("match config not loaded, using defaults", "config_fallback", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}

	cfg := match.DefaultConfig()
	if err := v.UnmarshalKey("match", &cfg); err != nil {
		log.WarnObj("match config unmarshal failed, using defaults", "config_fallback", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return match.DefaultConfig()
	}
	return cfg
}

// loadRules reads and classifies the keyword file.
func loadRules(path string) (match.Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return match.Rules{}, fmt.Errorf("read keywords file %s: %w", path, err)
	}
	return match.Partition(match.ClassifyText(string(raw))), nil
}
