// Package main provides the CLI entrypoint for plately.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mgorbunov/plately/internal/config"
	"github.com/mgorbunov/plately/internal/dataset"
	"github.com/mgorbunov/plately/internal/game"
	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/stats"
	"github.com/mgorbunov/plately/internal/statsui"
	"github.com/mgorbunov/plately/internal/store"
	"github.com/mgorbunov/plately/internal/tui"
	"github.com/mgorbunov/plately/internal/wordfreq"
)

const (
	defaultLang          = "en"
	defaultMode          = "live"
	defaultRoundSeconds  = 90
	defaultMinWordLen    = 4
	defaultHintDelay     = 15
	defaultHintInterval  = 20
	defaultStatsLast     = 20
	defaultDatasetSize   = 50000
	defaultMinSolutions  = 3
	defaultEnsembleLimit = 25
)

var (
	playLang         string
	playMode         string
	playRoundSec     int
	playMinWordLen   int
	playHintDelay    int
	playHintInterval int

	statsLast  int
	statsPlain bool

	datasetLang          string
	datasetSize          int
	datasetForce         bool
	datasetMinSolutions  int
	datasetEnsembleLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "plately",
		Short:         "TUI word-finding puzzle over three-letter plates",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "scoring mode: live or ensemble")
	rootCmd.Flags().IntVar(&playRoundSec, "round-seconds", defaultRoundSeconds, "seconds per round")
	rootCmd.Flags().IntVar(&playMinWordLen, "min-word-length", defaultMinWordLen, "minimum accepted word length")
	rootCmd.Flags().IntVar(&playHintDelay, "hint-delay", defaultHintDelay, "seconds before the first hint")
	rootCmd.Flags().IntVar(&playHintInterval, "hint-interval", defaultHintInterval, "seconds between hints")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDatasetCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &playLang, fileCfg.Game.Lang)
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Game.Mode)
	applyIntConfig(cmd, "round-seconds", &playRoundSec, fileCfg.Game.RoundSeconds)
	applyIntConfig(cmd, "min-word-length", &playMinWordLen, fileCfg.Game.MinWordLen)
	applyIntConfig(cmd, "hint-delay", &playHintDelay, fileCfg.Game.HintDelaySec)
	applyIntConfig(cmd, "hint-interval", &playHintInterval, fileCfg.Game.HintEverySec)

	mode, err := parseMode(playMode)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Lang:         playLang,
		Mode:         mode,
		RoundSeconds: playRoundSec,
		MinWordLen:   playMinWordLen,
		HintDelaySec: playHintDelay,
		HintEverySec: playHintInterval,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	datasetDir := config.DefaultDatasetDir()
	wordsPath := filepath.Join(datasetDir, cfg.Lang, "words.json")
	if _, err := os.Stat(wordsPath); err != nil {
		return datasetLoadError(cfg.Lang, wordsPath, err)
	}
	gate := dataset.LoadAsync(datasetDir, cfg.Lang)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	lifetime, err := st.LoadLifetimeStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load lifetime stats: %w", err)
	}

	engine := game.New(cfg, gate, st, lifetime, nil)
	program := tea.NewProgram(tui.NewModel(cfg, engine), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List built dataset languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	datasetDir := config.DefaultDatasetDir()
	entries, err := os.ReadDir(datasetDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No datasets found. Build one with: plately dataset --lang <code>\n")
			return fmt.Errorf("dataset directory does not exist")
		}
		return fmt.Errorf("failed to read dataset directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		wordsPath := filepath.Join(datasetDir, entry.Name(), "words.json")
		if _, err := os.Stat(wordsPath); err != nil {
			continue
		}
		langs = append(langs, entry.Name())
	}
	if len(langs) == 0 {
		logErrf("No datasets found. Build one with: plately dataset --lang <code>\n")
		return fmt.Errorf("no datasets found")
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", defaultStatsLast, "limit tables and curves to the last N games")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print to stdout instead of opening the TUI")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{Last: statsLast}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printStats(st, cfg)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := os.Stdout
	if err := stats.RenderSummary(out, report.Stats); err != nil {
		return err
	}
	if err := stats.RenderScoreCurve(out, report.Stats, 5, stats.ReportWidth()); err != nil {
		return err
	}
	if err := stats.RenderPlateBests(out, report.Stats, cfg.Last); err != nil {
		return err
	}
	return stats.RenderRareWords(out, report.Stats)
}

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Build game datasets from the wordfreq corpus",
		RunE:  runDatasetCmd,
	}
	cmd.Flags().StringVar(&datasetLang, "lang", defaultLang, "language code")
	cmd.Flags().IntVar(&datasetSize, "size", defaultDatasetSize, "dictionary size")
	cmd.Flags().BoolVar(&datasetForce, "force", false, "overwrite an existing dataset")
	cmd.Flags().IntVar(&datasetMinSolutions, "min-solutions", defaultMinSolutions, "drop plates with fewer findable words")
	cmd.Flags().IntVar(&datasetEnsembleLimit, "ensemble-limit", defaultEnsembleLimit, "largest solution count to enumerate for ensemble mode")
	return cmd
}

func runDatasetCmd(_ *cobra.Command, _ []string) error {
	if datasetSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	lang := strings.TrimSpace(strings.ToLower(datasetLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}

	outDir := filepath.Join(config.DefaultDatasetDir(), lang)
	if !datasetForce {
		if _, err := os.Stat(filepath.Join(outDir, "words.json")); err == nil {
			return fmt.Errorf("dataset already exists: %s (use --force to overwrite)", outDir)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dataset: %w", err)
		}
	}

	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(context.Background(), config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}

	logErrf("Extracting %s dictionary...\n", lang)
	entries, err := wordfreq.ExtractEntries(wheel.Path, lang, "large", datasetSize)
	if err != nil {
		available, langErr := wordfreq.AvailableLanguages(wheel.Path)
		if langErr == nil {
			return fmt.Errorf("failed to extract %s dictionary (available: %s): %w",
				lang, strings.Join(available, ", "), err)
		}
		return fmt.Errorf("failed to extract %s dictionary: %w", lang, err)
	}

	words := make([]dataset.SourceWord, len(entries))
	for i, e := range entries {
		words[i] = dataset.SourceWord{Text: e.Word, Frequency: e.Frequency}
	}

	logErrln("Deriving plates...")
	res, err := dataset.Build(config.DefaultDatasetDir(), lang, words, dataset.BuildOptions{
		MinSolutions:  datasetMinSolutions,
		EnsembleLimit: datasetEnsembleLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to build dataset: %w", err)
	}
	if err := wordfreq.WriteAttribution(wheel.Path, res.Dir); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}

	logErrf("Wrote %s: %d words, %d plates (%d with ensemble maps)\n",
		res.Dir, res.Words, res.Plates, res.EnsemblePlates)
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func parseMode(s string) (model.GameMode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "live", "":
		return model.ModeLive, nil
	case "ensemble":
		return model.ModeEnsemble, nil
	default:
		return model.ModeLive, fmt.Errorf("--mode must be live or ensemble")
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.RoundSeconds <= 0 {
		return fmt.Errorf("--round-seconds must be > 0")
	}
	if cfg.MinWordLen < 1 {
		return fmt.Errorf("--min-word-length must be >= 1")
	}
	if cfg.HintDelaySec < 1 {
		return fmt.Errorf("--hint-delay must be >= 1")
	}
	if cfg.HintEverySec < 1 {
		return fmt.Errorf("--hint-interval must be >= 1")
	}
	return nil
}

func datasetLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to find dataset: %v", err),
		fmt.Sprintf("expected dataset at: %s", path),
		fmt.Sprintf("language %q not built", lang),
		"Run: plately langs",
		fmt.Sprintf("Build: plately dataset --lang %s", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# plately configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# lang = "en"             # Language code (default %q)
# mode = "live"           # Scoring mode: live or ensemble
# round-seconds = %d      # Seconds per round
# min-word-length = %d    # Minimum accepted word length
# hint-delay = %d         # Seconds before the first hint
# hint-interval = %d      # Seconds between hints
`,
		defaultLang,
		defaultRoundSeconds,
		defaultMinWordLen,
		defaultHintDelay,
		defaultHintInterval,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
