// Package main provides the CLI entrypoint for miftah.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/obaydah/miftah/internal/config"
	"github.com/obaydah/miftah/internal/grapheme"
	"github.com/obaydah/miftah/internal/leaderboard"
	"github.com/obaydah/miftah/internal/model"
	"github.com/obaydah/miftah/internal/stats"
	"github.com/obaydah/miftah/internal/statsui"
	"github.com/obaydah/miftah/internal/store"
	"github.com/obaydah/miftah/internal/texts"
	"github.com/obaydah/miftah/internal/tui"
)

const (
	defaultLang     = "ar"
	defaultWords    = 60
	defaultDuration = 60
)

var (
	gameLang     string
	gameWords    int
	gameDuration int
	gameArticle  string

	historyLang  string
	historySince string
	historyLast  int

	debugLogs bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "miftah",
		Short:         "Arabic-first terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging()
		},
		RunE: runGameCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&gameLang, "lang", defaultLang, "language code")
	rootCmd.Flags().IntVar(&gameWords, "words", defaultWords, "words per article window")
	rootCmd.Flags().IntVar(&gameDuration, "duration", defaultDuration, "game duration in seconds")
	rootCmd.Flags().StringVar(&gameArticle, "article", "", "path to a custom article file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTopCmd())

	return rootCmd
}

func setupLogging() {
	level := slog.LevelWarn
	if debugLogs {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func runGameCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &gameLang, fileCfg.Game.Lang)
	applyIntConfig(cmd, "words", &gameWords, fileCfg.Game.Words)
	applyIntConfig(cmd, "duration", &gameDuration, fileCfg.Game.Duration)
	applyStringConfig(cmd, "article", &gameArticle, fileCfg.Game.Article)

	cfg := model.GameConfig{
		Lang:        gameLang,
		Words:       gameWords,
		Duration:    time.Duration(gameDuration) * time.Second,
		ArticlePath: gameArticle,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	articlePath := cfg.ArticlePath
	if articlePath == "" {
		articlePath = config.DefaultArticlePath(cfg.Lang)
	}
	article, err := texts.Load(cfg.Lang, articlePath)
	if err != nil {
		return articleLoadError(cfg.Lang, articlePath, err)
	}
	provider, err := texts.NewProvider(article)
	if err != nil {
		return fmt.Errorf("failed to prepare article: %w", err)
	}
	slog.Debug("article loaded", "lang", cfg.Lang, "pool", provider.Words(), "window", cfg.Words)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	lb := leaderboardClient(fileCfg)
	m := tui.NewModel(cfg, st, lb, provider, grapheme.Default(), slog.Default())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func leaderboardClient(fileCfg config.FileConfig) *leaderboard.Client {
	baseURL := ""
	if fileCfg.Server.BaseURL != nil {
		baseURL = strings.TrimSpace(*fileCfg.Server.BaseURL)
	}
	if baseURL == "" {
		return nil
	}
	token := strings.TrimSpace(os.Getenv("MIFTAH_TOKEN"))
	if token == "" && fileCfg.Server.Token != nil {
		token = strings.TrimSpace(*fileCfg.Server.Token)
	}
	return leaderboard.New(baseURL, token, slog.Default())
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
		Short: "List available article languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	set := map[string]struct{}{}
	for _, lang := range texts.Langs() {
		set[lang] = struct{}{}
	}
	entries, err := os.ReadDir(config.DefaultArticleDir())
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
				continue
			}
			set[strings.TrimSuffix(name, ".txt")] = struct{}{}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read article directory: %w", err)
	}

	langs := make([]string, 0, len(set))
	for lang := range set {
		langs = append(langs, lang)
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
		Short: "Browse stats and the leaderboard",
		RunE:  runStatsCmd,
	}
	addHistoryFlags(cmd)
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	m := statsui.NewModel(st, leaderboardClient(fileCfg), cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print local game history",
		RunE:  runHistoryCmd,
	}
	addHistoryFlags(cmd)
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	games, err := st.ListGames(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load games: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, games); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if len(games) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderTrend(out, games, 5, stats.TerminalWidth()); err != nil {
			return fmt.Errorf("failed to render trend: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderHistory(out, games); err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
	}
	return nil
}

func newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Print the server leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runTopCmd,
	}
}

func runTopCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lb := leaderboardClient(fileCfg)
	if lb == nil {
		return fmt.Errorf("no server configured (set server.base-url with: miftah config)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	entries, err := lb.Top(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderTop(out, entries); err != nil {
		return fmt.Errorf("failed to render leaderboard: %w", err)
	}
	if lb.Authenticated() {
		best, err := lb.Best(ctx)
		if err != nil {
			slog.Warn("failed to fetch personal best", "error", err)
		} else if _, err := fmt.Fprintf(out, "\nYour server best: %d WPM\n", best); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
}

func historyConfig() (model.HistoryConfig, error) {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	return model.HistoryConfig{
		Lang:  historyLang,
		Since: sinceTime,
		Last:  historyLast,
	}, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("failed to close db", "error", err)
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# miftah configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# lang = %q          # Article language (default %q)
# words = %d           # Words per article window
# duration = %d        # Game duration in seconds
# article = ""         # Path to a custom article file

[server]
# base-url = ""        # Scoreboard server, e.g. https://example.com/api
# token = ""           # Bearer token (or set MIFTAH_TOKEN)
`,
		defaultLang,
		defaultLang,
		defaultWords,
		defaultDuration,
	)
}

func validateConfig(cfg model.GameConfig) error {
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	return nil
}

func articleLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load article: %v", err),
		fmt.Sprintf("looked for a custom article at: %s", path),
		fmt.Sprintf("embedded languages: %s", strings.Join(texts.Langs(), ", ")),
		"List all: miftah langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
