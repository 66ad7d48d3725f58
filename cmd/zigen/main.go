// Package main provides the CLI entrypoint for zigen.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/zigen/internal/catalog"
	"github.com/verte-zerg/zigen/internal/config"
	"github.com/verte-zerg/zigen/internal/generator"
	"github.com/verte-zerg/zigen/internal/logging"
	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/scheduler"
	"github.com/verte-zerg/zigen/internal/stats"
	"github.com/verte-zerg/zigen/internal/store"
	"github.com/verte-zerg/zigen/internal/tui"
)

const (
	defaultRadicalFile   = "res/yujoy-3.8.0.txt"
	defaultFrequencyFile = "res/counts.txt"
	defaultPenalty       = 4
	defaultMinPractice   = 2
	defaultMode          = "dual"
	defaultOrder         = "random"
	defaultInterface     = "normal"
	defaultWeakTop       = 8
	defaultWeakWindow    = 20
	defaultWeakBonus     = 2
	defaultCurveWindow   = 20

	maxPenalty = 10
)

var (
	practiceRadicals    string
	practiceFrequency   string
	practicePenalty     int
	practiceMinPractice int
	practiceMode        string
	practiceOrder       string
	practiceInterface   string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakWindow  int
	practiceWeakBonus   int
	practiceLogFile     string
	practiceResume      bool
	practiceSeed        int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zigen",
		Short:         "Drill input-method radical codes in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	addCatalogFlags(rootCmd)
	flags.IntVar(&practicePenalty, "penalty", defaultPenalty, "extra repetitions after a wrong answer (1-10)")
	flags.IntVar(&practiceMinPractice, "min-practice", defaultMinPractice, "repetitions every radical starts with (1-5)")
	flags.StringVar(&practiceMode, "mode", defaultMode, "practice mode: big (first key only) or dual (full code)")
	flags.StringVar(&practiceInterface, "interface", defaultInterface, "interface: normal or pretend")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "give weak radicals extra repetitions")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak radicals to focus on")
	flags.IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak radicals")
	flags.IntVar(&practiceWeakBonus, "weak-bonus", defaultWeakBonus, "extra repetitions for weak radicals")
	flags.StringVar(&practiceLogFile, "log-file", "", "write a debug log to this file")
	flags.BoolVar(&practiceResume, "resume", false, "continue the saved session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// addCatalogFlags registers the flags shared by commands that load a catalog.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceRadicals, "radicals", defaultRadicalFile, "radical code table")
	cmd.Flags().StringVar(&practiceFrequency, "frequency", defaultFrequencyFile, "radical frequency table")
	cmd.Flags().StringVar(&practiceOrder, "order", defaultOrder, "order: alpha, freq, keyboard or random")
	cmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 picks one from the clock)")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg.Practice)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log, err := logging.New(practiceLogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer log.Sync()

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	gen := newGenerator()
	ctx := context.Background()
	opts := tui.Options{
		Store: st,
		Gen:   gen,
	}
	if practiceResume {
		snap, err := st.LoadSnapshot(ctx)
		if errors.Is(err, store.ErrNoSnapshot) {
			return fmt.Errorf("no saved session to resume")
		}
		if err != nil {
			return fmt.Errorf("failed to load saved session: %w", err)
		}
		sched, err := scheduler.Restore(snap, gen)
		if err != nil {
			return fmt.Errorf("failed to restore saved session: %w", err)
		}
		// The saved session keeps its drill settings; only the look can change.
		snap.Config.Interface = cfg.Interface
		cfg = snap.Config
		opts.Scheduler = sched
		opts.SessionID = snap.SessionID
		opts.StartedAt = snap.StartedAt
	} else {
		if _, err := st.LoadSnapshot(ctx); err == nil {
			logErrln("a saved session exists and will be replaced; use --resume to continue it")
		}
		radicals, err := loadCatalog(cfg, gen)
		if err != nil {
			return err
		}
		sched := scheduler.New(radicals, cfg, gen)
		if cfg.FocusWeak {
			applyWeakFocus(ctx, st, sched, cfg, log)
		}
		opts.Scheduler = sched
		opts.SessionID = uuid.NewString()
	}
	opts.Config = cfg
	opts.RadicalFile = cfg.RadicalFile
	opts.Log = log.With("session", opts.SessionID)
	opts.Log.Info("session started",
		"resume", practiceResume,
		"radicals", len(opts.Scheduler.Radicals()),
		"mode", cfg.PracticeMode.String(),
		"order", cfg.Order.String(),
	)

	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if !m.Completed() {
		logErrln("progress saved; continue with: zigen --resume")
	}
	return nil
}

func applyFileConfig(cmd *cobra.Command, pc config.PracticeConfig) {
	applyStringConfig(cmd, "radicals", &practiceRadicals, pc.RadicalFile)
	applyStringConfig(cmd, "frequency", &practiceFrequency, pc.FrequencyFile)
	applyIntConfig(cmd, "penalty", &practicePenalty, pc.Penalty)
	applyIntConfig(cmd, "min-practice", &practiceMinPractice, pc.MinPractice)
	applyStringConfig(cmd, "mode", &practiceMode, pc.Mode)
	applyStringConfig(cmd, "order", &practiceOrder, pc.Order)
	applyStringConfig(cmd, "interface", &practiceInterface, pc.Interface)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, pc.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, pc.WeakTop)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, pc.WeakWindow)
	applyIntConfig(cmd, "weak-bonus", &practiceWeakBonus, pc.WeakBonus)
	applyStringConfig(cmd, "log-file", &practiceLogFile, pc.LogFile)
}

func buildConfig() (model.Config, error) {
	mode, err := model.ParsePracticeMode(practiceMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	order, err := model.ParseOrder(practiceOrder)
	if err != nil {
		return model.Config{}, fmt.Errorf("--order: %w", err)
	}
	iface, err := model.ParseInterfaceMode(practiceInterface)
	if err != nil {
		return model.Config{}, fmt.Errorf("--interface: %w", err)
	}
	return model.Config{
		RadicalFile:   practiceRadicals,
		FrequencyFile: practiceFrequency,
		Penalty:       practicePenalty,
		MinPractice:   practiceMinPractice,
		PracticeMode:  mode,
		Order:         order,
		Interface:     iface,
		FocusWeak:     practiceFocusWeak,
		WeakTop:       practiceWeakTop,
		WeakWindow:    practiceWeakWindow,
		WeakBonus:     practiceWeakBonus,
	}, nil
}

func newGenerator() *generator.Generator {
	if practiceSeed != 0 {
		return generator.NewSeeded(practiceSeed)
	}
	return generator.New()
}

// loadCatalog resolves, loads and arranges the radical catalog.
func loadCatalog(cfg model.Config, gen *generator.Generator) ([]model.Radical, error) {
	codePath, err := resolveResource("radicals", cfg.RadicalFile)
	if err != nil {
		return nil, err
	}
	freqPath, err := resolveResource("frequency", cfg.FrequencyFile)
	if err != nil {
		return nil, err
	}
	radicals, err := catalog.Load(freqPath, codePath)
	if err != nil {
		return nil, err
	}
	if len(radicals) == 0 {
		return nil, fmt.Errorf("no radicals found in %s", codePath)
	}
	catalog.Arrange(radicals, cfg.Order, gen)
	return radicals, nil
}

func resolveResource(flag, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("--%s must not be empty", flag)
	}
	if path, ok := config.ResolveResource(name); ok {
		return path, nil
	}
	lines := []string{fmt.Sprintf("%s file %q not found; tried:", flag, name)}
	for _, candidate := range config.ResourceCandidates(name) {
		lines = append(lines, "  "+candidate)
	}
	return "", errors.New(strings.Join(lines, "\n"))
}

func applyWeakFocus(ctx context.Context, st *store.Store, sched *scheduler.Scheduler, cfg model.Config, log *logging.Logger) {
	aggs, err := st.GetWeakRadicals(ctx, cfg.WeakWindow)
	if err != nil {
		logErrf("failed to load weak radicals: %v\n", err)
		log.Warn("weak focus skipped", "error", err)
		return
	}
	weak := stats.SelectWeakRadicals(aggs, cfg.WeakTop)
	if len(weak) == 0 {
		logErrln("no stats available for weak-radical focus yet; using normal repetitions")
		log.Warn("weak focus skipped", "reason", "no answered radicals", "window", cfg.WeakWindow)
		return
	}
	boosted := sched.Boost(weak, cfg.WeakBonus)
	log.Debug("weak focus applied", "weak", len(weak), "boosted", boosted)
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# zigen configuration
# Uncomment a value to enable it. CLI flags override config values.
# Relative resource paths are looked up next to the executable, then in the
# working directory, then in %s.

[practice]
# radicals = %q      # Code table; other schemes: res/yulight-3.8.0.txt, res/yustar-3.8.0.txt
# frequency = %q             # Frequency table
# penalty = %d                          # Extra repetitions after a wrong answer (1-10)
# min-practice = %d                     # Repetitions every radical starts with (1-5)
# mode = %q                        # big (first key only) or dual (full code)
# order = %q                     # alpha, freq, keyboard or random
# interface = %q                 # normal or pretend
# focus-weak = false                    # Give weak radicals extra repetitions
# weak-top = %d                         # Number of weak radicals to focus on
# weak-window = %d                     # Number of recent sessions to compute weak radicals
# weak-bonus = %d                       # Extra repetitions for weak radicals
# log-file = ""                         # Debug log path
`,
		config.DefaultDataDir(),
		defaultRadicalFile,
		defaultFrequencyFile,
		defaultPenalty,
		defaultMinPractice,
		defaultMode,
		defaultOrder,
		defaultInterface,
		defaultWeakTop,
		defaultWeakWindow,
		defaultWeakBonus,
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.RadicalFile) == "" {
		return fmt.Errorf("--radicals must not be empty")
	}
	if strings.TrimSpace(cfg.FrequencyFile) == "" {
		return fmt.Errorf("--frequency must not be empty")
	}
	if cfg.Penalty < 1 || cfg.Penalty > maxPenalty {
		return fmt.Errorf("--penalty must be between 1 and %d", maxPenalty)
	}
	if cfg.MinPractice < scheduler.MinPracticeFloor || cfg.MinPractice > scheduler.MinPracticeCeil {
		return fmt.Errorf("--min-practice must be between %d and %d", scheduler.MinPracticeFloor, scheduler.MinPracticeCeil)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.WeakBonus < 0 {
		return fmt.Errorf("--weak-bonus must be >= 0")
	}
	return nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
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
