package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/zigen/internal/config"
	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/stats"
	"github.com/verte-zerg/zigen/internal/statsui"
	"github.com/verte-zerg/zigen/internal/store"
)

var (
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsRadicals    string
	statsPlain       bool

	exportFormat string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsRadicals, "radical", "", "radicals for per-radical curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseSince(statsSince)
	if err != nil {
		return err
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Radicals:    statsRadicals,
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderPlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurvesWithSize(w, report.Sessions, cfg.CurveWindow, 0, 0, false); err != nil {
		return err
	}
	if err := stats.RenderRadicalTable(w, report.RadicalAggsWindow); err != nil {
		return err
	}
	selection := splitRadicals(cfg.Radicals)
	if len(selection) == 0 {
		selection = stats.TopRadicalsByAttempts(report.RadicalAggsAll, 3)
	}
	perSession, err := st.ListRadicalStatsForSessions(ctx, stats.SessionIDs(report.Sessions), selection)
	if err != nil {
		return fmt.Errorf("failed to load radical curves: %w", err)
	}
	return stats.RenderRadicalCurvesWithSize(w, report.Sessions, perSession, selection, cfg.CurveWindow, 0, 0, false)
}

// splitRadicals splits on commas when present, otherwise into single glyphs.
func splitRadicals(input string) []string {
	var out []string
	if strings.Contains(input, ",") {
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	for _, r := range input {
		if r != ' ' {
			out = append(out, string(r))
		}
	}
	return out
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the radical catalog in practice order",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
	addCatalogFlags(cmd)
	return cmd
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "radicals", &practiceRadicals, fileCfg.Practice.RadicalFile)
	applyStringConfig(cmd, "frequency", &practiceFrequency, fileCfg.Practice.FrequencyFile)
	applyStringConfig(cmd, "order", &practiceOrder, fileCfg.Practice.Order)

	order, err := model.ParseOrder(practiceOrder)
	if err != nil {
		return fmt.Errorf("--order: %w", err)
	}
	cfg := model.Config{
		RadicalFile:   practiceRadicals,
		FrequencyFile: practiceFrequency,
		Order:         order,
	}
	radicals, err := loadCatalog(cfg, newGenerator())
	if err != nil {
		return err
	}
	return stats.RenderCatalog(cmd.OutOrStdout(), radicals)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved session",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("--format must be json or yaml")
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := st.LoadSnapshot(context.Background())
	if errors.Is(err, store.ErrNoSnapshot) {
		return fmt.Errorf("no saved session")
	}
	if err != nil {
		return fmt.Errorf("failed to load saved session: %w", err)
	}
	return writeSnapshot(cmd.OutOrStdout(), snap, format)
}

func writeSnapshot(w io.Writer, snap model.Snapshot, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
