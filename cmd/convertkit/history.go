// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convertkit/internal/journal"
	"github.com/pdiddy/convertkit/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent batch runs from the journal",
	Long: `History lists the most recent batch conversions recorded in the run
journal (journal.path). Given a run ID it prints that run's per-file
outcomes instead. Recording is off when journal.path is empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	historyCmd.Flags().Bool("json", false, "shorthand for --format json")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = "json"
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("no journal configured: set journal.path or CONVERTKIT_JOURNAL_PATH")
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		return showRun(cmd, store, args[0], format)
	}

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return journal.WriteJSON(w, runs)
	case "yaml":
		return journal.WriteYAML(w, runs)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-14s  %-9s  %-7s  %-6s  %s\n",
		"Run", "Started", "Pair", "Converted", "Skipped", "Failed", "Root")
	fmt.Fprintln(w, strings.Repeat("-", 128))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-14s  %-9d  %-7d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.From+" -> "+r.To,
			r.Converted, r.Skipped, r.Failed, r.Root)
	}
	return nil
}

// showRun prints the per-file outcomes recorded for one run.
func showRun(cmd *cobra.Command, store *journal.Store, runID, format string) error {
	outcomes, err := store.Outcomes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		return fmt.Errorf("no outcomes recorded for run %q", runID)
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return journal.WriteJSON(w, outcomes)
	case "yaml":
		return journal.WriteYAML(w, outcomes)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	p := report.New(w)
	for _, o := range outcomes {
		p.Outcome(o)
	}
	return nil
}
