// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/journal"
	"github.com/pdiddy/convertkit/internal/report"
	"github.com/pdiddy/convertkit/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Convert one file or every matching file under a directory",
	Long: `Convert finds every file under root (default: the current directory)
whose extension matches --from and writes a converted copy next to it with
the --to extension. One failing file never stops the others; the command
exits non-zero if any file failed.

With --file, only that file is converted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	addBatchFlags(convertCmd)
	convertCmd.Flags().String("file", "", "convert a single file instead of a directory tree")
	convertCmd.Flags().Bool("json", false, "output the batch result as JSON")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	file, _ := cmd.Flags().GetString("file")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := report.New(cmd.OutOrStdout())

	if file != "" {
		if len(args) > 0 {
			return fmt.Errorf("--file and a root directory are mutually exclusive")
		}
		dst, status, err := s.driver.ConvertFile(cmd.Context(), file, from, to)
		if err != nil {
			out.Error(file, err)
			return &exitError{code: 1}
		}
		out.Outcome(types.Outcome{Source: file, Dest: dst, Status: status})
		return nil
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	started := time.Now()
	res, runErr := s.driver.ConvertAll(cmd.Context(), root, from, to)
	finished := time.Now()
	if runErr != nil && res.Key.From == "" {
		return runErr
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		out.Batch(res, finished.Sub(started))
	}

	if err := recordRun(cmd, s, res, started, finished); err != nil {
		s.logger.Warn("journal not updated", "error", err)
	}

	if runErr != nil {
		return runErr
	}
	if res.HasFailures() {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d file(s) failed", res.Failed(), res.Total())}
	}
	return nil
}

func recordRun(cmd *cobra.Command, s *session, res types.BatchResult, started, finished time.Time) error {
	if s.cfg.Journal.Path == "" {
		return nil
	}
	store, err := journal.Open(s.cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(context.WithoutCancel(cmd.Context()), res, started, finished)
	if err != nil {
		return err
	}
	s.logger.Debug("run recorded", "id", id, "journal", s.cfg.Journal.Path)
	return nil
}
