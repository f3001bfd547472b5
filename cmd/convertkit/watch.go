// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/report"
	"github.com/pdiddy/convertkit/internal/watch"
	"github.com/pdiddy/convertkit/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Convert matching files as they are created or changed",
	Long: `Watch monitors root (default: the current directory) and its
subdirectories and converts every file with the --from extension once it
has stopped changing. It runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("from", "", "source format tag (required)")
	watchCmd.Flags().String("to", "", "destination format tag (required)")
	watchCmd.Flags().String("collision", "", "existing destination policy: overwrite, skip, or suffix")
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "quiet period before a changed file is converted")
	_ = watchCmd.MarkFlagRequired("from")
	_ = watchCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	settle, _ := cmd.Flags().GetDuration("settle")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	w, err := watch.New(s.driver, from, to, watch.WithSettle(settle), watch.WithLogger(s.logger))
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	out := report.New(cmd.OutOrStdout())
	return w.Run(cmd.Context(), root, func(src, dst string, err error) {
		if err != nil {
			out.Error(src, err)
			return
		}
		out.Outcome(types.Outcome{Source: src, Dest: dst, Status: types.OutcomeConverted})
	})
}
