// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/report"
)

var formatsCmd = &cobra.Command{
	Use:   "formats [source]",
	Short: "List supported conversions",
	Long: `Formats lists every source format with the destinations it converts to.
Given a source tag, only that format's destinations are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		reg := s.driver.Registry()
		out := report.New(cmd.OutOrStdout())

		if len(args) == 1 {
			tag, err := convert.Normalize(args[0])
			if err != nil {
				return err
			}
			out.Targets(tag, reg.ListTargets(tag))
			return nil
		}
		for _, src := range reg.Sources() {
			out.Targets(src, reg.ListTargets(src))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
