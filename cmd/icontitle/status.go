package main

import (
	"github.com/spf13/cobra"

	"icontitle/internal/orchestrator"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report match counts and whether the output is current, without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := newOutput(cmd, opts)

			result, err := orchestrator.Status(cfg)
			if err != nil {
				return err
			}

			for _, a := range result.Summary.Assignments {
				out.Assignment(a.Category, a.Name, a.Title)
			}
			for _, line := range result.Summary.CategoryLines() {
				out.Info("%s", line)
			}
			out.Info("%s", result.Summary.PrintSummary())
			out.Info("%s", result.OutputMessage())
			return nil
		},
	}
}
