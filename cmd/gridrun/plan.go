package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gridrun/internal/config"
	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
)

func newPlanCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the expanded job list without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ParseConfig(configPath)
			if err != nil {
				return err
			}

			jobs, err := matrix.Expand(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d job(s)\n", cfg.Name, len(jobs))
			for _, job := range jobs {
				fmt.Fprintln(out, formatJob(cfg.Matrix.AxisNames(), job))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func formatJob(axisNames []string, job matrix.JobSpec) string {
	var b strings.Builder

	values := make([]string, 0, len(axisNames))
	for _, name := range axisNames {
		if value, ok := job.Values[name]; ok {
			values = append(values, fmt.Sprintf("%s=%s", name, value))
		}
	}

	fmt.Fprintf(&b, "job %s [%s]", job.ID, strings.Join(values, " "))
	if job.Tolerant {
		b.WriteString(" (allowed to fail)")
	}
	for _, step := range job.Steps {
		fmt.Fprintf(&b, "\n  %s: %s", step.ID, step.Command)
	}

	return b.String()
}
