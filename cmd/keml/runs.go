package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		runs, closeStore, err := initRunService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := runs.List(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}
		return printRuns(cmd.OutOrStdout(), list)
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func printRuns(w io.Writer, runs []domain.AnalysisRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tINFOS\tARGS\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Title, r.InformationCount, r.ArgumentCount, r.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
