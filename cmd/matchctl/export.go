package main

import (
	"context"
	"fmt"
	"os"

	"talent-match/internal/app"
	"talent-match/internal/export"

	"github.com/spf13/cobra"
)

var (
	exportJobID string
	exportOut   string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a job's ranked matches to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID("job", exportJobID)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = fmt.Sprintf("matches-%s.xlsx", jobID)
		}

		return withContainer(func(ctx context.Context, c *app.Container) error {
			report, err := c.ReportUC.BuildMatchReport(ctx, jobID, exportLimit)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteExcel(f, report); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("wrote %d rows to %s\n", len(report.Rows), out)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportJobID, "job", "", "job id")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default matches-<job>.xlsx)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max rows")
	_ = exportCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(exportCmd)
}
