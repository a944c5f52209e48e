package main

import (
	"context"

	"talent-match/internal/app"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	inputJSON bool
	targetID  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a profile without storing it",
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a profile and store it",
}

func init() {
	extractCandidate := &cobra.Command{
		Use:   "candidate",
		Short: "Extract a candidate profile from CV text or a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(inputFile)
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *app.Container) error {
				if inputJSON {
					p, err := c.ExtractionUC.ExtractCandidateProfileJSON(ctx, data)
					if err != nil {
						return err
					}
					return printJSON(p)
				}
				p, err := c.ExtractionUC.ExtractCandidateProfile(ctx, string(data))
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}
	extractJob := &cobra.Command{
		Use:   "job",
		Short: "Extract a job profile from a job description",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(inputFile)
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *app.Container) error {
				p, err := c.ExtractionUC.ExtractJobProfile(ctx, string(data))
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}

	parseCandidate := &cobra.Command{
		Use:   "candidate",
		Short: "Parse and store a candidate profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", targetID)
			if err != nil {
				return err
			}
			data, err := readInput(inputFile)
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *app.Container) error {
				if inputJSON {
					p, err := c.ExtractionUC.ParseCandidateJSON(ctx, id, data)
					if err != nil {
						return err
					}
					return printJSON(p)
				}
				p, err := c.ExtractionUC.ParseCandidate(ctx, id, string(data))
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}
	parseJob := &cobra.Command{
		Use:   "job",
		Short: "Parse and store a job profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", targetID)
			if err != nil {
				return err
			}
			data, err := readInput(inputFile)
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *app.Container) error {
				p, err := c.ExtractionUC.ParseJob(ctx, id, string(data))
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}

	for _, cmd := range []*cobra.Command{extractCandidate, extractJob, parseCandidate, parseJob} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "-", "input file, - for stdin")
	}
	for _, cmd := range []*cobra.Command{extractCandidate, parseCandidate} {
		cmd.Flags().BoolVar(&inputJSON, "json", false, "input is a structured JSON document")
	}
	for _, cmd := range []*cobra.Command{parseCandidate, parseJob} {
		cmd.Flags().StringVar(&targetID, "id", "", "profile id (uuid)")
		_ = cmd.MarkFlagRequired("id")
	}

	extractCmd.AddCommand(extractCandidate, extractJob)
	parseCmd.AddCommand(parseCandidate, parseJob)
	rootCmd.AddCommand(extractCmd, parseCmd)
}
