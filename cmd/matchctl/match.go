package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"talent-match/internal/app"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pipeline"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	matchJobID        string
	matchCandidateID  string
	matchCandidateIDs []string
	matchLimit        int
	listLimit         int
	matchOffset       int
	matchMinScore     float64
	matchQualified    bool
	matchLocation     string
	matchJobLimit     int
	cleanupOlderThan  time.Duration
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run matching and inspect stored scores",
}

var matchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Score candidates against one job",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID("job", matchJobID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(matchCandidateIDs))
		for _, s := range matchCandidateIDs {
			id, err := parseID("candidates", strings.TrimSpace(s))
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		return withContainer(func(ctx context.Context, c *app.Container) error {
			res, err := c.MatchingUC.RunMatching(ctx, jobID, usecase.RunMatchingParams{CandidateIDs: ids, Limit: matchLimit})
			if err != nil {
				return err
			}
			fmt.Printf("job %s: %d scored, %d qualified, %d failed\n",
				res.JobID, res.TotalCandidates, res.QualifiedCandidates, res.FailedCandidates)
			rows := make([]matching.MatchScore, 0, len(res.Matches))
			for _, m := range res.Matches {
				rows = append(rows, m.MatchScore)
			}
			return printScores(rows)
		})
	},
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scores for a job or a candidate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (matchJobID == "") == (matchCandidateID == "") {
			return fmt.Errorf("exactly one of --job or --candidate is required")
		}
		return withContainer(func(ctx context.Context, c *app.Container) error {
			if matchJobID != "" {
				jobID, err := parseID("job", matchJobID)
				if err != nil {
					return err
				}
				rows, err := c.QueryUC.ListMatchesForJob(ctx, jobID, usecase.JobMatchFilter{
					MinScore: matchMinScore, QualifiedOnly: matchQualified, Limit: listLimit, Offset: matchOffset,
				})
				if err != nil {
					return err
				}
				return printScores(rows)
			}

			candID, err := parseID("candidate", matchCandidateID)
			if err != nil {
				return err
			}
			rows, err := c.QueryUC.ListMatchesForCandidate(ctx, candID, usecase.CandidateMatchFilter{
				MinScore: matchMinScore, Location: matchLocation, QualifiedOnly: matchQualified, Limit: listLimit, Offset: matchOffset,
			})
			if err != nil {
				return err
			}
			return printScores(rows)
		})
	},
}

var matchStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show score statistics for a job",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID("job", matchJobID)
		if err != nil {
			return err
		}
		return withContainer(func(ctx context.Context, c *app.Container) error {
			stats, err := c.QueryUC.GetMatchingStats(ctx, jobID)
			if err != nil {
				return err
			}
			return printJSON(stats)
		})
	},
}

var matchAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Re-score every parsed job",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			sum, err := c.Rematch.Run(ctx, pipeline.Params{JobLimit: matchJobLimit, CandidateLimit: matchLimit})
			if err != nil {
				return err
			}
			return printJSON(sum)
		})
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete scores not refreshed within --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			n, err := c.QueryUC.CleanupStaleScores(ctx, cleanupOlderThan)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d scores older than %s\n", n, cleanupOlderThan)
			return nil
		})
	},
}

func init() {
	matchRunCmd.Flags().StringVar(&matchJobID, "job", "", "job id")
	matchRunCmd.Flags().StringSliceVar(&matchCandidateIDs, "candidates", nil, "restrict to these candidate ids")
	matchRunCmd.Flags().IntVar(&matchLimit, "limit", 0, "max candidates (0 uses MATCHING_LIMIT)")
	_ = matchRunCmd.MarkFlagRequired("job")

	matchListCmd.Flags().StringVar(&matchJobID, "job", "", "job id")
	matchListCmd.Flags().StringVar(&matchCandidateID, "candidate", "", "candidate id")
	matchListCmd.Flags().Float64Var(&matchMinScore, "min-score", 0, "minimum total score")
	matchListCmd.Flags().BoolVar(&matchQualified, "qualified", false, "only qualified matches")
	matchListCmd.Flags().StringVar(&matchLocation, "location", "", "candidate listings: job location filter")
	matchListCmd.Flags().IntVar(&listLimit, "limit", usecase.DefaultListLimit, "page size")
	matchListCmd.Flags().IntVar(&matchOffset, "offset", 0, "page offset")

	matchStatsCmd.Flags().StringVar(&matchJobID, "job", "", "job id")
	_ = matchStatsCmd.MarkFlagRequired("job")

	matchAllCmd.Flags().IntVar(&matchJobLimit, "jobs", 0, "max jobs, most recently parsed first (0 uses 100)")
	matchAllCmd.Flags().IntVar(&matchLimit, "limit", 0, "max candidates per job")

	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", 30*24*time.Hour, "age threshold")

	matchCmd.AddCommand(matchRunCmd, matchListCmd, matchStatsCmd, matchAllCmd)
	rootCmd.AddCommand(matchCmd, cleanupCmd)
}

func printScores(rows []matching.MatchScore) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tCANDIDATE\tTOTAL\tSKILLS\tEXP\tEDU\tLOC\tSALARY\tQUALIFIED")
	for _, s := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%t\n",
			s.JobID, s.CandidateID, s.TotalScore, s.SkillsScore, s.ExperienceScore,
			s.EducationScore, s.LocationScore, s.SalaryScore, s.IsQualified)
	}
	return w.Flush()
}
