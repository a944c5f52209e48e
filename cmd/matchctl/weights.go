package main

import (
	"context"

	"talent-match/internal/app"
	"talent-match/internal/domain/matching"

	"github.com/spf13/cobra"
)

var newWeights matching.Weights

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show or replace the matching weights",
}

var weightsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			w, err := c.WeightsUC.GetMatchingWeights(ctx)
			if err != nil {
				return err
			}
			return printJSON(w)
		})
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the active weights; the five factors must sum to 1",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			w, err := c.WeightsUC.SetMatchingWeights(ctx, newWeights)
			if err != nil {
				return err
			}
			return printJSON(w)
		})
	},
}

func init() {
	d := matching.DefaultWeights()
	f := weightsSetCmd.Flags()
	f.Float64Var(&newWeights.Skills, "skills", d.Skills, "skills weight")
	f.Float64Var(&newWeights.Experience, "experience", d.Experience, "experience weight")
	f.Float64Var(&newWeights.Education, "education", d.Education, "education weight")
	f.Float64Var(&newWeights.Location, "location", d.Location, "location weight")
	f.Float64Var(&newWeights.Salary, "salary", d.Salary, "salary weight")
	f.Float64Var(&newWeights.QualificationThreshold, "threshold", d.QualificationThreshold, "qualification threshold (0-100)")

	weightsCmd.AddCommand(weightsGetCmd, weightsSetCmd)
	rootCmd.AddCommand(weightsCmd)
}
