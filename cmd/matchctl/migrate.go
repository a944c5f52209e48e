package main

import (
	"context"
	"fmt"

	"talent-match/internal/app"
	dbseeder "talent-match/internal/database/seeder"
	"talent-match/internal/seeder"

	"github.com/spf13/cobra"
)

var (
	seedSkillsFile string
	seedDemo       bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			fmt.Println("migrations up to date")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the skill taxonomy and default weights",
	Long:  "Seeds skills from a YAML file (or the built-in list) and stores default weights when none are active. --demo also parses sample jobs and candidates.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedSkillsFile, "skills", "", "YAML file with a top-level skills list")
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also load demo jobs and candidates")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	var skills []dbseeder.Skill
	if seedSkillsFile != "" {
		var err error
		if skills, err = dbseeder.LoadSkillsFile(seedSkillsFile); err != nil {
			return err
		}
	}

	return withContainer(func(ctx context.Context, c *app.Container) error {
		r := dbseeder.Runner{Seeders: dbseeder.Defaults(skills), Logger: c.Logger}
		if err := r.Run(ctx, c.DB); err != nil {
			return err
		}
		if err := c.TaxonomyUC.InvalidateTaxonomy(ctx); err != nil {
			return err
		}
		if !seedDemo {
			return nil
		}
		res, err := seeder.Demo(ctx, c.ExtractionUC)
		if err != nil {
			return err
		}
		return printJSON(res)
	})
}
