package main

import (
	"context"
	"fmt"

	"talent-match/internal/app"
	"talent-match/internal/domain/skill"

	"github.com/spf13/cobra"
)

var newSkill skill.Entry

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage the skill taxonomy",
}

func init() {
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the taxonomy as the extractor sees it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				return printJSON(c.TaxonomyUC.ListSkills(ctx))
			})
		},
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Insert or rename a skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				e, err := c.TaxonomyUC.UpsertSkill(ctx, newSkill)
				if err != nil {
					return err
				}
				return printJSON(e)
			})
		},
	}
	add.Flags().StringVar(&newSkill.Name, "name", "", "display name")
	add.Flags().StringVar(&newSkill.Slug, "slug", "", "slug (derived from name when empty)")
	add.Flags().StringVar(&newSkill.Category, "category", "", "category")
	_ = add.MarkFlagRequired("name")

	invalidate := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop the cached taxonomy shared between instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				if err := c.TaxonomyUC.InvalidateTaxonomy(ctx); err != nil {
					return err
				}
				fmt.Println("taxonomy invalidated")
				return nil
			})
		},
	}

	skillsCmd.AddCommand(list, add, invalidate)
	rootCmd.AddCommand(skillsCmd)
}
