package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

var branchesCmd = &cobra.Command{
	Use:   "branches [group]",
	Short: "Create the integration and merge branches for the plan",
	Long: `Create (or switch to) the integration branch for the plan's branch
pair, and the per-group merge branch for one assigned group or for all
of them. This is the only command that writes to the repository.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBranches,
}

func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	repo, err := openRepo(cmd)
	if err != nil {
		return err
	}
	_, p, err := loadPlan()
	if err != nil {
		return err
	}

	integration, err := repo.EnsureIntegrationBranch(cmd.Context(), p.SourceBranch, p.TargetBranch)
	if err != nil {
		return err
	}
	fmt.Printf("Integration branch: %s\n", integration)

	groups := p.Groups
	if len(args) == 1 {
		g := p.FindGroup(args[0])
		if g == nil {
			return fmt.Errorf("group %q not found in plan", args[0])
		}
		groups = []*plan.Group{g}
	}

	for _, g := range groups {
		if g.Assignee == "" {
			continue
		}
		name, err := repo.CreateMergeBranch(cmd.Context(), g.Name, g.Assignee, integration)
		if err != nil {
			return err
		}
		fmt.Printf("  %s -> %s\n", g.Name, name)
	}
	return nil
}
