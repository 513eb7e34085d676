package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/output"
	"github.com/mergepilot/mergepilot-go/internal/plan"
	"github.com/mergepilot/mergepilot-go/internal/planner"
)

var planForce bool

var planCmd = &cobra.Command{
	Use:   "plan <source-branch> [target-branch]",
	Short: "Create a merge plan for a branch pair",
	Long: `Diff the branches, classify every changed file, partition the set into
bounded groups, score contributors and assign owners. The plan is
written to .merge_work/merge_plan.json.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVarP(&planForce, "force", "f", false, "overwrite an existing plan")
}

func runPlan(cmd *cobra.Command, args []string) error {
	source := args[0]
	target := "main"
	if len(args) > 1 {
		target = args[1]
	}

	repo, err := openRepo(cmd)
	if err != nil {
		return err
	}

	store := plan.NewStore(repoPath)
	if !planForce {
		if _, err := store.Load(); err == nil {
			return fmt.Errorf("a merge plan already exists at %s, use --force to overwrite", store.Path())
		}
	}

	cache := openCache(store)
	if cache != nil {
		defer cache.Close()
	}

	res, err := newPlanner(repo, cache).Create(cmd.Context(), source, target)
	if err != nil {
		if errors.Is(err, planner.ErrNothingToMerge) {
			fmt.Println("Branches are identical, nothing to merge")
			return nil
		}
		return err
	}

	if err := store.Save(res.Plan); err != nil {
		return err
	}

	output.PlanSummary(os.Stdout, res.Plan)
	output.Classifications(os.Stdout, res.Plan.Classifications, res.TargetOnly)
	fmt.Println()
	output.StatusOverview(os.Stdout, res.Plan)
	fmt.Printf("\nPlan written to %s\n", store.Path())
	return nil
}
