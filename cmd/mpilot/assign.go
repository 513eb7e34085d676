package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/output"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Rerun owner assignment over the existing plan",
	Long: `Clear assignees of incomplete groups and assign again with the current
configuration (cap, exclusions, fallback). Completed groups keep their
owners.`,
	Args: cobra.NoArgs,
	RunE: runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	repo, err := openRepo(cmd)
	if err != nil {
		return err
	}
	store, p, err := loadPlan()
	if err != nil {
		return err
	}

	cache := openCache(store)
	if cache != nil {
		defer cache.Close()
	}

	summary, err := newPlanner(repo, cache).Reassign(cmd.Context(), p)
	if err != nil {
		return err
	}
	if err := store.Save(p); err != nil {
		return err
	}

	fmt.Printf("Assignment: %d direct, %d balanced, %d fallback, %d unassigned\n\n",
		summary.Direct, summary.Balanced, summary.Fallback, summary.Unassigned)
	output.WorkloadTable(os.Stdout, p)
	return nil
}
