package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/output"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors <group>",
	Short: "Show the contributor ranking for a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runContributors,
}

func runContributors(cmd *cobra.Command, args []string) error {
	_, p, err := loadPlan()
	if err != nil {
		return err
	}

	g := p.FindGroup(args[0])
	if g == nil {
		return fmt.Errorf("group %q not found in plan", args[0])
	}

	output.ContributorRanking(os.Stdout, g)
	if g.Assignee != "" {
		fmt.Printf("\nAssigned to %s (%s)\n", g.Assignee, g.AssignmentReason)
	}
	return nil
}
