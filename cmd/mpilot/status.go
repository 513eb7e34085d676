package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show plan progress and per-assignee workload",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, p, err := loadPlan()
	if err != nil {
		return err
	}

	output.PlanSummary(os.Stdout, p)
	output.StatusOverview(os.Stdout, p)
	fmt.Println()
	output.WorkloadTable(os.Stdout, p)
	return nil
}
