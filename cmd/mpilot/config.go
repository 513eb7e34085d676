package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/config"
	"github.com/mergepilot/mergepilot-go/internal/plan"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage planner configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .merge_work/config.yaml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(repoPath, plan.WorkDirName, "config.yaml")
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Default configuration written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Printf("Plan:\n")
	fmt.Printf("  max_files_per_group: %d\n", cfg.Plan.MaxFilesPerGroup)
	fmt.Printf("Analysis:\n")
	fmt.Printf("  analysis_months: %d\n", cfg.Analysis.AnalysisMonths)
	fmt.Printf("  active_months: %d\n", cfg.Analysis.ActiveMonths)
	fmt.Printf("  recent_weight: %d\n", cfg.Analysis.RecentWeight)
	fmt.Printf("  total_weight: %d\n", cfg.Analysis.TotalWeight)
	fmt.Printf("  parallelism: %d\n", cfg.Analysis.Parallelism)
	fmt.Printf("Assign:\n")
	fmt.Printf("  max_tasks_per_person: %d\n", cfg.Assign.MaxTasksPerPerson)
	fmt.Printf("  enable_fallback: %t\n", cfg.Assign.EnableFallback)
	if len(cfg.Assign.Exclude) > 0 {
		fmt.Printf("  exclude: %v\n", cfg.Assign.Exclude)
	}
	fmt.Printf("Cache:\n")
	fmt.Printf("  enabled: %t\n", cfg.Cache.Enabled)
	fmt.Printf("  ttl: %s\n", cfg.Cache.TTL)
	return nil
}
