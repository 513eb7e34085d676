package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/script"
)

var scriptAll bool

var scriptCmd = &cobra.Command{
	Use:   "script [group]",
	Short: "Generate the merge script for a group",
	Long: `Render an executable bash script that applies each file's merge
strategy (create, replace, three-way) on the assignee's merge branch.
Scripts land in .merge_work/scripts/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().BoolVar(&scriptAll, "all", false, "generate scripts for every assigned group")
}

func runScript(cmd *cobra.Command, args []string) error {
	store, p, err := loadPlan()
	if err != nil {
		return err
	}
	gen := script.NewGenerator(store.Dir(), logger)

	if scriptAll {
		written := 0
		for _, g := range p.Groups {
			if g.Assignee == "" {
				continue
			}
			path, err := gen.GroupScript(p, g)
			if err != nil {
				return err
			}
			fmt.Printf("  %s -> %s\n", g.Name, path)
			written++
		}
		if written == 0 {
			return fmt.Errorf("no assigned groups, run 'mpilot assign' first")
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("pass a group name or --all")
	}
	g := p.FindGroup(args[0])
	if g == nil {
		return fmt.Errorf("group %q not found in plan", args[0])
	}
	path, err := gen.GroupScript(p, g)
	if err != nil {
		return err
	}
	fmt.Printf("Merge script written to %s\n", path)
	return nil
}
