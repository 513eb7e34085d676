package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/classify"
	"github.com/mergepilot/mergepilot-go/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <source-branch> [target-branch]",
	Short: "Classify changed files without creating a plan",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	source := args[0]
	target := "main"
	if len(args) > 1 {
		target = args[1]
	}

	repo, err := openRepo(cmd)
	if err != nil {
		return err
	}

	changed, err := repo.ChangedFiles(cmd.Context(), target, source)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		fmt.Println("Branches are identical, nothing to merge")
		return nil
	}

	res, err := classify.New(repo, logger).Classify(cmd.Context(), source, target, changed)
	if err != nil {
		return err
	}

	if res.Conservative {
		fmt.Println("⚠️  No common ancestor found, conservative classification in effect")
	}
	output.Classifications(os.Stdout, res.Classes, res.TargetOnly)

	if verbose {
		fmt.Println()
		for _, f := range res.Files(changed) {
			fmt.Printf("  %-22s %s\n", res.Classes[f], f)
		}
	}
	return nil
}
