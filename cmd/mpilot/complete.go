package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	completeAssignee string
	completeDetect   bool
	completeYes      bool
)

var completeCmd = &cobra.Command{
	Use:   "complete [group]",
	Short: "Mark groups completed",
	Long: `Mark a group completed by name, every group of one assignee, or detect
candidates from existing merge branches. Detection is a heuristic and
each candidate is confirmed before anything changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeAssignee, "assignee", "", "mark all groups of this assignee completed")
	completeCmd.Flags().BoolVar(&completeDetect, "detect", false, "infer completion from existing merge branches")
	completeCmd.Flags().BoolVarP(&completeYes, "yes", "y", false, "apply detected completions without prompting")
}

func runComplete(cmd *cobra.Command, args []string) error {
	store, p, err := loadPlan()
	if err != nil {
		return err
	}
	now := time.Now()

	switch {
	case completeDetect:
		repo, err := openRepo(cmd)
		if err != nil {
			return err
		}
		branches, err := repo.ListRemoteBranches(cmd.Context())
		if err != nil {
			return err
		}
		candidates := p.DetectCompleted(branches)
		if len(candidates) == 0 {
			fmt.Println("No completion candidates found")
			return nil
		}
		if !completeYes && !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("not a terminal, use --yes to apply %d detected completion(s)", len(candidates))
		}
		applied := 0
		for _, c := range candidates {
			if !completeYes && !confirm(fmt.Sprintf("Branch %s exists, mark %s completed?", c.Branch, c.Group.Name)) {
				continue
			}
			p.MarkCompleted(c.Group.Name, now)
			applied++
		}
		fmt.Printf("Marked %d group(s) completed\n", applied)

	case completeAssignee != "":
		changed := p.MarkAssigneeCompleted(completeAssignee, now)
		if changed == 0 {
			fmt.Printf("No incomplete groups assigned to %s\n", completeAssignee)
			return nil
		}
		fmt.Printf("Marked %d group(s) completed for %s\n", changed, completeAssignee)

	case len(args) == 1:
		if !p.MarkCompleted(args[0], now) {
			return fmt.Errorf("group %q not found in plan", args[0])
		}
		fmt.Printf("Marked %s completed\n", args[0])

	default:
		return fmt.Errorf("pass a group name, --assignee or --detect")
	}

	if err := store.Save(p); err != nil {
		return err
	}

	stats := p.Stats()
	fmt.Printf("Progress: %d/%d groups completed (%.0f%%)\n",
		stats.CompletedGroups, stats.TotalGroups, stats.CompletionRate())
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
