// Package output renders plan state for the terminal. Formatting only,
// no decision logic.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// PlanSummary prints the header block shown right after plan creation.
func PlanSummary(w io.Writer, p *plan.Plan) {
	fmt.Fprintf(w, "📋 Merge Plan %s\n", p.ID)
	fmt.Fprintf(w, "Source: %s\n", p.SourceBranch)
	fmt.Fprintf(w, "Target: %s\n", p.TargetBranch)
	fmt.Fprintf(w, "Integration branch: %s\n", p.IntegrationBranch)
	if p.Conservative {
		fmt.Fprintf(w, "⚠️  Conservative mode: no common ancestor, all files treated as conflicts\n")
	}
	fmt.Fprintf(w, "Files: %d across %d groups (max %d per group)\n\n",
		p.TotalFiles, p.TotalGroups, p.MaxFilesPerGroup)
}

// StatusOverview prints completion statistics and the per-group table.
func StatusOverview(w io.Writer, p *plan.Plan) {
	stats := p.Stats()
	fmt.Fprintf(w, "Progress: %d/%d groups completed (%.0f%%), %d assigned\n\n",
		stats.CompletedGroups, stats.TotalGroups, stats.CompletionRate(), stats.AssignedGroups)

	fmt.Fprintf(w, "%-30s %-6s %-15s %-10s %s\n", "GROUP", "FILES", "TYPE", "STATUS", "ASSIGNEE")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))
	for _, g := range p.Groups {
		assignee := g.Assignee
		if assignee == "" {
			assignee = "-"
		}
		fmt.Fprintf(w, "%-30s %-6d %-15s %-10s %s\n",
			truncate(g.Name, 30), g.FileCount, g.GroupType, g.Status, assignee)
	}

	if unassigned := p.UnassignedGroups(); len(unassigned) > 0 {
		fmt.Fprintf(w, "\n⚠️  %d group(s) unassigned:\n", len(unassigned))
		for _, g := range unassigned {
			note := g.Notes
			if note == "" {
				note = "no assignment attempted"
			}
			fmt.Fprintf(w, "  - %s: %s\n", g.Name, note)
		}
	}
}

// ContributorRanking prints a group's contributors ordered by score.
func ContributorRanking(w io.Writer, g *plan.Group) {
	fmt.Fprintf(w, "Contributors for %s:\n", g.Name)
	if len(g.Contributors) == 0 {
		fmt.Fprintf(w, "  no contributor data\n")
		return
	}

	type row struct {
		author string
		stats  plan.ContributorStats
	}
	rows := make([]row, 0, len(g.Contributors))
	for author, stats := range g.Contributors {
		rows = append(rows, row{author, stats})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stats.Score != rows[j].stats.Score {
			return rows[i].stats.Score > rows[j].stats.Score
		}
		return rows[i].author < rows[j].author
	})

	fmt.Fprintf(w, "%-25s %-7s %-7s %-6s %s\n", "AUTHOR", "RECENT", "TOTAL", "SCORE", "FILES")
	for _, r := range rows {
		fmt.Fprintf(w, "%-25s %-7d %-7d %-6d %d\n",
			truncate(r.author, 25), r.stats.RecentCommits, r.stats.TotalCommits, r.stats.Score, r.stats.FileCount)
	}
}

// WorkloadTable prints per-assignee group counts.
func WorkloadTable(w io.Writer, p *plan.Plan) {
	workload := p.Workload()
	if len(workload) == 0 {
		fmt.Fprintf(w, "No groups assigned yet\n")
		return
	}

	names := make([]string, 0, len(workload))
	for name := range workload {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%-25s %-9s %-10s %s\n", "ASSIGNEE", "ASSIGNED", "COMPLETED", "PENDING")
	for _, name := range names {
		e := workload[name]
		fmt.Fprintf(w, "%-25s %-9d %-10d %d\n", truncate(name, 25), e.Assigned, e.Completed, e.Pending)
	}
}

// Classifications prints the per-category file counts and the excluded
// target-only files.
func Classifications(w io.Writer, classes map[string]plan.Classification, targetOnly []string) {
	counts := map[plan.Classification]int{}
	for _, c := range classes {
		counts[c]++
	}
	fmt.Fprintf(w, "Classification summary:\n")
	for _, c := range []plan.Classification{plan.ClassNew, plan.ClassSourceOnly, plan.ClassBothModified, plan.ClassUnchanged} {
		fmt.Fprintf(w, "  %-22s %d\n", string(c), counts[c])
	}
	if len(targetOnly) > 0 {
		fmt.Fprintf(w, "  excluded (target-only) %d\n", len(targetOnly))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
