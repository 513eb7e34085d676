package plan

import (
	"strings"
	"time"
)

// CompletionStats summarizes plan progress for display.
type CompletionStats struct {
	TotalGroups     int
	AssignedGroups  int
	CompletedGroups int
	TotalFiles      int
	AssignedFiles   int
	CompletedFiles  int
}

// CompletionRate returns completed groups as a percentage.
func (c CompletionStats) CompletionRate() float64 {
	if c.TotalGroups == 0 {
		return 0
	}
	return float64(c.CompletedGroups) / float64(c.TotalGroups) * 100
}

// Stats computes completion statistics over the whole plan.
func (p *Plan) Stats() CompletionStats {
	stats := CompletionStats{TotalGroups: len(p.Groups), TotalFiles: p.TotalFiles}
	for _, g := range p.Groups {
		if g.Assignee != "" {
			stats.AssignedGroups++
			stats.AssignedFiles += g.FileCount
		}
		if g.Status == StatusCompleted {
			stats.CompletedGroups++
			stats.CompletedFiles += g.FileCount
		}
	}
	return stats
}

// WorkloadEntry is one assignee's share of the plan.
type WorkloadEntry struct {
	Assignee  string
	Assigned  int
	Completed int
	Pending   int
}

// Workload returns per-assignee group counts, keyed by assignee.
func (p *Plan) Workload() map[string]*WorkloadEntry {
	out := make(map[string]*WorkloadEntry)
	for _, g := range p.Groups {
		if g.Assignee == "" {
			continue
		}
		e, ok := out[g.Assignee]
		if !ok {
			e = &WorkloadEntry{Assignee: g.Assignee}
			out[g.Assignee] = e
		}
		e.Assigned++
		if g.Status == StatusCompleted {
			e.Completed++
		} else {
			e.Pending++
		}
	}
	return out
}

// MarkCompleted marks the named group completed. Marking an already
// completed group is a no-op, not an error. Returns false when no group
// has that name.
func (p *Plan) MarkCompleted(name string, now time.Time) bool {
	g := p.FindGroup(name)
	if g == nil {
		return false
	}
	if g.Status == StatusCompleted {
		return true
	}
	g.Status = StatusCompleted
	g.CompletedAt = Timestamp(now)
	return true
}

// MarkAssigneeCompleted marks every group owned by the assignee completed
// and returns how many groups changed state.
func (p *Plan) MarkAssigneeCompleted(assignee string, now time.Time) int {
	changed := 0
	for _, g := range p.AssigneeGroups(assignee) {
		if g.Status == StatusCompleted {
			continue
		}
		g.Status = StatusCompleted
		g.CompletedAt = Timestamp(now)
		changed++
	}
	return changed
}

// Assign records an owner on the group and moves it to assigned state.
func (g *Group) Assign(assignee, reason string, now time.Time) {
	g.Assignee = assignee
	g.Status = StatusAssigned
	g.AssignedAt = Timestamp(now)
	g.AssignmentReason = reason
}

// CompletionCandidate pairs a group with the remote branch that suggests
// its merge already happened.
type CompletionCandidate struct {
	Group  *Group
	Branch string
}

// DetectCompleted matches unfinished assigned groups against existing
// branch names. The result is a heuristic signal only; callers must
// confirm each candidate before marking anything completed.
func (p *Plan) DetectCompleted(branches []string) []CompletionCandidate {
	var out []CompletionCandidate
	for _, g := range p.Groups {
		if g.Status == StatusCompleted || g.Assignee == "" {
			continue
		}
		names := []string{
			MergeBranchName(g.Name, g.Assignee),
			BatchMergeBranchName(g.Assignee),
		}
		for _, want := range names {
			if matchBranch(branches, want) {
				out = append(out, CompletionCandidate{Group: g, Branch: want})
				break
			}
		}
	}
	return out
}

func matchBranch(branches []string, want string) bool {
	for _, b := range branches {
		if strings.Contains(b, want) {
			return true
		}
	}
	return false
}
