package plan

import (
	"fmt"
	"strings"
	"time"
)

// Classification describes a file's merge situation relative to the
// common ancestor of the source and target branches.
type Classification string

const (
	// ClassNew means the file does not exist on the target branch.
	ClassNew Classification = "NEW"
	// ClassSourceOnly means only the source branch diverged from the ancestor.
	ClassSourceOnly Classification = "SOURCE_ONLY_MODIFIED"
	// ClassBothModified means both branches diverged from the ancestor.
	ClassBothModified Classification = "BOTH_MODIFIED"
	// ClassUnchanged means neither branch diverged from the ancestor.
	ClassUnchanged Classification = "UNCHANGED"
)

// GroupType records which partitioning rule produced a group.
type GroupType string

const (
	GroupSimple        GroupType = "SIMPLE"
	GroupDirectFiles   GroupType = "DIRECT_FILES"
	GroupSubdir        GroupType = "SUBDIR"
	GroupAlpha         GroupType = "ALPHA"
	GroupBatch         GroupType = "BATCH"
	GroupFallbackBatch GroupType = "FALLBACK_BATCH"
)

// Status is the lifecycle state of a group. Transitions are one-way:
// pending -> assigned -> completed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// ContributorStats holds per-author contribution counts for a file,
// directory or group scope. Score weights recent work 3x over history.
type ContributorStats struct {
	RecentCommits int `json:"recent_commits"`
	TotalCommits  int `json:"total_commits"`
	Score         int `json:"score"`
	FileCount     int `json:"file_count,omitempty"`
}

// Group is a named, bounded set of changed files that one owner merges
// as a unit.
type Group struct {
	Name             string                      `json:"name"`
	Files            []string                    `json:"files"`
	FileCount        int                         `json:"file_count"`
	GroupType        GroupType                   `json:"group_type"`
	Status           Status                      `json:"status"`
	Assignee         string                      `json:"assignee"`
	AssignedAt       string                      `json:"assigned_at,omitempty"`
	CompletedAt      string                      `json:"completed_at,omitempty"`
	Contributors     map[string]ContributorStats `json:"contributors"`
	AssignmentReason string                      `json:"assignment_reason"`
	FallbackReason   string                      `json:"fallback_reason,omitempty"`
	Notes            string                      `json:"notes,omitempty"`
}

// Plan is the persisted decision artifact: the full decomposition of a
// branch-pair merge into assignable groups.
type Plan struct {
	ID                string                    `json:"id"`
	CreatedAt         string                    `json:"created_at"`
	SourceBranch      string                    `json:"source_branch"`
	TargetBranch      string                    `json:"target_branch"`
	IntegrationBranch string                    `json:"integration_branch"`
	MergeBase         string                    `json:"merge_base"`
	Conservative      bool                      `json:"conservative_mode"`
	TotalFiles        int                       `json:"total_files"`
	TotalGroups       int                       `json:"total_groups"`
	MaxFilesPerGroup  int                       `json:"max_files_per_group"`
	Classifications   map[string]Classification `json:"classifications"`
	Groups            []*Group                  `json:"groups"`
}

// IntegrationBranchName derives the integration branch for a branch pair.
// The derivation is deterministic so re-planning the same pair reuses the
// same branch.
func IntegrationBranchName(source, target string) string {
	return fmt.Sprintf("integration-%s-%s", sanitize(source), sanitize(target))
}

// MergeBranchName derives the working branch for one group's merge.
func MergeBranchName(group, assignee string) string {
	return fmt.Sprintf("feat/merge-%s-%s", sanitize(group), strings.ReplaceAll(assignee, " ", "-"))
}

// BatchMergeBranchName derives the working branch for a bulk merge by one
// assignee.
func BatchMergeBranchName(assignee string) string {
	return fmt.Sprintf("feat/merge-batch-%s", strings.ReplaceAll(assignee, " ", "-"))
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "/", "-")
}

// Timestamp formats t the way the plan document stores times.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FindGroup returns the group with the given name, or nil.
func (p *Plan) FindGroup(name string) *Group {
	for _, g := range p.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AssigneeGroups returns every group owned by the given assignee.
// Matching is case-insensitive, as author names come from git history.
func (p *Plan) AssigneeGroups(assignee string) []*Group {
	var out []*Group
	for _, g := range p.Groups {
		if strings.EqualFold(g.Assignee, assignee) {
			out = append(out, g)
		}
	}
	return out
}

// UnassignedGroups returns the groups without an owner.
func (p *Plan) UnassignedGroups() []*Group {
	var out []*Group
	for _, g := range p.Groups {
		if g.Assignee == "" {
			out = append(out, g)
		}
	}
	return out
}

// ChangedFiles returns the union of all group files in plan order.
func (p *Plan) ChangedFiles() []string {
	var out []string
	for _, g := range p.Groups {
		out = append(out, g.Files...)
	}
	return out
}
