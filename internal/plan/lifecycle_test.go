package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkCompletedIdempotent(t *testing.T) {
	p := samplePlan()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	require.True(t, p.MarkCompleted("src", now))
	g := p.FindGroup("src")
	first := g.CompletedAt
	assert.Equal(t, StatusCompleted, g.Status)

	// Marking again changes nothing, including the timestamp.
	require.True(t, p.MarkCompleted("src", now.Add(time.Hour)))
	assert.Equal(t, first, g.CompletedAt)
}

func TestMarkCompletedUnknownName(t *testing.T) {
	p := samplePlan()
	assert.False(t, p.MarkCompleted("nope", time.Now()))
	for _, g := range p.Groups {
		assert.NotEqual(t, StatusCompleted, g.Status)
	}
}

func TestMarkAssigneeCompleted(t *testing.T) {
	p := samplePlan()
	p.Groups[1].Assignee = "Alice"
	p.Groups[1].Status = StatusAssigned

	// Case-insensitive match, both groups flip.
	assert.Equal(t, 2, p.MarkAssigneeCompleted("ALICE", time.Now()))
	assert.Equal(t, 0, p.MarkAssigneeCompleted("alice", time.Now()))
}

func TestStats(t *testing.T) {
	p := samplePlan()
	p.MarkCompleted("src", time.Now())

	stats := p.Stats()
	assert.Equal(t, 2, stats.TotalGroups)
	assert.Equal(t, 1, stats.AssignedGroups)
	assert.Equal(t, 1, stats.CompletedGroups)
	assert.Equal(t, 2, stats.CompletedFiles)
	assert.InDelta(t, 50.0, stats.CompletionRate(), 0.01)
}

func TestDetectCompleted(t *testing.T) {
	p := samplePlan()
	p.Groups[1].Assignee = "Bob Lee"
	p.Groups[1].Status = StatusAssigned

	branches := []string{
		"main",
		"feat/merge-src-alice",
		"feat/merge-batch-Bob-Lee",
	}
	candidates := p.DetectCompleted(branches)

	require.Len(t, candidates, 2)
	assert.Equal(t, "src", candidates[0].Group.Name)
	assert.Equal(t, "feat/merge-src-alice", candidates[0].Branch)
	assert.Equal(t, "docs", candidates[1].Group.Name)

	// Detection never mutates state on its own.
	for _, g := range p.Groups {
		assert.NotEqual(t, StatusCompleted, g.Status)
	}
}

func TestDetectCompletedSkipsFinishedAndUnassigned(t *testing.T) {
	p := samplePlan()
	p.MarkCompleted("src", time.Now())

	candidates := p.DetectCompleted([]string{"feat/merge-src-alice", "feat/merge-docs-x"})
	assert.Empty(t, candidates)
}

func TestBranchNameDerivations(t *testing.T) {
	assert.Equal(t, "integration-feature-login-main", IntegrationBranchName("feature/login", "main"))
	assert.Equal(t, "feat/merge-src-api-Jane-Doe", MergeBranchName("src/api", "Jane Doe"))
	assert.Equal(t, "feat/merge-batch-Jane-Doe", BatchMergeBranchName("Jane Doe"))
}
