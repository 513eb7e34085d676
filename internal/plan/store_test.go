package plan

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *Plan {
	return &Plan{
		ID:                "11111111-2222-3333-4444-555555555555",
		CreatedAt:         Timestamp(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)),
		SourceBranch:      "feature/search",
		TargetBranch:      "main",
		IntegrationBranch: "integration-feature-search-main",
		MergeBase:         "abc123",
		TotalFiles:        3,
		TotalGroups:       2,
		MaxFilesPerGroup:  5,
		Classifications: map[string]Classification{
			"src/a.go":  ClassSourceOnly,
			"src/b.go":  ClassBothModified,
			"docs/r.md": ClassNew,
		},
		Groups: []*Group{
			{
				Name:      "src",
				Files:     []string{"src/a.go", "src/b.go"},
				FileCount: 2,
				GroupType: GroupSimple,
				Status:    StatusAssigned,
				Assignee:  "alice",
				Contributors: map[string]ContributorStats{
					"alice": {RecentCommits: 2, TotalCommits: 5, Score: 11, FileCount: 2},
				},
				AssignmentReason: "top contributor (score 11)",
			},
			{
				Name:         "docs",
				Files:        []string{"docs/r.md"},
				FileCount:    1,
				GroupType:    GroupSimple,
				Status:       StatusPending,
				Contributors: map[string]ContributorStats{},
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	p := samplePlan()

	require.NoError(t, store.Save(p))
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	// Save-load-save reproduces the document byte for byte.
	require.NoError(t, store.Save(loaded))
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLoadMissingPlan(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestLoadCorruptPlan(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	_, err := store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPlan)
}
