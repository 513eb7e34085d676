package contrib

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// fakeHistory serves canned author lists per path.
type fakeHistory struct {
	recent      map[string][]string
	total       map[string][]string
	repoRecent  []string
	repoAll     []string
	lastCommit  map[string]string
	repoQueries int32
}

func (f *fakeHistory) AuthoredCommits(_ context.Context, path string, since time.Time, _ bool) ([]string, error) {
	if since.IsZero() {
		return f.total[path], nil
	}
	return f.recent[path], nil
}

func (f *fakeHistory) RepoAuthors(_ context.Context, since time.Time) ([]string, error) {
	atomic.AddInt32(&f.repoQueries, 1)
	if since.IsZero() {
		return f.repoAll, nil
	}
	return f.repoRecent, nil
}

func (f *fakeHistory) LastCommit(_ context.Context, path string) string {
	return f.lastCommit[path]
}

func TestFileContributorsScoring(t *testing.T) {
	git := &fakeHistory{
		recent: map[string][]string{
			"a.go": {"alice", "alice", "bob"},
		},
		total: map[string][]string{
			"a.go": {"alice", "alice", "alice", "alice", "bob", "carol"},
		},
	}
	s := NewScorer(git, Config{}, nil, nil)

	stats, err := s.FileContributors(context.Background(), "a.go")
	require.NoError(t, err)

	// score = recent*3 + total
	assert.Equal(t, plan.ContributorStats{RecentCommits: 2, TotalCommits: 4, Score: 10}, stats["alice"])
	assert.Equal(t, plan.ContributorStats{RecentCommits: 1, TotalCommits: 1, Score: 4}, stats["bob"])
	// Present only in all-time history: zero recent commits.
	assert.Equal(t, plan.ContributorStats{RecentCommits: 0, TotalCommits: 1, Score: 1}, stats["carol"])
}

func TestScoreMonotonicity(t *testing.T) {
	s := NewScorer(&fakeHistory{}, Config{}, nil, nil)

	// Strictly increasing in recent at fixed total, and in total at
	// fixed recent.
	base := s.merge([]string{"a"}, []string{"a", "a", "a"})["a"].Score
	moreRecent := s.merge([]string{"a", "a"}, []string{"a", "a", "a"})["a"].Score
	moreTotal := s.merge([]string{"a"}, []string{"a", "a", "a", "a"})["a"].Score

	assert.Greater(t, moreRecent, base)
	assert.Greater(t, moreTotal, base)
}

func TestGroupContributorsAggregation(t *testing.T) {
	git := &fakeHistory{
		recent: map[string][]string{
			"x.go": {"alice"},
			"y.go": {"alice", "bob"},
		},
		total: map[string][]string{
			"x.go": {"alice", "alice"},
			"y.go": {"alice", "bob", "bob"},
		},
	}
	s := NewScorer(git, Config{}, nil, nil)

	stats, err := s.GroupContributors(context.Background(), []string{"x.go", "y.go"})
	require.NoError(t, err)

	alice := stats["alice"]
	assert.Equal(t, 2, alice.RecentCommits)
	assert.Equal(t, 3, alice.TotalCommits)
	assert.Equal(t, 2, alice.FileCount)
	assert.Equal(t, 2*3+3, alice.Score)

	bob := stats["bob"]
	assert.Equal(t, 1, bob.FileCount)
}

func TestBatchScoreGroups(t *testing.T) {
	git := &fakeHistory{
		recent: map[string][]string{
			"a/one.go": {"alice"},
			"a/two.go": {"bob"},
			"b/one.go": {"alice"},
		},
		total: map[string][]string{
			"a/one.go": {"alice"},
			"a/two.go": {"bob", "bob"},
			"b/one.go": {"alice", "carol"},
		},
	}
	s := NewScorer(git, Config{Parallelism: 2}, nil, nil)

	groups := []*plan.Group{
		{Name: "a", Files: []string{"a/one.go", "a/two.go"}},
		{Name: "b", Files: []string{"b/one.go"}},
	}
	require.NoError(t, s.BatchScoreGroups(context.Background(), groups))

	assert.Contains(t, groups[0].Contributors, "alice")
	assert.Contains(t, groups[0].Contributors, "bob")
	assert.Equal(t, 2, groups[0].Contributors["bob"].TotalCommits)
	assert.Contains(t, groups[1].Contributors, "carol")
}

func TestSessionComputesOnce(t *testing.T) {
	git := &fakeHistory{
		repoRecent: []string{"alice", "bob"},
		repoAll:    []string{"alice", "bob", "old-timer"},
	}
	sess := NewSession(git, 3, nil)
	ctx := context.Background()

	active, err := sess.ActiveAuthors(ctx)
	require.NoError(t, err)
	_, err = sess.ActiveAuthors(ctx)
	require.NoError(t, err)

	all, err := sess.AllAuthors(ctx)
	require.NoError(t, err)

	assert.True(t, active["alice"])
	assert.False(t, active["old-timer"])
	assert.True(t, all["old-timer"])
	// One query per set, memoized afterwards.
	assert.Equal(t, int32(2), git.repoQueries)

	inactive, err := sess.InactiveAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"old-timer": true}, inactive)
}

func TestScorerUsesCache(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour, nil)
	require.NoError(t, err)
	defer cache.Close()

	git := &fakeHistory{
		recent:     map[string][]string{"a.go": {"alice"}},
		total:      map[string][]string{"a.go": {"alice"}},
		lastCommit: map[string]string{"a.go": "deadbeef"},
	}
	s := NewScorer(git, Config{}, cache, nil)
	ctx := context.Background()

	first, err := s.FileContributors(ctx, "a.go")
	require.NoError(t, err)

	// Change the underlying history without moving the last commit: the
	// cached answer must win.
	git.recent["a.go"] = []string{"bob"}
	second, err := s.FileContributors(ctx, "a.go")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A new commit invalidates the key.
	git.lastCommit["a.go"] = "cafebabe"
	third, err := s.FileContributors(ctx, "a.go")
	require.NoError(t, err)
	assert.Contains(t, third, "bob")
}

func TestCacheExpiry(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour, nil)
	require.NoError(t, err)
	defer cache.Close()

	cache.Put("k", map[string]plan.ContributorStats{"alice": {Score: 1}})
	_, ok := cache.Get("k")
	assert.True(t, ok)

	// Entries older than the TTL miss.
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, ok = cache.Get("k")
	assert.False(t, ok)
}
