// Package contrib computes recency-weighted contribution scores per
// author for files, directories and groups. Scores decide who owns each
// merge unit, so the weighting (recent work counts 3x) and the exact
// author names from history are preserved without identity merging.
package contrib

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// Queries is the version-control surface the scorer needs.
type Queries interface {
	AuthoredCommits(ctx context.Context, path string, since time.Time, follow bool) ([]string, error)
	RepoAuthors(ctx context.Context, since time.Time) ([]string, error)
	LastCommit(ctx context.Context, path string) string
}

// Config tunes the scorer. Zero values fall back to the standard
// weighting: recent x3 + total x1 over a 12-month recent window.
type Config struct {
	RecentWeight   int
	TotalWeight    int
	AnalysisMonths int
	Parallelism    int
}

func (c Config) withDefaults() Config {
	if c.RecentWeight == 0 {
		c.RecentWeight = 3
	}
	if c.TotalWeight == 0 {
		c.TotalWeight = 1
	}
	if c.AnalysisMonths == 0 {
		c.AnalysisMonths = 12
	}
	if c.Parallelism == 0 {
		c.Parallelism = 4
	}
	return c
}

// Scorer computes contributor statistics with optional persistent
// caching. Per-path queries are independent and side-effect-free, which
// is what makes BatchScoreGroups safe to parallelize.
type Scorer struct {
	git   Queries
	cfg   Config
	cache *Cache
	log   *logrus.Logger
	now   func() time.Time
}

// NewScorer creates a scorer. cache may be nil to disable persistence.
func NewScorer(git Queries, cfg Config, cache *Cache, log *logrus.Logger) *Scorer {
	if log == nil {
		log = logrus.New()
	}
	return &Scorer{git: git, cfg: cfg.withDefaults(), cache: cache, log: log, now: time.Now}
}

// FileContributors returns per-author stats for one file, following
// renames through history.
func (s *Scorer) FileContributors(ctx context.Context, path string) (map[string]plan.ContributorStats, error) {
	return s.pathContributors(ctx, path)
}

// DirectoryContributors returns per-author stats for everything under a
// directory. Counts are commits touching the directory, independent of
// any file-level numbers.
func (s *Scorer) DirectoryContributors(ctx context.Context, dir string) (map[string]plan.ContributorStats, error) {
	return s.pathContributors(ctx, dir)
}

func (s *Scorer) pathContributors(ctx context.Context, path string) (map[string]plan.ContributorStats, error) {
	key := ""
	if s.cache != nil {
		if last := s.git.LastCommit(ctx, path); last != "" {
			key = path + ":" + last
			if stats, ok := s.cache.Get(key); ok {
				return stats, nil
			}
		}
	}

	since := s.now().AddDate(0, -s.cfg.AnalysisMonths, 0)
	recent, err := s.git.AuthoredCommits(ctx, path, since, true)
	if err != nil {
		return nil, err
	}
	total, err := s.git.AuthoredCommits(ctx, path, time.Time{}, true)
	if err != nil {
		return nil, err
	}

	stats := s.merge(recent, total)
	if key != "" {
		s.cache.Put(key, stats)
	}
	return stats, nil
}

// merge combines the windowed and unfiltered author lists into stats.
// An author present only in the unfiltered list has zero recent commits.
func (s *Scorer) merge(recent, total []string) map[string]plan.ContributorStats {
	stats := make(map[string]plan.ContributorStats)

	for author, n := range countAuthors(recent) {
		stats[author] = plan.ContributorStats{
			RecentCommits: n,
			TotalCommits:  n,
			Score:         n * s.cfg.RecentWeight,
		}
	}
	for author, n := range countAuthors(total) {
		e := stats[author]
		e.TotalCommits = n
		e.Score = e.RecentCommits*s.cfg.RecentWeight + n*s.cfg.TotalWeight
		stats[author] = e
	}
	return stats
}

// GroupContributors aggregates per-file stats across a group: counts and
// scores sum, FileCount records how many files each author touched.
func (s *Scorer) GroupContributors(ctx context.Context, files []string) (map[string]plan.ContributorStats, error) {
	out := make(map[string]plan.ContributorStats)
	for _, f := range files {
		fileStats, err := s.FileContributors(ctx, f)
		if err != nil {
			return nil, err
		}
		for author, fs := range fileStats {
			e := out[author]
			e.RecentCommits += fs.RecentCommits
			e.TotalCommits += fs.TotalCommits
			e.Score += fs.Score
			e.FileCount++
			out[author] = e
		}
	}
	return out, nil
}

// BatchScoreGroups scores every group in the plan, populating
// Group.Contributors. Per-file history queries run in parallel under a
// concurrency limit; aggregation is sequential once all files resolve.
// A file whose query fails contributes nothing rather than failing the
// pass.
func (s *Scorer) BatchScoreGroups(ctx context.Context, groups []*plan.Group) error {
	unique := make(map[string]bool)
	for _, g := range groups {
		for _, f := range g.Files {
			unique[f] = true
		}
	}

	var mu sync.Mutex
	byFile := make(map[string]map[string]plan.ContributorStats, len(unique))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Parallelism)
	for f := range unique {
		f := f
		eg.Go(func() error {
			stats, err := s.FileContributors(gctx, f)
			if err != nil {
				s.log.WithError(err).WithField("path", f).Warn("history query failed, skipping file")
				return nil
			}
			mu.Lock()
			byFile[f] = stats
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, g := range groups {
		agg := make(map[string]plan.ContributorStats)
		for _, f := range g.Files {
			for author, fs := range byFile[f] {
				e := agg[author]
				e.RecentCommits += fs.RecentCommits
				e.TotalCommits += fs.TotalCommits
				e.Score += fs.Score
				e.FileCount++
				agg[author] = e
			}
		}
		g.Contributors = agg
	}
	return nil
}

func countAuthors(authors []string) map[string]int {
	counts := make(map[string]int)
	for _, a := range authors {
		counts[a]++
	}
	return counts
}
