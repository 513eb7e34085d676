// Package assign chooses an owner for every group in a merge plan. The
// choice balances expertise (contribution score) against fairness (a
// hard per-person task cap) and falls back to directory-level history
// when nobody touched the group's files directly.
package assign

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// DirectoryScorer is the slice of the contribution scorer the fallback
// search needs.
type DirectoryScorer interface {
	DirectoryContributors(ctx context.Context, dir string) (map[string]plan.ContributorStats, error)
}

// AuthorSets reports which historical authors are no longer active.
type AuthorSets interface {
	InactiveAuthors(ctx context.Context) (map[string]bool, error)
}

// Options controls a single assignment pass.
type Options struct {
	// MaxTasksPerPerson is a hard cap. An author at the cap is never
	// assigned another group, regardless of score.
	MaxTasksPerPerson int
	// Exclude lists authors who must not be assigned.
	Exclude []string
	// EnableFallback turns on the directory-ascension search for groups
	// with no eligible direct contributor.
	EnableFallback bool
}

// Summary counts assignment outcomes for one pass.
type Summary struct {
	Direct     int
	Balanced   int
	Fallback   int
	Unassigned int
}

// Engine assigns owners to plan groups.
type Engine struct {
	scorer  DirectoryScorer
	authors AuthorSets
	log     *logrus.Logger
	now     func() time.Time
}

// New creates an assignment engine.
func New(scorer DirectoryScorer, authors AuthorSets, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{scorer: scorer, authors: authors, log: log, now: time.Now}
}

// Assign walks the plan's groups in order and assigns each an owner, or
// leaves it unassigned with a diagnostic note. Groups that already have
// an assignee are kept and counted against the cap.
func (e *Engine) Assign(ctx context.Context, p *plan.Plan, opts Options) (Summary, error) {
	if opts.MaxTasksPerPerson < 1 {
		opts.MaxTasksPerPerson = 3
	}

	excluded, err := e.excludedSet(ctx, opts.Exclude)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve excluded contributors: %w", err)
	}

	load := make(map[string]int)
	for _, g := range p.Groups {
		if g.Assignee != "" {
			load[strings.ToLower(g.Assignee)]++
		}
	}

	var sum Summary
	now := e.now()
	for _, g := range p.Groups {
		if g.Assignee != "" {
			continue
		}
		e.assignGroup(ctx, g, opts, excluded, load, now, &sum)
	}
	return sum, nil
}

func (e *Engine) assignGroup(ctx context.Context, g *plan.Group, opts Options, excluded map[string]bool, load map[string]int, now time.Time, sum *Summary) {
	ranked := rank(g.Contributors)

	pick, direct := choose(ranked, excluded, load, opts.MaxTasksPerPerson)
	if pick != nil {
		reason := fmt.Sprintf("top contributor (score %d)", pick.Stats.Score)
		if direct {
			sum.Direct++
		} else {
			reason = fmt.Sprintf("load balanced to %s (score %d), higher-ranked contributors capped or excluded", pick.Author, pick.Stats.Score)
			sum.Balanced++
		}
		g.Assign(pick.Author, reason, now)
		load[strings.ToLower(pick.Author)]++
		return
	}

	if opts.EnableFallback {
		if fb := e.fallback(ctx, g, excluded, load, opts.MaxTasksPerPerson); fb != nil {
			g.Assign(fb.Author, fmt.Sprintf("directory fallback via %s (score %d)", fb.Dir, fb.Stats.Score), now)
			g.FallbackReason = fmt.Sprintf("no eligible direct contributor, assigned from %s history", fb.Dir)
			load[strings.ToLower(fb.Author)]++
			sum.Fallback++
			return
		}
	}

	sum.Unassigned++
	if len(ranked) == 0 {
		g.Notes = "no contributor data"
		g.AssignmentReason = "unassigned"
		return
	}
	g.Notes = fmt.Sprintf("no eligible assignee; %s would have been chosen absent exclusions and caps", ranked[0].Author)
	g.AssignmentReason = "unassigned"
}

// excludedSet unions the explicit exclusions with everyone inactive in
// the trailing window. Keys are lower-cased author names.
func (e *Engine) excludedSet(ctx context.Context, explicit []string) (map[string]bool, error) {
	out := make(map[string]bool, len(explicit))
	for _, name := range explicit {
		out[strings.ToLower(name)] = true
	}
	inactive, err := e.authors.InactiveAuthors(ctx)
	if err != nil {
		return nil, err
	}
	for name := range inactive {
		out[strings.ToLower(name)] = true
	}
	return out, nil
}

type candidate struct {
	Author string
	Stats  plan.ContributorStats
}

// rank orders contributors by score, then recent commits, then name.
// The name tie-break keeps equal-score assignment deterministic across
// runs.
func rank(contributors map[string]plan.ContributorStats) []candidate {
	ranked := make([]candidate, 0, len(contributors))
	for author, stats := range contributors {
		ranked = append(ranked, candidate{Author: author, Stats: stats})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Stats.Score != ranked[j].Stats.Score {
			return ranked[i].Stats.Score > ranked[j].Stats.Score
		}
		if ranked[i].Stats.RecentCommits != ranked[j].Stats.RecentCommits {
			return ranked[i].Stats.RecentCommits > ranked[j].Stats.RecentCommits
		}
		return ranked[i].Author < ranked[j].Author
	})
	return ranked
}

// choose returns the first eligible candidate in rank order and whether
// it was the top-ranked one.
func choose(ranked []candidate, excluded map[string]bool, load map[string]int, limit int) (*candidate, bool) {
	for i, c := range ranked {
		key := strings.ToLower(c.Author)
		if excluded[key] || load[key] >= limit {
			continue
		}
		return &ranked[i], i == 0
	}
	return nil, false
}

type fallbackPick struct {
	candidate
	Dir string
}

// fallback walks the ancestor directories of the group's files from
// deepest to shallowest, probing directory-level history for an
// eligible owner, and tries the repository root last.
func (e *Engine) fallback(ctx context.Context, g *plan.Group, excluded map[string]bool, load map[string]int, limit int) *fallbackPick {
	for _, dir := range ancestorDirs(g.Files) {
		stats, err := e.scorer.DirectoryContributors(ctx, dir)
		if err != nil {
			e.log.WithError(err).WithField("dir", dir).Warn("fallback directory query failed")
			continue
		}
		if pick, _ := choose(rank(stats), excluded, load, limit); pick != nil {
			return &fallbackPick{candidate: *pick, Dir: dir}
		}
	}
	return nil
}

// ancestorDirs returns every ancestor directory of every file, deepest
// first, with the repository root appended as the final probe.
func ancestorDirs(files []string) []string {
	seen := make(map[string]bool)
	for _, f := range files {
		for dir := path.Dir(f); dir != "." && dir != "/"; dir = path.Dir(dir) {
			seen[dir] = true
		}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], "/"), strings.Count(dirs[j], "/")
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
	return append(dirs, ".")
}
