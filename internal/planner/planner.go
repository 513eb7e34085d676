// Package planner runs the full planning pipeline: diff, classify,
// partition, score, assign, persist. Each pass completes before the
// next starts because assignment depends on the complete scored set.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mergepilot/mergepilot-go/internal/assign"
	"github.com/mergepilot/mergepilot-go/internal/classify"
	"github.com/mergepilot/mergepilot-go/internal/config"
	"github.com/mergepilot/mergepilot-go/internal/contrib"
	"github.com/mergepilot/mergepilot-go/internal/partition"
	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// ErrNothingToMerge signals an empty changed-file set. It is not a
// failure; there is simply no plan to create.
var ErrNothingToMerge = errors.New("no changed files between branches, nothing to merge")

// Git is the complete version-control query surface the pipeline needs.
type Git interface {
	ChangedFiles(ctx context.Context, target, source string) ([]string, error)
	MergeBase(ctx context.Context, source, target string) (string, error)
	FileDiffers(ctx context.Context, from, to, path string) (bool, error)
	FileExistsOnBranch(ctx context.Context, branch, path string) bool
	AuthoredCommits(ctx context.Context, path string, since time.Time, follow bool) ([]string, error)
	RepoAuthors(ctx context.Context, since time.Time) ([]string, error)
	LastCommit(ctx context.Context, path string) string
}

// Planner wires the pipeline components together.
type Planner struct {
	git   Git
	cfg   *config.Config
	cache *contrib.Cache
	log   *logrus.Logger
	now   func() time.Time
	newID func() string
}

// New creates a planner. cache may be nil to disable contributor
// caching.
func New(git Git, cfg *config.Config, cache *contrib.Cache, log *logrus.Logger) *Planner {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.New()
	}
	return &Planner{git: git, cfg: cfg, cache: cache, log: log, now: time.Now, newID: uuid.NewString}
}

// Result pairs the created plan with diagnostics the CLI reports.
type Result struct {
	Plan       *plan.Plan
	TargetOnly []string
	Assignment assign.Summary
}

// Create runs the whole pipeline for a branch pair and returns the
// finished plan. The caller persists it.
func (pl *Planner) Create(ctx context.Context, source, target string) (*Result, error) {
	changed, err := pl.git.ChangedFiles(ctx, target, source)
	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", err)
	}
	if len(changed) == 0 {
		return nil, ErrNothingToMerge
	}
	pl.log.WithField("files", len(changed)).Info("classifying changed files")

	classified, err := classify.New(pl.git, pl.log).Classify(ctx, source, target, changed)
	if err != nil {
		return nil, fmt.Errorf("classify changed files: %w", err)
	}
	files := classified.Files(changed)
	if len(files) == 0 {
		return nil, ErrNothingToMerge
	}

	groups := partition.Partition(files, pl.cfg.Plan.MaxFilesPerGroup, pl.log)
	pl.log.WithField("groups", len(groups)).Info("partitioned changed files")

	scorer := contrib.NewScorer(pl.git, contrib.Config{
		RecentWeight:   pl.cfg.Analysis.RecentWeight,
		TotalWeight:    pl.cfg.Analysis.TotalWeight,
		AnalysisMonths: pl.cfg.Analysis.AnalysisMonths,
		Parallelism:    pl.cfg.Analysis.Parallelism,
	}, pl.cache, pl.log)
	if err := scorer.BatchScoreGroups(ctx, groups); err != nil {
		return nil, fmt.Errorf("score groups: %w", err)
	}

	session := contrib.NewSession(pl.git, pl.cfg.Analysis.ActiveMonths, pl.log)
	engine := assign.New(scorer, session, pl.log)

	p := &plan.Plan{
		ID:                pl.newID(),
		CreatedAt:         plan.Timestamp(pl.now()),
		SourceBranch:      source,
		TargetBranch:      target,
		IntegrationBranch: plan.IntegrationBranchName(source, target),
		MergeBase:         classified.MergeBase,
		Conservative:      classified.Conservative,
		TotalFiles:        len(files),
		TotalGroups:       len(groups),
		MaxFilesPerGroup:  pl.cfg.Plan.MaxFilesPerGroup,
		Classifications:   classified.Classes,
		Groups:            groups,
	}

	summary, err := engine.Assign(ctx, p, assign.Options{
		MaxTasksPerPerson: pl.cfg.Assign.MaxTasksPerPerson,
		Exclude:           pl.cfg.Assign.Exclude,
		EnableFallback:    pl.cfg.Assign.EnableFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("assign groups: %w", err)
	}

	return &Result{Plan: p, TargetOnly: classified.TargetOnly, Assignment: summary}, nil
}

// Reassign reruns assignment over an existing plan, clearing owners of
// incomplete groups first. Completed groups keep their assignees.
func (pl *Planner) Reassign(ctx context.Context, p *plan.Plan) (assign.Summary, error) {
	for _, g := range p.Groups {
		if g.Status == plan.StatusCompleted {
			continue
		}
		g.Assignee = ""
		g.Status = plan.StatusPending
		g.AssignedAt = ""
		g.AssignmentReason = ""
		g.FallbackReason = ""
	}

	scorer := contrib.NewScorer(pl.git, contrib.Config{
		RecentWeight:   pl.cfg.Analysis.RecentWeight,
		TotalWeight:    pl.cfg.Analysis.TotalWeight,
		AnalysisMonths: pl.cfg.Analysis.AnalysisMonths,
		Parallelism:    pl.cfg.Analysis.Parallelism,
	}, pl.cache, pl.log)
	session := contrib.NewSession(pl.git, pl.cfg.Analysis.ActiveMonths, pl.log)
	engine := assign.New(scorer, session, pl.log)

	return engine.Assign(ctx, p, assign.Options{
		MaxTasksPerPerson: pl.cfg.Assign.MaxTasksPerPerson,
		Exclude:           pl.cfg.Assign.Exclude,
		EnableFallback:    pl.cfg.Assign.EnableFallback,
	})
}
