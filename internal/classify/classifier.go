// Package classify determines each changed file's merge situation
// relative to the common ancestor of a branch pair. The classification
// drives which merge strategy the script layer applies per file, so a
// wrong answer here either loses target-side work or wastes a human's
// attention on a clean replacement.
package classify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// Queries is the version-control surface the classifier needs.
type Queries interface {
	MergeBase(ctx context.Context, source, target string) (string, error)
	FileDiffers(ctx context.Context, from, to, path string) (bool, error)
	FileExistsOnBranch(ctx context.Context, branch, path string) bool
}

// Result is the outcome of classifying one changed-file set.
type Result struct {
	// MergeBase is the resolved common ancestor, empty in conservative mode.
	MergeBase string
	// Conservative is set when no ancestor could be resolved and every
	// existing file was treated as a potential conflict.
	Conservative bool
	// Classes maps every file in the changed set to its classification.
	Classes map[string]plan.Classification
	// TargetOnly lists files whose only divergence is on the target
	// branch. They are not part of what the source branch merges in and
	// are excluded from the changed set entirely.
	TargetOnly []string
}

// Files returns the classified changed-file set in input order,
// excluding target-only files.
func (r *Result) Files(input []string) []string {
	var out []string
	for _, f := range input {
		if _, ok := r.Classes[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Classifier classifies changed files for a branch pair.
type Classifier struct {
	git Queries
	log *logrus.Logger
}

// New creates a classifier over the given git query surface.
func New(git Queries, log *logrus.Logger) *Classifier {
	if log == nil {
		log = logrus.New()
	}
	return &Classifier{git: git, log: log}
}

// Classify maps every changed file to exactly one classification.
//
// When the ancestor cannot be resolved the classifier degrades to
// conservative mode: every file present on the target branch becomes
// BOTH_MODIFIED. That over-reports conflicts but never under-reports
// risk. A failed existence probe counts the file as NEW; a failed diff
// probe counts the branch as diverged. No probe failure aborts the pass.
func (c *Classifier) Classify(ctx context.Context, source, target string, files []string) (*Result, error) {
	result := &Result{Classes: make(map[string]plan.Classification, len(files))}

	base, err := c.git.MergeBase(ctx, source, target)
	if err != nil || base == "" {
		c.log.WithError(err).Warn("no common ancestor, using conservative classification")
		result.Conservative = true
		for _, f := range files {
			if c.git.FileExistsOnBranch(ctx, target, f) {
				result.Classes[f] = plan.ClassBothModified
			} else {
				result.Classes[f] = plan.ClassNew
			}
		}
		return result, nil
	}
	result.MergeBase = base

	for _, f := range files {
		if !c.git.FileExistsOnBranch(ctx, target, f) {
			result.Classes[f] = plan.ClassNew
			continue
		}

		sourceDiffers := c.probe(ctx, base, source, f)
		targetDiffers := c.probe(ctx, base, target, f)

		switch {
		case sourceDiffers && targetDiffers:
			result.Classes[f] = plan.ClassBothModified
		case sourceDiffers:
			result.Classes[f] = plan.ClassSourceOnly
		case targetDiffers:
			// Changed only on the target branch: not part of what the
			// source branch intends to merge in.
			result.TargetOnly = append(result.TargetOnly, f)
		default:
			result.Classes[f] = plan.ClassUnchanged
		}
	}

	return result, nil
}

// probe asks whether path differs between the ancestor and a branch,
// treating probe failure as "differs" so degraded runs stay safe.
func (c *Classifier) probe(ctx context.Context, base, branch, path string) bool {
	differs, err := c.git.FileDiffers(ctx, base, branch, path)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("diff probe failed, assuming divergence")
		return true
	}
	return differs
}
