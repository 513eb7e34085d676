package git

import (
	"context"
	"fmt"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// Branch write operations. The planning engine never calls these; they
// belong to the script/branch preparation layer that acts on a plan.

// EnsureIntegrationBranch creates the integration branch for a branch
// pair off the target branch, or checks it out when it already exists.
func (r *Repo) EnsureIntegrationBranch(ctx context.Context, source, target string) (string, error) {
	name := plan.IntegrationBranchName(source, target)

	if r.BranchExists(ctx, name) {
		if _, err := r.run(ctx, "checkout", name); err != nil {
			return "", fmt.Errorf("checkout integration branch %s: %w", name, err)
		}
		r.log.WithField("branch", name).Info("switched to existing integration branch")
		return name, nil
	}

	if _, err := r.run(ctx, "checkout", "-b", name, target); err != nil {
		return "", fmt.Errorf("create integration branch %s: %w", name, err)
	}
	r.log.WithField("branch", name).Info("created integration branch")
	return name, nil
}

// CreateMergeBranch creates (or switches to) the working branch for one
// group's merge, branched off the integration branch.
func (r *Repo) CreateMergeBranch(ctx context.Context, group, assignee, integration string) (string, error) {
	name := plan.MergeBranchName(group, assignee)

	if _, err := r.run(ctx, "checkout", integration); err != nil {
		return "", fmt.Errorf("checkout %s: %w", integration, err)
	}
	if _, err := r.run(ctx, "checkout", "-b", name); err != nil {
		// Branch may already exist from a previous run.
		if _, err := r.run(ctx, "checkout", name); err != nil {
			return "", fmt.Errorf("switch to merge branch %s: %w", name, err)
		}
		r.log.WithField("branch", name).Warn("merge branch already existed, reusing")
	}
	return name, nil
}
