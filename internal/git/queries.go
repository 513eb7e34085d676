package git

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MergeBase resolves the common ancestor of two branches. Returns an
// error when the branches share no history; callers degrade to
// conservative classification rather than failing.
func (r *Repo) MergeBase(ctx context.Context, source, target string) (string, error) {
	base, err := r.run(ctx, "merge-base", source, target)
	if err != nil {
		return "", fmt.Errorf("resolve merge-base of %s and %s: %w", source, target, err)
	}
	return base, nil
}

// ChangedFiles lists the files that differ between two branches, in
// git's diff order.
func (r *Repo) ChangedFiles(ctx context.Context, source, target string) ([]string, error) {
	output, err := r.run(ctx, "diff", "--name-only", source, target)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", source, target, err)
	}
	return splitLines(output), nil
}

// DiffStats returns git's --stat summary for a branch pair, for display.
func (r *Repo) DiffStats(ctx context.Context, source, target string) (string, error) {
	return r.run(ctx, "diff", "--stat", source, target)
}

// FileDiffers reports whether a file's content differs between two
// commits. Exit status 1 from --quiet means "differs"; anything other
// than 0 or 1 is a real failure.
func (r *Repo) FileDiffers(ctx context.Context, from, to, path string) (bool, error) {
	err := r.runQuiet(ctx, "diff", "--quiet", from, to, "--", path)
	if err == nil {
		return false, nil
	}
	if exitCode(err) == 1 {
		return true, nil
	}
	return false, fmt.Errorf("diff probe for %s: %w", path, err)
}

// FileExistsOnBranch probes whether a path exists on a branch via
// cat-file. A probe failure counts as "does not exist".
func (r *Repo) FileExistsOnBranch(ctx context.Context, branch, path string) bool {
	return r.runQuiet(ctx, "cat-file", "-e", branch+":"+path) == nil
}

// AuthoredCommits returns the author name of every commit touching the
// given path (file or directory), newest first. A zero since means no
// time filter. For directories a commit touching N files under the path
// appears once per git log invocation but the caller counts it once;
// breadth weighting happens at the scoring layer.
func (r *Repo) AuthoredCommits(ctx context.Context, path string, since time.Time, follow bool) ([]string, error) {
	args := []string{"log", "--format=%an"}
	if follow {
		args = append(args, "--follow")
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format("2006-01-02"))
	}
	args = append(args, "--", path)

	output, err := r.run(ctx, args...)
	if err != nil {
		// A path with no history exits non-zero on some git versions;
		// treat it as empty history.
		if exitCode(err) > 0 {
			return nil, nil
		}
		return nil, err
	}
	return splitLines(output), nil
}

// RepoAuthors returns the author of every commit across all refs, with
// an optional time filter. Feeds the active/all-time contributor sets.
func (r *Repo) RepoAuthors(ctx context.Context, since time.Time) ([]string, error) {
	args := []string{"log", "--all", "--format=%an"}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format("2006-01-02"))
	}
	output, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("list repository authors: %w", err)
	}
	return splitLines(output), nil
}

// LastCommit returns the most recent commit hash touching a path, used
// as a cache key component. Empty when the path has no history.
func (r *Repo) LastCommit(ctx context.Context, path string) string {
	output, err := r.run(ctx, "log", "-1", "--format=%H", "--", path)
	if err != nil {
		return ""
	}
	return output
}

// ListBranches returns local branch names.
func (r *Repo) ListBranches(ctx context.Context) ([]string, error) {
	output, err := r.run(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return splitLines(output), nil
}

// ListRemoteBranches fetches and returns remote branch names with the
// remote prefix stripped.
func (r *Repo) ListRemoteBranches(ctx context.Context) ([]string, error) {
	if _, err := r.run(ctx, "fetch", "--all"); err != nil {
		r.log.WithError(err).Warn("fetch failed, listing known remote branches")
	}

	output, err := r.run(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}

	var out []string
	for _, b := range splitLines(output) {
		if b == "origin/HEAD" {
			continue
		}
		out = append(out, trimRemote(b))
	}
	return out, nil
}

// BranchExists reports whether a local branch exists.
func (r *Repo) BranchExists(ctx context.Context, name string) bool {
	return r.runQuiet(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name) == nil
}

func trimRemote(branch string) string {
	if i := strings.IndexByte(branch, '/'); i >= 0 {
		return branch[i+1:]
	}
	return branch
}
