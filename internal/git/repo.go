package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNotRepository is returned when the working directory is not inside
// a git work tree. This is one of the few fatal conditions: nothing in
// the planner can degrade around a missing repository.
var ErrNotRepository = errors.New("not a git repository")

// Repo runs read-only git queries against one repository. It is the
// version-control adapter the planning engine depends on; all planning
// decisions go through this surface so tests can fake it.
type Repo struct {
	path string
	log  *logrus.Logger
}

// NewRepo creates an adapter rooted at the given repository path.
func NewRepo(path string, log *logrus.Logger) *Repo {
	if log == nil {
		log = logrus.New()
	}
	return &Repo{path: path, log: log}
}

// Path returns the repository root the adapter operates on.
func (r *Repo) Path() string {
	return r.path
}

// Detect verifies the path is inside a git work tree.
func (r *Repo) Detect(ctx context.Context) error {
	if err := r.runQuiet(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return fmt.Errorf("%w: %s", ErrNotRepository, r.path)
	}
	return nil
}

// FindRoot returns the top-level directory of the repository containing
// the given path.
func FindRoot(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = path
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	return strings.TrimSpace(string(output)), nil
}

// run executes a git command and returns its trimmed stdout.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w (stderr: %s)",
				args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(output)), nil
}

// runQuiet executes a git command for its exit status only. Used for
// existence probes where a non-zero exit is an answer, not a failure.
func (r *Repo) runQuiet(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path
	return cmd.Run()
}

// exitCode extracts the process exit code from a command error, or -1
// when the process never ran.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// splitLines splits command output into non-empty trimmed lines.
func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
