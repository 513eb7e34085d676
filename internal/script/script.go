// Package script renders executable merge scripts for plan groups. It
// holds no decision logic: classification maps to a fixed per-file
// strategy and the rest is template expansion.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// Strategy is the per-file merge action a script performs.
type Strategy string

const (
	// StrategyCreate copies the file from the source branch and stages it.
	StrategyCreate Strategy = "create-and-add"
	// StrategyReplace overwrites the target copy with the source copy.
	StrategyReplace Strategy = "replace-from-source"
	// StrategyThreeWay attempts an automatic three-way merge, keeping
	// ancestor, target and source reference copies when it fails.
	StrategyThreeWay Strategy = "three-way"
	// StrategySkip leaves the file untouched.
	StrategySkip Strategy = "skip"
)

// StrategyFor maps a file classification to its merge strategy.
func StrategyFor(c plan.Classification) Strategy {
	switch c {
	case plan.ClassNew:
		return StrategyCreate
	case plan.ClassSourceOnly:
		return StrategyReplace
	case plan.ClassBothModified:
		return StrategyThreeWay
	default:
		return StrategySkip
	}
}

// ScriptsDirName is where generated scripts live inside the work dir.
const ScriptsDirName = "scripts"

type fileStep struct {
	Path     string
	Strategy Strategy
}

type scriptData struct {
	GroupName    string
	Assignee     string
	SourceBranch string
	TargetBranch string
	MergeBase    string
	WorkBranch   string
	Files        []fileStep
}

var scriptTmpl = template.Must(template.New("merge").Parse(`#!/bin/bash
# Merge script for group {{.GroupName}}
# Assignee: {{.Assignee}}
# Source:   {{.SourceBranch}}
# Target:   {{.TargetBranch}}
set -e

MERGE_BASE="{{.MergeBase}}"
if [ -z "$MERGE_BASE" ]; then
    MERGE_BASE=$(git merge-base "{{.TargetBranch}}" "{{.SourceBranch}}" || true)
fi

git checkout "{{.WorkBranch}}" 2>/dev/null || git checkout -b "{{.WorkBranch}}" "{{.TargetBranch}}"

conflicts=0
{{range .Files}}
{{- if eq .Strategy "create-and-add"}}
echo "new file: {{.Path}}"
mkdir -p "$(dirname "{{.Path}}")"
git show "{{$.SourceBranch}}:{{.Path}}" > "{{.Path}}"
git add "{{.Path}}"
{{- else if eq .Strategy "replace-from-source"}}
echo "replace from source: {{.Path}}"
git show "{{$.SourceBranch}}:{{.Path}}" > "{{.Path}}"
git add "{{.Path}}"
{{- else if eq .Strategy "three-way"}}
echo "three-way merge: {{.Path}}"
if [ -n "$MERGE_BASE" ]; then
    git show "$MERGE_BASE:{{.Path}}" > "{{.Path}}.ancestor" 2>/dev/null || : > "{{.Path}}.ancestor"
    git show "{{$.SourceBranch}}:{{.Path}}" > "{{.Path}}.source"
    if git merge-file "{{.Path}}" "{{.Path}}.ancestor" "{{.Path}}.source"; then
        rm -f "{{.Path}}.ancestor" "{{.Path}}.source"
        git add "{{.Path}}"
    else
        cp "{{.Path}}" "{{.Path}}.target"
        echo "  conflict in {{.Path}}, reference copies kept (.ancestor/.target/.source)"
        conflicts=$((conflicts + 1))
    fi
else
    echo "  no merge base, manual reconciliation needed for {{.Path}}"
    git show "{{$.SourceBranch}}:{{.Path}}" > "{{.Path}}.source"
    conflicts=$((conflicts + 1))
fi
{{- else}}
echo "unchanged, skipping: {{.Path}}"
{{- end}}
{{end}}
echo ""
if [ "$conflicts" -gt 0 ]; then
    echo "$conflicts file(s) need manual resolution before committing"
    exit 1
fi
echo "group {{.GroupName}} merged cleanly, review and commit"
`))

// Generator writes merge scripts under the plan work directory.
type Generator struct {
	dir string
	log *logrus.Logger
}

// NewGenerator creates a generator writing into workDir (the plan
// store's directory).
func NewGenerator(workDir string, log *logrus.Logger) *Generator {
	if log == nil {
		log = logrus.New()
	}
	return &Generator{dir: filepath.Join(workDir, ScriptsDirName), log: log}
}

// GroupScript renders the merge script for one group and returns the
// written path. The group must be assigned; the script works on the
// assignee's derived merge branch.
func (gen *Generator) GroupScript(p *plan.Plan, g *plan.Group) (string, error) {
	if g.Assignee == "" {
		return "", fmt.Errorf("group %s has no assignee", g.Name)
	}

	data := scriptData{
		GroupName:    g.Name,
		Assignee:     g.Assignee,
		SourceBranch: p.SourceBranch,
		TargetBranch: p.TargetBranch,
		MergeBase:    p.MergeBase,
		WorkBranch:   plan.MergeBranchName(g.Name, g.Assignee),
	}
	for _, f := range g.Files {
		data.Files = append(data.Files, fileStep{
			Path:     f,
			Strategy: StrategyFor(p.Classifications[f]),
		})
	}

	var buf strings.Builder
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render merge script for %s: %w", g.Name, err)
	}

	if err := os.MkdirAll(gen.dir, 0o755); err != nil {
		return "", fmt.Errorf("create scripts dir: %w", err)
	}
	path := filepath.Join(gen.dir, scriptName(g.Name))
	if err := os.WriteFile(path, []byte(buf.String()), 0o755); err != nil {
		return "", fmt.Errorf("write merge script: %w", err)
	}
	gen.log.WithFields(logrus.Fields{"group": g.Name, "path": path}).Debug("merge script written")
	return path, nil
}

func scriptName(group string) string {
	return "merge-" + strings.ReplaceAll(group, "/", "-") + ".sh"
}
