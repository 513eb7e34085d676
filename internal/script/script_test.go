package script

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		class plan.Classification
		want  Strategy
	}{
		{plan.ClassNew, StrategyCreate},
		{plan.ClassSourceOnly, StrategyReplace},
		{plan.ClassBothModified, StrategyThreeWay},
		{plan.ClassUnchanged, StrategySkip},
		{"", StrategySkip},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrategyFor(tt.class))
	}
}

func TestGroupScript(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, nil)

	p := &plan.Plan{
		SourceBranch: "feature/login",
		TargetBranch: "main",
		MergeBase:    "abc123",
		Classifications: map[string]plan.Classification{
			"src/auth/new.go":  plan.ClassNew,
			"src/auth/hot.go":  plan.ClassBothModified,
			"src/auth/easy.go": plan.ClassSourceOnly,
			"src/auth/same.go": plan.ClassUnchanged,
		},
	}
	g := &plan.Group{
		Name:     "src/auth",
		Assignee: "alice",
		Files:    []string{"src/auth/new.go", "src/auth/hot.go", "src/auth/easy.go", "src/auth/same.go"},
	}

	path, err := gen.GroupScript(p, g)
	require.NoError(t, err)
	assert.Contains(t, path, "merge-src-auth.sh")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "script must be executable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)

	assert.Contains(t, body, "#!/bin/bash")
	assert.Contains(t, body, "feat/merge-src-auth-alice")
	assert.Contains(t, body, `git show "feature/login:src/auth/new.go"`)
	assert.Contains(t, body, "git merge-file")
	assert.Contains(t, body, "src/auth/hot.go.ancestor")
	assert.Contains(t, body, "unchanged, skipping: src/auth/same.go")
}

func TestGroupScriptRequiresAssignee(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil)
	_, err := gen.GroupScript(&plan.Plan{}, &plan.Group{Name: "g"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assignee")
}
