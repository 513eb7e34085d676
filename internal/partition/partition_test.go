package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

func collectFiles(groups []*plan.Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Files...)
	}
	return out
}

func TestPartitionEmptyInput(t *testing.T) {
	assert.Nil(t, Partition(nil, 5, nil))
}

func TestPartitionSmallBucketsStaySimple(t *testing.T) {
	files := []string{"docs/a.md", "docs/b.md", "lib/util.go", "Makefile"}
	groups := Partition(files, 5, nil)

	require.Len(t, groups, 3)
	assert.Equal(t, "docs", groups[0].Name)
	assert.Equal(t, plan.GroupSimple, groups[0].GroupType)
	assert.Equal(t, "lib", groups[1].Name)
	assert.Equal(t, "root", groups[2].Name)
	assert.ElementsMatch(t, files, collectFiles(groups))
}

func TestPartitionOversizedDirectorySplits(t *testing.T) {
	// 12 files under src/ with max 5 must never yield one group of 12.
	var files []string
	for i := 0; i < 4; i++ {
		files = append(files, fmt.Sprintf("src/core/c%d.go", i))
		files = append(files, fmt.Sprintf("src/api/a%d.go", i))
		files = append(files, fmt.Sprintf("src/top%d.go", i))
	}
	groups := Partition(files, 5, nil)

	for _, g := range groups {
		assert.LessOrEqual(t, len(g.Files), 5, "group %s exceeds bound", g.Name)
		assert.Equal(t, len(g.Files), g.FileCount)
	}
	assert.ElementsMatch(t, files, collectFiles(groups))

	names := map[string]plan.GroupType{}
	for _, g := range groups {
		names[g.Name] = g.GroupType
	}
	assert.Equal(t, plan.GroupDirectFiles, names["src/direct"])
	assert.Equal(t, plan.GroupSubdir, names["src/api"])
	assert.Equal(t, plan.GroupSubdir, names["src/core"])
}

func TestPartitionRootSplitsAlphabetically(t *testing.T) {
	files := []string{
		"alpha.txt", "apple.txt", "avocado.txt",
		"beta.txt", "banana.txt",
		"1config.ini", "2config.ini",
		"_hidden.txt",
	}
	groups := Partition(files, 2, nil)

	names := map[string][]string{}
	for _, g := range groups {
		names[g.Name] = g.Files
	}

	// Three a-files with max 2 become batches; the rest fit as alpha groups.
	assert.Contains(t, names, "root-a-batch1")
	assert.Contains(t, names, "root-a-batch2")
	assert.Equal(t, []string{"beta.txt", "banana.txt"}, names["root-b"])
	assert.Equal(t, []string{"1config.ini", "2config.ini"}, names["root-0-9"])
	assert.Equal(t, []string{"_hidden.txt"}, names["root-other"])
	assert.ElementsMatch(t, files, collectFiles(groups))
}

func TestPartitionDeterministic(t *testing.T) {
	var files []string
	for i := 0; i < 30; i++ {
		files = append(files, fmt.Sprintf("pkg/mod%d/file%d.go", i%4, i))
	}

	first := Partition(files, 5, nil)
	second := Partition(files, 5, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Files, second[i].Files)
		assert.Equal(t, first[i].GroupType, second[i].GroupType)
	}
}

func TestPartitionSoundness(t *testing.T) {
	// Union of group files equals the input, each file exactly once.
	var files []string
	for i := 0; i < 57; i++ {
		files = append(files, fmt.Sprintf("a/b%d/c%d/deep%d.go", i%3, i%7, i))
	}
	groups := Partition(files, 4, nil)

	seen := map[string]int{}
	for _, g := range groups {
		require.NotEmpty(t, g.Files, "group %s is empty", g.Name)
		for _, f := range g.Files {
			seen[f]++
		}
	}
	assert.Len(t, seen, len(files))
	for f, n := range seen {
		assert.Equal(t, 1, n, "file %s appears %d times", f, n)
	}
}

func TestFallbackBatches(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e", "f", "g"}
	groups := FallbackBatches(files, 3)

	require.Len(t, groups, 3)
	assert.Equal(t, "batch-001", groups[0].Name)
	assert.Equal(t, "batch-003", groups[2].Name)
	assert.Equal(t, plan.GroupFallbackBatch, groups[0].GroupType)
	assert.Equal(t, []string{"g"}, groups[2].Files)
}
