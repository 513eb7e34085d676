// Package partition splits a changed-file set into bounded-size,
// directory-coherent groups. The splitter is iterative with an explicit
// work stack so arbitrarily deep trees cannot exhaust the call stack.
package partition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

// rootBucket is the sentinel bucket for files with no path separator.
const rootBucket = "root"

// Partition groups files under the size bound with deterministic names
// encoding each group's derivation path. Any unexpected fault falls back
// to fixed-size sequential batches instead of propagating; partitioning
// must never fail the planning pass.
func Partition(files []string, maxPerGroup int, log *logrus.Logger) (groups []*plan.Group) {
	if log == nil {
		log = logrus.New()
	}
	if len(files) == 0 {
		return nil
	}
	if maxPerGroup < 1 {
		maxPerGroup = 1
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("partitioning failed, falling back to sequential batches")
			groups = FallbackBatches(files, maxPerGroup)
		}
	}()

	groups = split(files, maxPerGroup)
	return groups
}

// bucket is one pending unit of splitting work.
type bucket struct {
	name  string
	files []string
}

func split(files []string, maxPerGroup int) []*plan.Group {
	var groups []*plan.Group

	// Work stack of pending buckets, seeded with the top-level split.
	// Buckets are pushed in reverse-sorted order so popping yields
	// deterministic, sorted output.
	var stack []bucket
	push := func(items []bucket) {
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, items[i])
		}
	}

	push(bucketBy(files, topSegment))

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(b.files) <= maxPerGroup {
			gt := plan.GroupSimple
			if strings.Contains(b.name, "/") {
				gt = plan.GroupSubdir
			}
			groups = append(groups, newGroup(b.name, b.files, gt))
			continue
		}

		if b.name == rootBucket {
			groups = append(groups, splitAlphabetic(b.name, b.files, maxPerGroup)...)
			continue
		}

		// Oversized directory bucket: files directly inside the
		// directory form one group, each subdirectory goes back on the
		// stack for the same treatment.
		direct, subdirs := splitByImmediateSubdir(b.name, b.files)
		if len(direct) > 0 {
			name := b.name + "/direct"
			if len(direct) <= maxPerGroup {
				groups = append(groups, newGroup(name, direct, plan.GroupDirectFiles))
			} else {
				groups = append(groups, batches(name, direct, maxPerGroup, plan.GroupBatch)...)
			}
		}
		push(subdirs)
	}

	return groups
}

// topSegment buckets a path by its first segment, or the root sentinel.
func topSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return rootBucket
}

// bucketBy groups files by key, returning buckets in sorted key order.
func bucketBy(files []string, key func(string) string) []bucket {
	byKey := make(map[string][]string)
	for _, f := range files {
		k := key(f)
		byKey[k] = append(byKey[k], f)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, bucket{name: k, files: byKey[k]})
	}
	return out
}

// splitByImmediateSubdir separates an oversized directory bucket into
// files directly under the directory and per-subdirectory buckets.
func splitByImmediateSubdir(dir string, files []string) (direct []string, subdirs []bucket) {
	prefix := dir + "/"
	byName := make(map[string][]string)
	var order []string

	for _, f := range files {
		rel := strings.TrimPrefix(f, prefix)
		if rel == f || !strings.Contains(rel, "/") {
			direct = append(direct, f)
			continue
		}
		sub := dir + "/" + rel[:strings.IndexByte(rel, '/')]
		if _, ok := byName[sub]; !ok {
			order = append(order, sub)
		}
		byName[sub] = append(byName[sub], f)
	}

	sort.Strings(order)
	for _, name := range order {
		subdirs = append(subdirs, bucket{name: name, files: byName[name]})
	}
	return direct, subdirs
}

// splitAlphabetic splits the root bucket by first character of the
// filename: one bucket per letter, digits together, everything else
// together. Still-oversized letter buckets fall through to batches.
func splitAlphabetic(base string, files []string, maxPerGroup int) []*plan.Group {
	groups := bucketBy(files, func(path string) string {
		name := path
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			name = path[i+1:]
		}
		if name == "" {
			return base + "-other"
		}
		c := name[0] | 0x20 // lowercase ASCII letters
		switch {
		case c >= 'a' && c <= 'z':
			return base + "-" + string(c)
		case name[0] >= '0' && name[0] <= '9':
			return base + "-0-9"
		default:
			return base + "-other"
		}
	})

	var out []*plan.Group
	for _, b := range groups {
		if len(b.files) <= maxPerGroup {
			out = append(out, newGroup(b.name, b.files, plan.GroupAlpha))
		} else {
			out = append(out, batches(b.name, b.files, maxPerGroup, plan.GroupBatch)...)
		}
	}
	return out
}

// batches cuts files into fixed-size sequential groups named
// <base>-batch1, <base>-batch2, ...
func batches(base string, files []string, size int, gt plan.GroupType) []*plan.Group {
	var out []*plan.Group
	for i := 0; i < len(files); i += size {
		end := i + size
		if end > len(files) {
			end = len(files)
		}
		name := fmt.Sprintf("%s-batch%d", base, i/size+1)
		out = append(out, newGroup(name, files[i:end], gt))
	}
	return out
}

// FallbackBatches is the partitioner's circuit breaker: the whole file
// set cut into sequential batches with no directory structure at all.
func FallbackBatches(files []string, size int) []*plan.Group {
	if size < 1 {
		size = 1
	}
	var out []*plan.Group
	for i := 0; i < len(files); i += size {
		end := i + size
		if end > len(files) {
			end = len(files)
		}
		name := fmt.Sprintf("batch-%03d", i/size+1)
		out = append(out, newGroup(name, files[i:end], plan.GroupFallbackBatch))
	}
	return out
}

func newGroup(name string, files []string, gt plan.GroupType) *plan.Group {
	return &plan.Group{
		Name:         name,
		Files:        files,
		FileCount:    len(files),
		GroupType:    gt,
		Status:       plan.StatusPending,
		Contributors: map[string]plan.ContributorStats{},
	}
}
