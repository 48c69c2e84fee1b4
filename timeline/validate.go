package timeline

import (
	"fmt"
	"strings"
)

// IssueKind classifies link problems
type IssueKind string

const (
	IssueMissingBranchSource IssueKind = "missing-branch-source"
	IssueMissingMergeTarget  IssueKind = "missing-merge-target"
	IssueCycle               IssueKind = "cycle"
)

// LinkIssue is a branch/merge graph problem found after loading
type LinkIssue struct {
	Timeline ID
	Kind     IssueKind
	Detail   string
}

// String implements fmt.Stringer
func (i LinkIssue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Timeline, i.Kind, i.Detail)
}

// ValidateLinks checks that link targets are loaded and that the
// branch/merge graph is acyclic; dispatch guards cycles at runtime regardless
func ValidateLinks(lib *Library) []LinkIssue {
	var issues []LinkIssue
	ids := lib.IDs()

	edges := make(map[ID][]ID, len(ids))
	for _, id := range ids {
		tl, _ := lib.Get(id)
		if p := tl.BranchFrom; p != nil {
			if _, ok := lib.Get(p.Timeline); !ok {
				issues = append(issues, LinkIssue{id, IssueMissingBranchSource, "branch_from " + p.String()})
			} else {
				edges[id] = append(edges[id], p.Timeline)
			}
		}
		if p := tl.MergeInto; p != nil {
			if _, ok := lib.Get(p.Timeline); !ok {
				issues = append(issues, LinkIssue{id, IssueMissingMergeTarget, "merge_into " + p.String()})
			} else {
				edges[id] = append(edges[id], p.Timeline)
			}
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[ID]int, len(ids))
	var stack []ID
	var visit func(id ID)
	visit = func(id ID) {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				parts := make([]string, 0, len(stack)-start+1)
				for _, s := range stack[start:] {
					parts = append(parts, string(s))
				}
				parts = append(parts, string(next))
				issues = append(issues, LinkIssue{next, IssueCycle, strings.Join(parts, " -> ")})
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}
	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
	}
	return issues
}
