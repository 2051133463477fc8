package task

import (
	"fmt"
	"sort"
)

// Group is the pending tasks of one quadrant in stored order.
type Group struct {
	Quadrant int    `json:"quadrant"`
	Tasks    []Task `json:"tasks"`
}

// Pending returns the tasks that are not done, preserving order.
func Pending(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	return out
}

// GroupByQuadrant buckets tasks by quadrant, quadrants ascending, keeping
// insertion order inside each bucket.
func GroupByQuadrant(tasks []Task) []Group {
	buckets := make(map[int][]Task)
	for _, t := range tasks {
		buckets[t.Quadrant] = append(buckets[t.Quadrant], t)
	}

	keys := make([]int, 0, len(buckets))
	for q := range buckets {
		keys = append(keys, q)
	}
	sort.Ints(keys)

	groups := make([]Group, 0, len(keys))
	for _, q := range keys {
		groups = append(groups, Group{Quadrant: q, Tasks: buckets[q]})
	}
	return groups
}

var quadrantLabels = map[int]string{
	1: "Urgent & important",
	2: "Important, not urgent",
	3: "Urgent, not important",
	4: "Neither urgent nor important",
}

// QuadrantLabel names a quadrant for display. Out-of-range quadrants, which
// the store accepts, are labelled by number.
func QuadrantLabel(q int) string {
	if l, ok := quadrantLabels[q]; ok {
		return l
	}
	return fmt.Sprintf("Quadrant %d", q)
}
