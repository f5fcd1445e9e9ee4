// Package aggregate groups sweep results into ordered series.
package aggregate

import (
	"cmp"
	"slices"
)

// Group holds the items sharing one primary-coordinate value, sorted by the
// secondary coordinate.
type Group[T any] struct {
	// Key is the primary-coordinate value shared by all items.
	Key int

	// Items are sorted ascending by the secondary coordinate.
	Items []T
}

// By groups items by primary and sorts each group ascending by secondary.
// Groups are returned in ascending key order. Items with equal secondary
// values keep their input order. The input slice is not modified.
func By[T any](items []T, primary, secondary func(T) int) []Group[T] {
	index := make(map[int]int)
	var groups []Group[T]

	for _, item := range items {
		key := primary(item)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Key: key})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b T) int {
			return cmp.Compare(secondary(a), secondary(b))
		})
	}

	slices.SortFunc(groups, func(a, b Group[T]) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return groups
}

// Keys returns the group keys in order.
func Keys[T any](groups []Group[T]) []int {
	keys := make([]int, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

// SecondaryValues returns the sorted distinct secondary values across all
// groups, the shared x axis of a chart.
func SecondaryValues[T any](groups []Group[T], secondary func(T) int) []int {
	var values []int
	for _, g := range groups {
		for _, item := range g.Items {
			values = append(values, secondary(item))
		}
	}
	slices.Sort(values)
	return slices.Compact(values)
}
