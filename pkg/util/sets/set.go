// Package sets provides a small generic set.
package sets

import (
	"sort"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

type Empty struct{}

// Set is a set of comparable items, implemented via map[T]struct{} for minimal memory consumption.
type Set[T comparable] map[T]Empty

// New creates a Set from a list of values.
func New[T comparable](items ...T) Set[T] {
	return Set[T]{}.Insert(items...)
}

// Insert adds items to the set.
func (s Set[T]) Insert(items ...T) Set[T] {
	for _, item := range items {
		s[item] = Empty{}
	}
	return s
}

// Delete removes all items from the set.
func (s Set[T]) Delete(items ...T) Set[T] {
	for _, item := range items {
		delete(s, item)
	}
	return s
}

// Has returns true if and only if item is contained in the set.
func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

// Len returns the size of the set.
func (s Set[T]) Len() int { return len(s) }

// UnsortedList returns the items in random order.
func (s Set[T]) UnsortedList() []T { return maps.Keys(s) }

// Sorted returns the items of s in ascending order.
func Sorted[T constraints.Ordered](s Set[T]) []T {
	list := maps.Keys(s)
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
