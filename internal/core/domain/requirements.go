package domain

import (
	"iter"
	"slices"
)

// Requirements is an insertion-ordered multimap from package name to the specs imposed on it.
// The zero value is not usable, create one with NewRequirements.
type Requirements[V any] struct {
	names []string
	specs map[string][]V
}

// NewRequirements creates an empty Requirements.
func NewRequirements[V any]() *Requirements[V] {
	return &Requirements[V]{specs: make(map[string][]V)}
}

// Len returns the number of distinct package names.
func (r *Requirements[V]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// IsEmpty reports whether no package is declared.
func (r *Requirements[V]) IsEmpty() bool {
	return r.Len() == 0
}

// Contains reports whether name has at least one spec.
func (r *Requirements[V]) Contains(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.specs[name]
	return ok
}

// Names returns the package names in insertion order.
func (r *Requirements[V]) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}

// Get returns the specs for name in the order they were added.
func (r *Requirements[V]) Get(name string) []V {
	if r == nil {
		return nil
	}
	return slices.Clone(r.specs[name])
}

// Set replaces the specs of name. A new name is appended, an existing one keeps its position.
func (r *Requirements[V]) Set(name string, specs ...V) {
	if _, ok := r.specs[name]; !ok {
		r.names = append(r.names, name)
	}
	r.specs[name] = slices.Clone(specs)
}

// Add appends spec to the specs of name.
func (r *Requirements[V]) Add(name string, spec V) {
	if _, ok := r.specs[name]; !ok {
		r.names = append(r.names, name)
	}
	r.specs[name] = append(r.specs[name], spec)
}

// All iterates over the packages in insertion order.
func (r *Requirements[V]) All() iter.Seq2[string, []V] {
	return func(yield func(string, []V) bool) {
		if r == nil {
			return
		}
		for _, name := range r.names {
			if !yield(name, r.specs[name]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of r.
func (r *Requirements[V]) Clone() *Requirements[V] {
	out := NewRequirements[V]()
	for name, specs := range r.All() {
		out.Set(name, specs...)
	}
	return out
}

// Union returns a new Requirements holding r followed by other.
// Specs for a package present in both are appended, never replaced.
func (r *Requirements[V]) Union(other *Requirements[V]) *Requirements[V] {
	out := r.Clone()
	for name, specs := range other.All() {
		for _, spec := range specs {
			out.Add(name, spec)
		}
	}
	return out
}

// Extend returns a new Requirements holding r with the packages of other set over it.
// A package of other replaces the specs of r and keeps r's position, new packages are appended.
func (r *Requirements[V]) Extend(other *Requirements[V]) *Requirements[V] {
	out := r.Clone()
	for name, specs := range other.All() {
		out.Set(name, specs...)
	}
	return out
}
