package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// CycleError reports a dependency cycle between tasks.
// Path starts and ends with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	var b strings.Builder
	b.WriteString(ErrCycleDetected.Error())
	b.WriteString(": ")
	for i, name := range e.Path {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(name)
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrCycleDetected.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// Graph is the dependency graph of the tasks a run needs.
// Tasks are ordered by Validate, which must succeed before Walk is used.
type Graph struct {
	tasks map[InternedString]Task
	added []InternedString
	order []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{tasks: make(map[InternedString]Task)}
}

// AddTask adds a task to the graph. Names must be unique.
func (g *Graph) AddTask(t *Task) error {
	if g.Contains(t.Name) {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	g.added = append(g.added, t.Name)
	return nil
}

// Contains reports whether a task with the given name was added.
func (g *Graph) Contains(name InternedString) bool {
	_, ok := g.tasks[name]
	return ok
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Validate orders the tasks so that every task comes after its dependencies.
// Roots are taken in the order they were added, which makes the order deterministic.
// It fails on a missing dependency or a cycle.
func (g *Graph) Validate() error {
	g.order = make([]InternedString, 0, len(g.tasks))
	state := make(map[InternedString]visitState, len(g.tasks))
	var stack []InternedString

	var visit func(name InternedString) error
	visit = func(name InternedString) error {
		task, ok := g.tasks[name]
		if !ok {
			return zerr.With(ErrMissingDependency, "dependency", name.String())
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range task.Dependencies {
			switch state[dep] {
			case visiting:
				return cycleFrom(stack, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done

		g.order = append(g.order, name)
		return nil
	}

	for _, name := range g.added {
		if state[name] != unvisited {
			continue
		}
		if err := visit(name); err != nil {
			g.order = nil
			return err
		}
	}
	return nil
}

// cycleFrom returns the cycle closed by an edge from the top of stack back to dep.
func cycleFrom(stack []InternedString, dep InternedString) *CycleError {
	start := max(slices.Index(stack, dep), 0)
	path := make([]string, 0, len(stack)-start+1)
	for _, name := range stack[start:] {
		path = append(path, name.String())
	}
	return &CycleError{Path: append(path, dep.String())}
}

// Walk yields the tasks dependencies first.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.order {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
