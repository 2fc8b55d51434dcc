// Package dag orders nodes of a dependency graph.
package dag

import "fmt"

// Edge states that From must come before To
type Edge[T comparable] struct {
	From, To T
}

// CycleError reports a dependency cycle; From and To name one edge still
// unresolved when no node without incoming edges remained
type CycleError[T comparable] struct {
	From, To  T
	Remaining int // Unresolved edge count
}

func (e *CycleError[T]) Error() string {
	return fmt.Sprintf("dependency cycle: %v -> %v (%d edges unresolved)", e.From, e.To, e.Remaining)
}

// Sort computes a topological order using Kahn's algorithm.
// Ties are broken by position in nodes, so equal inputs give equal outputs.
// Duplicate edges count once; edges touching nodes outside the set are ignored.
func Sort[T comparable](nodes []T, edges []Edge[T]) ([]T, error) {
	inDegree := make(map[T]int, len(nodes))
	for _, n := range nodes {
		inDegree[n] = 0
	}

	seen := make(map[Edge[T]]struct{}, len(edges))
	dependents := make(map[T][]T) // from -> nodes waiting on it
	var live []Edge[T]

	for _, e := range edges {
		if _, ok := inDegree[e.From]; !ok {
			continue
		}
		if _, ok := inDegree[e.To]; !ok {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		live = append(live, e)
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	queue := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]T, 0, len(nodes))
	done := make(map[T]bool, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if done[n] {
			continue
		}
		done[n] = true
		result = append(result, n)

		for _, dep := range dependents[n] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(result) != len(inDegree) {
		return nil, cycleError(live, done)
	}

	return result, nil
}

// cycleError picks an edge between nodes that sit on, or between, cycles.
// Nodes only downstream of a cycle are pruned first so the reported pair is
// never an innocent dependent.
func cycleError[T comparable](live []Edge[T], done map[T]bool) *CycleError[T] {
	var rest []Edge[T]
	outDegree := make(map[T]int)
	preds := make(map[T][]T)
	for _, e := range live {
		if done[e.From] || done[e.To] {
			continue
		}
		rest = append(rest, e)
		outDegree[e.From]++
		if _, ok := outDegree[e.To]; !ok {
			outDegree[e.To] = 0
		}
		preds[e.To] = append(preds[e.To], e.From)
	}

	var sinks []T
	for n, d := range outDegree {
		if d == 0 {
			sinks = append(sinks, n)
		}
	}
	pruned := make(map[T]bool)
	for len(sinks) > 0 {
		n := sinks[len(sinks)-1]
		sinks = sinks[:len(sinks)-1]
		pruned[n] = true
		for _, p := range preds[n] {
			outDegree[p]--
			if outDegree[p] == 0 {
				sinks = append(sinks, p)
			}
		}
	}

	err := &CycleError[T]{Remaining: len(rest)}
	for _, e := range rest {
		if !pruned[e.From] && !pruned[e.To] {
			err.From, err.To = e.From, e.To
			return err
		}
	}
	if len(rest) > 0 {
		err.From, err.To = rest[0].From, rest[0].To
	}
	return err
}
