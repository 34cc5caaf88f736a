package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Build validates a set of activities and assembles its precedence graph.
//
// Validation is fail-fast and runs in this order: activity records, start and
// end activities, reference consistency (while filling the adjacency matrix),
// connectivity, acyclicity. The first violation is returned as a *Error.
func Build(acts []Activity) (*Network, error) {
	n := &Network{
		Activities: cloneActivities(acts),
		index:      make(map[int]int, len(acts)),
	}

	// Index all activities
	for h, a := range n.Activities {
		if a.ID <= 0 {
			return nil, invalidf("activity id %d is not positive", a.ID)
		}
		if _, dup := n.index[a.ID]; dup {
			return nil, invalidf("activity %d is defined more than once", a.ID)
		}
		if strings.TrimSpace(a.Label) == "" {
			return nil, invalidf("activity %d has an empty label", a.ID)
		}
		if a.Duration <= 0 {
			return nil, invalidf("activity %d has duration %d, durations must be positive", a.ID, a.Duration)
		}
		n.index[a.ID] = h
	}

	// Start and end activities are classified from the declared lists alone,
	// before any reference is resolved.
	for h, a := range n.Activities {
		if len(a.Predecessors) == 0 {
			n.Starts = append(n.Starts, h)
		}
		if len(a.Successors) == 0 {
			n.Ends = append(n.Ends, h)
		}
	}
	if len(n.Starts) == 0 {
		return nil, &Error{Kind: ErrNoStartActivity}
	}
	if len(n.Ends) == 0 {
		return nil, &Error{Kind: ErrNoEndActivity}
	}

	if err := n.buildAdjacency(); err != nil {
		return nil, err
	}

	if unreached := n.Unreachable(); len(unreached) > 0 {
		return nil, disconnectedError(n.Activities[0].ID, unreached)
	}

	if cycle := n.DetectCycle(); cycle != nil {
		return nil, cycleError(cycle)
	}

	return n, nil
}

func cloneActivities(acts []Activity) []Activity {
	out := make([]Activity, len(acts))
	for i, a := range acts {
		out[i] = a
		out[i].Predecessors = slices.Clone(a.Predecessors)
		out[i].Successors = slices.Clone(a.Successors)
	}
	return out
}

// buildAdjacency fills the adjacency matrix from the successor lists and
// checks that every reference resolves and is mirrored on the other side.
func (n *Network) buildAdjacency() error {
	n.Adj = make([][]bool, len(n.Activities))
	for i := range n.Adj {
		n.Adj[i] = make([]bool, len(n.Activities))
	}

	for row, a := range n.Activities {
		for _, succ := range a.Successors {
			col, ok := n.index[succ]
			if !ok {
				return danglingError(a.ID, succ, RelSuccessor)
			}
			if !slices.Contains(n.Activities[col].Predecessors, a.ID) {
				return asymmetricError(a.ID, succ, RelSuccessor)
			}
			n.Adj[row][col] = true
		}
	}

	// Every successor edge is now mirrored by a predecessor entry. The
	// opposite direction still needs checking.
	for _, a := range n.Activities {
		for _, pred := range a.Predecessors {
			h, ok := n.index[pred]
			if !ok {
				return danglingError(a.ID, pred, RelPredecessor)
			}
			if !slices.Contains(n.Activities[h].Successors, a.ID) {
				return asymmetricError(a.ID, pred, RelPredecessor)
			}
		}
	}
	return nil
}

// Unreachable treats the graph as undirected and returns, in input order, the
// ids of all activities that cannot be reached from the first activity.
func (n *Network) Unreachable() []int {
	size := len(n.Activities)
	if size == 0 {
		return nil
	}

	// Symmetric closure of the adjacency matrix
	sym := make([][]bool, size)
	for i := range sym {
		sym[i] = make([]bool, size)
	}
	for i := range n.Adj {
		for j, ok := range n.Adj[i] {
			if ok {
				sym[i][j] = true
				sym[j][i] = true
			}
		}
	}

	visited := make([]bool, size)
	visited[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next, ok := range sym[cur] {
			if ok && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreached []int
	for h, seen := range visited {
		if !seen {
			unreached = append(unreached, n.Activities[h].ID)
		}
	}
	return unreached
}

// DetectCycle returns a cyclic chain of external ids, starting and ending with
// the same activity, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (on the current path), black (done).
// Start activities are explored first so the reported chain is usually one
// reachable from the beginning of the project; the remaining activities are
// explored afterwards to catch cycles no start activity leads into.
func (n *Network) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(n.Activities))
	var stack []int

	var dfs func(h int) []int
	dfs = func(h int) []int {
		color[h] = gray
		stack = append(stack, h)
		for next, ok := range n.Adj[h] {
			if !ok {
				continue
			}
			switch color[next] {
			case gray:
				first := slices.Index(stack, next)
				cycle := make([]int, 0, len(stack)-first+1)
				for _, s := range stack[first:] {
					cycle = append(cycle, n.Activities[s].ID)
				}
				return append(cycle, n.Activities[next].ID)
			case white:
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[h] = black
		return nil
	}

	roots := slices.Clone(n.Starts)
	for h := range n.Activities {
		roots = append(roots, h)
	}
	for _, h := range roots {
		if color[h] == white {
			if cycle := dfs(h); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoOrder returns all handles in topological order using Kahn's algorithm.
// The ready queue is FIFO and seeded in input order, so the result is
// deterministic and starts with the start activities.
func (n *Network) TopoOrder() ([]int, error) {
	inDegree := make([]int, len(n.Activities))
	for i := range n.Adj {
		for j, ok := range n.Adj[i] {
			if ok {
				inDegree[j]++
			}
		}
	}

	var queue []int
	for h, d := range inDegree {
		if d == 0 {
			queue = append(queue, h)
		}
	}

	order := make([]int, 0, len(n.Activities))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for succ, ok := range n.Adj[node] {
			if !ok {
				continue
			}
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(n.Activities) {
		return nil, fmt.Errorf("topological sort failed: graph has a cycle (%d of %d activities sorted)", len(order), len(n.Activities))
	}
	return order, nil
}

// ReverseTopoOrder is TopoOrder on the transposed graph: every activity comes
// after all of its successors, beginning with the end activities.
func (n *Network) ReverseTopoOrder() ([]int, error) {
	outDegree := make([]int, len(n.Activities))
	for i := range n.Adj {
		for _, ok := range n.Adj[i] {
			if ok {
				outDegree[i]++
			}
		}
	}

	var queue []int
	for h, d := range outDegree {
		if d == 0 {
			queue = append(queue, h)
		}
	}

	order := make([]int, 0, len(n.Activities))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for pred := range n.Adj {
			if !n.Adj[pred][node] {
				continue
			}
			outDegree[pred]--
			if outDegree[pred] == 0 {
				queue = append(queue, pred)
			}
		}
	}

	if len(order) != len(n.Activities) {
		return nil, fmt.Errorf("reverse topological sort failed: graph has a cycle (%d of %d activities sorted)", len(order), len(n.Activities))
	}
	return order, nil
}

// Len returns the number of activities in the network.
func (n *Network) Len() int {
	return len(n.Activities)
}

// Handle returns the arena position of the activity with the given external id.
func (n *Network) Handle(id int) (int, bool) {
	h, ok := n.index[id]
	return h, ok
}

// Successors returns the handles of the activity's successors in declaration order.
func (n *Network) Successors(h int) []int {
	return n.handles(n.Activities[h].Successors)
}

// Predecessors returns the handles of the activity's predecessors in declaration order.
func (n *Network) Predecessors(h int) []int {
	return n.handles(n.Activities[h].Predecessors)
}

func (n *Network) handles(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, n.index[id])
	}
	return out
}

// IsStart reports whether the activity has no predecessors.
func (n *Network) IsStart(h int) bool {
	return len(n.Activities[h].Predecessors) == 0
}

// IsEnd reports whether the activity has no successors.
func (n *Network) IsEnd(h int) bool {
	return len(n.Activities[h].Successors) == 0
}

// Edges lists every precedence relation once, ordered by source then target handle.
func (n *Network) Edges() []Edge {
	var edges []Edge
	for i := range n.Adj {
		for j, ok := range n.Adj[i] {
			if ok {
				edges = append(edges, Edge{From: n.Activities[i].ID, To: n.Activities[j].ID})
			}
		}
	}
	return edges
}
