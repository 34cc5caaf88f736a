package cpm

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

// Analyze performs critical path method analysis on a validated network.
//
// The three phases run strictly in sequence and hand their results to the
// next one explicitly: forward pass (ES/EF), backward pass (LS/LF), floats
// (TF/FF). Critical paths, the project duration and the waves are derived
// from the combined schedule.
func Analyze(n *graph.Network) (*Result, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return nil, err
	}
	reverse, err := n.ReverseTopoOrder()
	if err != nil {
		return nil, err
	}

	early := forwardPass(n, order)
	late, err := backwardPass(n, reverse, early)
	if err != nil {
		return nil, err
	}
	fl := computeFloats(n, early, late)

	result := &Result{
		Activities: make([]ActivitySchedule, n.Len()),
		TopoOrder:  make([]int, 0, len(order)),
	}
	for h, a := range n.Activities {
		result.Activities[h] = ActivitySchedule{
			ID:         a.ID,
			Label:      a.Label,
			Duration:   a.Duration,
			ES:         early[h].ES,
			EF:         early[h].EF,
			LS:         late[h].LS,
			LF:         late[h].LF,
			TF:         fl[h].TF,
			FF:         fl[h].FF,
			IsCritical: fl[h].critical(),
		}
	}
	for _, h := range order {
		result.TopoOrder = append(result.TopoOrder, n.Activities[h].ID)
	}

	result.CriticalPaths = criticalPaths(n, fl)
	result.Duration = projectDuration(n, early)
	result.Waves = computeWaves(result)

	return result, nil
}

// forwardPass computes earliest start and finish times.
// The queue starts with the start activities (ES 0) and visits every activity
// after all of its predecessors, so each ES is final when it is dequeued.
func forwardPass(n *graph.Network, order []int) []earliest {
	out := make([]earliest, n.Len())
	for _, h := range order {
		cur := &out[h]
		cur.EF = cur.ES + n.Activities[h].Duration

		for _, succ := range n.Successors(h) {
			if out[succ].ES < cur.EF {
				out[succ].ES = cur.EF
			}
		}
	}
	return out
}

// backwardPass computes latest start and finish times.
// End activities finish at their own earliest finish. Every other activity
// finishes no later than the earliest latest start among its successors.
func backwardPass(n *graph.Network, reverse []int, early []earliest) ([]latest, error) {
	out := make([]latest, n.Len())
	for _, h := range n.Ends {
		out[h] = latest{LF: early[h].EF, set: true}
	}

	for _, h := range reverse {
		cur := &out[h]
		if !cur.set {
			return nil, fmt.Errorf("backward pass: latest finish of activity %d was never set", n.Activities[h].ID)
		}
		cur.LS = cur.LF - n.Activities[h].Duration

		for _, pred := range n.Predecessors(h) {
			p := &out[pred]
			if !p.set || p.LF > cur.LS {
				p.LF = cur.LS
				p.set = true
			}
		}
	}
	return out, nil
}

// computeFloats derives total and free float.
// Free float of an end activity is 0; otherwise it is the gap between the
// activity's earliest finish and the earliest start of its earliest successor.
func computeFloats(n *graph.Network, early []earliest, late []latest) []floats {
	out := make([]floats, n.Len())
	for h := range n.Activities {
		out[h].TF = late[h].LS - early[h].ES

		if n.IsEnd(h) {
			out[h].FF = 0
			continue
		}

		minES := math.MaxInt
		for _, succ := range n.Successors(h) {
			if early[succ].ES < minES {
				minES = early[succ].ES
			}
		}
		out[h].FF = minES - early[h].EF
	}
	return out
}

// criticalPaths enumerates every chain of critical activities that leads
// from a critical start activity to an end activity.
// Paths are expanded breadth-first, so shorter chains are reported first.
func criticalPaths(n *graph.Network, fl []floats) [][]int {
	var paths [][]int
	for _, start := range n.Starts {
		if !fl[start].critical() {
			continue
		}

		queue := [][]int{{start}}
		for len(queue) > 0 {
			path := queue[0]
			queue = queue[1:]

			last := path[len(path)-1]
			if n.IsEnd(last) {
				ids := make([]int, len(path))
				for i, h := range path {
					ids[i] = n.Activities[h].ID
				}
				paths = append(paths, ids)
				continue
			}

			for _, succ := range n.Successors(last) {
				if fl[succ].critical() {
					queue = append(queue, append(slices.Clone(path), succ))
				}
			}
		}
	}
	return paths
}

// projectDuration is the earliest finish shared by all end activities, or
// UndefinedDuration if they disagree.
func projectDuration(n *graph.Network, early []earliest) int {
	if len(n.Ends) == 0 {
		return UndefinedDuration
	}
	duration := early[n.Ends[0]].EF
	for _, h := range n.Ends {
		if early[h].EF != duration {
			return UndefinedDuration
		}
	}
	return duration
}

// computeWaves groups activities by their earliest start time.
func computeWaves(result *Result) []Wave {
	// Group activities by ES
	esGroups := make(map[int][]int)
	byID := make(map[int]*ActivitySchedule, len(result.Activities))
	for i := range result.Activities {
		as := &result.Activities[i]
		byID[as.ID] = as
		esGroups[as.ES] = append(esGroups[as.ES], as.ID)
	}

	// Sort ES values
	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		ids := esGroups[es]
		sort.Ints(ids)

		hasCritical := false
		for _, id := range ids {
			byID[id].Wave = i
			if byID[id].IsCritical {
				hasCritical = true
			}
		}

		// Sort critical activities first within wave
		sort.SliceStable(ids, func(a, b int) bool {
			aCrit := byID[ids[a]].IsCritical
			bCrit := byID[ids[b]].IsCritical
			if aCrit != bCrit {
				return aCrit
			}
			return false
		})

		waves[i] = Wave{
			Index:       i,
			Start:       es,
			ActivityIDs: ids,
			IsCritical:  hasCritical,
		}
	}

	return waves
}
