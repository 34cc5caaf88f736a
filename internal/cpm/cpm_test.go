package cpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

func act(id, dur int, preds, succs []int) graph.Activity {
	return graph.Activity{ID: id, Label: "Activity", Duration: dur, Predecessors: preds, Successors: succs}
}

func buildTestNetwork(t *testing.T, acts []graph.Activity) *graph.Network {
	t.Helper()
	n, err := graph.Build(acts)
	require.NoError(t, err, "build network")
	return n
}

func analyze(t *testing.T, acts []graph.Activity) *Result {
	t.Helper()
	result, err := Analyze(buildTestNetwork(t, acts))
	require.NoError(t, err)
	return result
}

func schedule(t *testing.T, result *Result, id int) ActivitySchedule {
	t.Helper()
	for _, as := range result.Activities {
		if as.ID == id {
			return as
		}
	}
	require.Failf(t, "missing activity", "activity %d not in result", id)
	return ActivitySchedule{}
}

func TestAnalyze_TwoActivities(t *testing.T) {
	result := analyze(t, []graph.Activity{
		act(1, 3, nil, []int{2}),
		act(2, 5, []int{1}, nil),
	})

	assert.Equal(t, 8, result.Duration)
	assertSchedule(t, schedule(t, result, 1), 0, 3, 0, 3, 0, 0, true)
	assertSchedule(t, schedule(t, result, 2), 3, 8, 3, 8, 0, 0, true)
	assert.Equal(t, [][]int{{1, 2}}, result.CriticalPaths)
}

func TestAnalyze_Diamond(t *testing.T) {
	// 1 -> 2 -> 4
	// 1 -> 3 -> 4
	result := analyze(t, []graph.Activity{
		act(1, 2, nil, []int{2, 3}),
		act(2, 4, []int{1}, []int{4}),
		act(3, 1, []int{1}, []int{4}),
		act(4, 3, []int{2, 3}, nil),
	})

	assert.Equal(t, 9, result.Duration)

	assertSchedule(t, schedule(t, result, 1), 0, 2, 0, 2, 0, 0, true)
	assertSchedule(t, schedule(t, result, 2), 2, 6, 2, 6, 0, 0, true)
	assertSchedule(t, schedule(t, result, 3), 2, 3, 5, 6, 3, 3, false)
	assertSchedule(t, schedule(t, result, 4), 6, 9, 6, 9, 0, 0, true)

	assert.Equal(t, [][]int{{1, 2, 4}}, result.CriticalPaths)
}

func TestAnalyze_LinearChain(t *testing.T) {
	// 1 -> 2 -> 3 (each duration 1)
	result := analyze(t, []graph.Activity{
		act(1, 1, nil, []int{2}),
		act(2, 1, []int{1}, []int{3}),
		act(3, 1, []int{2}, nil),
	})

	assert.Equal(t, 3, result.Duration)

	// Should be 3 waves (no parallelism in a chain)
	assert.Len(t, result.Waves, 3)

	assertSchedule(t, schedule(t, result, 1), 0, 1, 0, 1, 0, 0, true)
	assertSchedule(t, schedule(t, result, 2), 1, 2, 1, 2, 0, 0, true)
	assertSchedule(t, schedule(t, result, 3), 2, 3, 2, 3, 0, 0, true)
}

func TestAnalyze_FreeFloatDiffersFromTotalFloat(t *testing.T) {
	// 1(2) -> 2(1) -> 3(1) -> 5(1)
	// 1(2) -> 4(5) -------> 5(1)
	// Activity 2 has total float 3 but no free float: 3 starts right after it.
	result := analyze(t, []graph.Activity{
		act(1, 2, nil, []int{2, 4}),
		act(2, 1, []int{1}, []int{3}),
		act(3, 1, []int{2}, []int{5}),
		act(4, 5, []int{1}, []int{5}),
		act(5, 1, []int{3, 4}, nil),
	})

	assertSchedule(t, schedule(t, result, 2), 2, 3, 5, 6, 3, 0, false)
	assertSchedule(t, schedule(t, result, 3), 3, 4, 6, 7, 3, 3, false)

	assert.Equal(t, [][]int{{1, 4, 5}}, result.CriticalPaths)
}

func TestAnalyze_MultipleCriticalPaths(t *testing.T) {
	//     1
	//   / | \
	//  2  3  4
	//   \ | /
	//     5
	result := analyze(t, []graph.Activity{
		act(1, 1, nil, []int{2, 3, 4}),
		act(2, 2, []int{1}, []int{5}),
		act(3, 2, []int{1}, []int{5}),
		act(4, 1, []int{1}, []int{5}),
		act(5, 1, []int{2, 3, 4}, nil),
	})

	assert.Equal(t, [][]int{{1, 2, 5}, {1, 3, 5}}, result.CriticalPaths)

	// 3 waves: [1], [2,3,4], [5]
	require.Len(t, result.Waves, 3)
	assert.Equal(t, []int{2, 3, 4}, result.Waves[1].ActivityIDs, "critical activities come first in a wave")
}

func TestAnalyze_MultipleStartActivities(t *testing.T) {
	// 1(4) -> 3(1)
	// 2(1) -> 3(1)
	result := analyze(t, []graph.Activity{
		act(1, 4, nil, []int{3}),
		act(2, 1, nil, []int{3}),
		act(3, 1, []int{1, 2}, nil),
	})

	assertSchedule(t, schedule(t, result, 2), 0, 1, 3, 4, 3, 3, false)
	assert.Equal(t, [][]int{{1, 3}}, result.CriticalPaths)
}

func TestAnalyze_EndActivitiesDisagree(t *testing.T) {
	// 1 -> 2 (ends at 3), 1 -> 3 (ends at 6)
	result := analyze(t, []graph.Activity{
		act(1, 1, nil, []int{2, 3}),
		act(2, 2, []int{1}, nil),
		act(3, 5, []int{1}, nil),
	})

	assert.Equal(t, UndefinedDuration, result.Duration)

	// Each end activity finishes at its own earliest finish, so both
	// branches are critical.
	assert.Len(t, result.CriticalPaths, 2)
}

func TestAnalyze_SingleActivity(t *testing.T) {
	result := analyze(t, []graph.Activity{act(42, 7, nil, nil)})

	assert.Equal(t, 7, result.Duration)
	assert.Equal(t, [][]int{{42}}, result.CriticalPaths)
}

func TestAnalyze_ScheduleInvariants(t *testing.T) {
	acts := []graph.Activity{
		act(10, 3, nil, []int{20, 30}),
		act(20, 2, []int{10}, []int{40, 50}),
		act(30, 6, []int{10}, []int{50}),
		act(40, 4, []int{20}, []int{60}),
		act(50, 1, []int{20, 30, 70}, []int{60}),
		act(60, 2, []int{40, 50}, nil),
		act(70, 1, nil, []int{50}),
	}
	n := buildTestNetwork(t, acts)
	result, err := Analyze(n)
	require.NoError(t, err)

	byID := make(map[int]ActivitySchedule)
	for _, as := range result.Activities {
		byID[as.ID] = as
		assert.Equal(t, as.ES+as.Duration, as.EF, "activity %d: EF", as.ID)
		assert.Equal(t, as.LF-as.Duration, as.LS, "activity %d: LS", as.ID)
		assert.GreaterOrEqual(t, as.TF, 0, "activity %d: total float", as.ID)
		assert.Equal(t, as.TF == 0 && as.FF == 0, as.IsCritical, "activity %d: critical flag with TF=%d FF=%d", as.ID, as.TF, as.FF)
	}

	for _, e := range n.Edges() {
		from, to := byID[e.From], byID[e.To]
		assert.GreaterOrEqual(t, to.ES, from.EF, "edge %d -> %d: ES before EF", e.From, e.To)
		assert.LessOrEqual(t, from.LF, to.LS, "edge %d -> %d: LF after LS", e.From, e.To)
	}

	onPath := make(map[int]bool)
	for _, path := range result.CriticalPaths {
		for _, id := range path {
			onPath[id] = true
			assert.True(t, byID[id].IsCritical, "activity %d on critical path %v is not critical", id, path)
		}
	}
	for id, as := range byID {
		if as.IsCritical {
			assert.True(t, onPath[id], "critical activity %d is on no critical path", id)
		}
	}

	assert.Len(t, result.TopoOrder, len(acts))
}

func assertSchedule(t *testing.T, as ActivitySchedule, es, ef, ls, lf, tf, ff int, critical bool) {
	t.Helper()
	assert.Equal(t, es, as.ES, "activity %d: ES", as.ID)
	assert.Equal(t, ef, as.EF, "activity %d: EF", as.ID)
	assert.Equal(t, ls, as.LS, "activity %d: LS", as.ID)
	assert.Equal(t, lf, as.LF, "activity %d: LF", as.ID)
	assert.Equal(t, tf, as.TF, "activity %d: TF", as.ID)
	assert.Equal(t, ff, as.FF, "activity %d: FF", as.ID)
	assert.Equal(t, critical, as.IsCritical, "activity %d: critical", as.ID)
}
