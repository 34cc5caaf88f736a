package netplan

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/cpm"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

func act(id, dur int, preds, succs []int) graph.Activity {
	return graph.Activity{ID: id, Label: "Activity", Duration: dur, Predecessors: preds, Successors: succs}
}

func diamond() []graph.Activity {
	return []graph.Activity{
		act(1, 2, nil, []int{2, 3}),
		act(2, 4, []int{1}, []int{4}),
		act(3, 1, []int{1}, []int{4}),
		act(4, 3, []int{2, 3}, nil),
	}
}

func ids(acts []cpm.ActivitySchedule) []int {
	out := make([]int, len(acts))
	for i, as := range acts {
		out[i] = as.ID
	}
	return out
}

func TestNew_Diamond(t *testing.T) {
	p, err := New(diamond())
	require.NoError(t, err)

	assert.Equal(t, 4, p.Len())
	assert.True(t, p.DurationDefined())
	assert.Equal(t, 9, p.Duration())

	assert.Equal(t, []int{1}, ids(p.StartActivities()))
	assert.Equal(t, []int{4}, ids(p.EndActivities()))

	three, ok := p.Activity(3)
	require.True(t, ok, "activity 3 should exist")
	assert.Equal(t, 3, three.TF)
	assert.False(t, three.IsCritical)

	_, ok = p.Activity(99)
	assert.False(t, ok, "activity 99 should be missing")

	assert.Equal(t, [][]int{{1, 2, 4}}, p.CriticalPaths())
	assert.Len(t, p.Edges(), 4)

	order := p.TopoOrder()
	require.Len(t, order, 4)
	assert.Equal(t, 1, order[0])
	assert.Equal(t, 4, order[3])
}

func TestNew_AccessorsReturnCopies(t *testing.T) {
	p, err := New(diamond())
	require.NoError(t, err)

	p.CriticalPaths()[0][0] = 99
	p.Activities()[0].ES = 99
	p.Waves()[0].ActivityIDs[0] = 99

	assert.Equal(t, 1, p.CriticalPaths()[0][0], "critical paths were mutated through an accessor")
	assert.Equal(t, 0, p.Activities()[0].ES, "activities were mutated through an accessor")
	assert.Equal(t, 1, p.Waves()[0].ActivityIDs[0], "waves were mutated through an accessor")
}

func TestNew_UndefinedDuration(t *testing.T) {
	p, err := New([]graph.Activity{
		act(1, 1, nil, []int{2, 3}),
		act(2, 2, []int{1}, nil),
		act(3, 5, []int{1}, nil),
	})
	require.NoError(t, err)

	assert.False(t, p.DurationDefined())
	assert.Equal(t, cpm.UndefinedDuration, p.Duration())
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		acts []graph.Activity
		kind error
	}{
		{
			name: "asymmetric",
			acts: []graph.Activity{act(1, 1, nil, nil), act(2, 1, []int{1}, nil)},
			kind: graph.ErrAsymmetricRelation,
		},
		{
			name: "dangling",
			acts: []graph.Activity{act(1, 1, nil, []int{3}), act(2, 1, nil, nil)},
			kind: graph.ErrDanglingReference,
		},
		{
			name: "no start",
			acts: []graph.Activity{act(1, 1, []int{2}, []int{2}), act(2, 1, []int{1}, []int{1})},
			kind: graph.ErrNoStartActivity,
		},
		{
			name: "non-positive id",
			acts: []graph.Activity{act(0, 1, nil, nil)},
			kind: graph.ErrInvalidActivity,
		},
		{
			name: "cycle",
			acts: []graph.Activity{
				act(1, 1, []int{5, 2}, []int{2}),
				act(2, 1, []int{1}, []int{1, 6}),
				act(5, 1, nil, []int{1}),
				act(6, 1, []int{2}, nil),
			},
			kind: graph.ErrCycleDetected,
		},
		{
			name: "disconnected",
			acts: []graph.Activity{
				act(1, 1, nil, []int{2}),
				act(2, 1, []int{1}, nil),
				act(3, 1, nil, []int{4}),
				act(4, 1, []int{3}, nil),
			},
			kind: graph.ErrDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.acts)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestNew_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := New(diamond(), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"validating network", "network valid", "schedule computed"} {
		assert.Contains(t, out, want)
	}
}

func TestNew_CriticalPathsOnlyContainCriticalActivities(t *testing.T) {
	p, err := New([]graph.Activity{
		act(1, 2, nil, []int{2, 3}),
		act(2, 3, []int{1}, []int{4}),
		act(3, 3, []int{1}, []int{4, 5}),
		act(4, 1, []int{2, 3}, []int{6}),
		act(5, 2, []int{3}, []int{6}),
		act(6, 1, []int{4, 5}, nil),
	})
	require.NoError(t, err)

	var critical []int
	for _, as := range p.Activities() {
		if as.TF == 0 && as.FF == 0 {
			critical = append(critical, as.ID)
		}
	}
	require.NotEmpty(t, p.CriticalPaths())
	for _, path := range p.CriticalPaths() {
		for _, id := range path {
			assert.Contains(t, critical, id, "activity %d on path %v is not critical", id, path)
		}
	}
}
