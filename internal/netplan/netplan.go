// Package netplan builds a fully computed network plan from a set of
// activities: the graph is validated and the forward pass, backward pass and
// float derivation run eagerly, so a *Plan either exists and is complete or
// construction fails with a *graph.Error.
package netplan

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/cpm"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

// Plan is a validated and scheduled network plan. It is never modified
// after New returns; accessors hand out copies.
type Plan struct {
	network *graph.Network
	result  *cpm.Result
}

type options struct {
	logger *log.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger traces the construction phases at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New validates the activities and computes their schedule.
func New(acts []graph.Activity, opts ...Option) (*Plan, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	logger.Debug("validating network", "activities", len(acts))
	n, err := graph.Build(acts)
	if err != nil {
		logger.Debug("validation failed", "err", err)
		return nil, err
	}
	logger.Debug("network valid", "start", len(n.Starts), "end", len(n.Ends), "edges", len(n.Edges()))

	result, err := cpm.Analyze(n)
	if err != nil {
		return nil, err
	}
	logger.Debug("schedule computed", "duration", result.Duration, "critical_paths", len(result.CriticalPaths), "waves", len(result.Waves))

	return &Plan{network: n, result: result}, nil
}

// Activities returns every activity with its computed schedule, in input order.
func (p *Plan) Activities() []cpm.ActivitySchedule {
	return slices.Clone(p.result.Activities)
}

// Activity returns the schedule of the activity with the given id.
func (p *Plan) Activity(id int) (cpm.ActivitySchedule, bool) {
	h, ok := p.network.Handle(id)
	if !ok {
		return cpm.ActivitySchedule{}, false
	}
	return p.result.Activities[h], true
}

// StartActivities returns the activities without predecessors, in input order.
func (p *Plan) StartActivities() []cpm.ActivitySchedule {
	return p.pick(p.network.Starts)
}

// EndActivities returns the activities without successors, in input order.
func (p *Plan) EndActivities() []cpm.ActivitySchedule {
	return p.pick(p.network.Ends)
}

func (p *Plan) pick(handles []int) []cpm.ActivitySchedule {
	out := make([]cpm.ActivitySchedule, len(handles))
	for i, h := range handles {
		out[i] = p.result.Activities[h]
	}
	return out
}

// Duration returns the project duration, or cpm.UndefinedDuration if the end
// activities finish at different times.
func (p *Plan) Duration() int {
	return p.result.Duration
}

// DurationDefined reports whether Duration is a single well-defined value.
func (p *Plan) DurationDefined() bool {
	return p.result.Duration != cpm.UndefinedDuration
}

// CriticalPaths returns every critical path as a sequence of external ids.
func (p *Plan) CriticalPaths() [][]int {
	out := make([][]int, len(p.result.CriticalPaths))
	for i, path := range p.result.CriticalPaths {
		out[i] = slices.Clone(path)
	}
	return out
}

// Waves returns the activities grouped by earliest start.
func (p *Plan) Waves() []cpm.Wave {
	out := make([]cpm.Wave, len(p.result.Waves))
	for i, w := range p.result.Waves {
		out[i] = w
		out[i].ActivityIDs = slices.Clone(w.ActivityIDs)
	}
	return out
}

// Edges lists every precedence relation of the plan.
func (p *Plan) Edges() []graph.Edge {
	return p.network.Edges()
}

// TopoOrder returns the external ids in the order the forward pass visited them.
func (p *Plan) TopoOrder() []int {
	return slices.Clone(p.result.TopoOrder)
}

// Len returns the number of activities.
func (p *Plan) Len() int {
	return p.network.Len()
}
