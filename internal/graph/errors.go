package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kinds of validation failure. A *Error unwraps to exactly one of these.
var (
	ErrInvalidActivity    = errors.New("invalid activity")
	ErrDanglingReference  = errors.New("dangling reference")
	ErrAsymmetricRelation = errors.New("asymmetric relation")
	ErrNoStartActivity    = errors.New("no start activity")
	ErrNoEndActivity      = errors.New("no end activity")
	ErrCycleDetected      = errors.New("cycle detected")
	ErrDisconnected       = errors.New("network plan is not connected")
)

// Relation names the list an offending reference was declared in.
const (
	RelSuccessor   = "successor"
	RelPredecessor = "predecessor"
)

// Error describes why a set of activities does not form a valid network plan.
// Only the fields relevant to Kind are populated.
type Error struct {
	Kind error

	// From declared To as its Relation (dangling and asymmetric references).
	From     int
	To       int
	Relation string

	// Path is the cyclic chain of external ids, first id repeated at the end.
	Path []int

	// Origin is the reference activity of the connectivity check and
	// Unreached the ids with no undirected path to it.
	Origin    int
	Unreached []int

	Msg string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidActivity, Msg: fmt.Sprintf(format, args...)}
}

func danglingError(from, to int, rel string) error {
	return &Error{
		Kind:     ErrDanglingReference,
		From:     from,
		To:       to,
		Relation: rel,
		Msg:      fmt.Sprintf("activity %d lists activity %d as %s, but activity %d does not exist", from, to, rel, to),
	}
}

func asymmetricError(from, to int, rel string) error {
	inverse := RelPredecessor
	if rel == RelPredecessor {
		inverse = RelSuccessor
	}
	return &Error{
		Kind:     ErrAsymmetricRelation,
		From:     from,
		To:       to,
		Relation: rel,
		Msg:      fmt.Sprintf("activity %d lists activity %d as %s, but is not listed as its %s", from, to, rel, inverse),
	}
}

func cycleError(path []int) error {
	return &Error{Kind: ErrCycleDetected, Path: path, Msg: FormatChain(path)}
}

func disconnectedError(origin int, unreached []int) error {
	noun := "activity"
	if len(unreached) > 1 {
		noun = "activities"
	}
	return &Error{
		Kind:      ErrDisconnected,
		Origin:    origin,
		Unreached: unreached,
		Msg:       fmt.Sprintf("no undirected path between activity %d and %s %s", origin, noun, joinIDs(unreached, ", ")),
	}
}

// FormatChain renders a sequence of activity ids as "1->2->4".
func FormatChain(ids []int) string {
	return joinIDs(ids, "->")
}

func joinIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
