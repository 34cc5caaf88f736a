package source

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

// ReadJSON parses a project of the form
//
//	{"title": "House", "activities": [
//	  {"id": 1, "label": "Foundation", "duration": 3, "predecessors": [], "successors": [2]}
//	]}
//
// and applies the same rules as ReadText. Errors name the offending element
// by its path, e.g. "activities.2.duration".
func ReadJSON(data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, formatErrorf(0, "invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	title := doc.Get("title")
	if title.Type != gjson.String || strings.TrimSpace(title.String()) == "" {
		return nil, formatErrorf(0, "no title found")
	}
	p := &Project{Title: strings.TrimSpace(title.String())}

	acts := doc.Get("activities")
	if !acts.IsArray() {
		return nil, formatErrorf(0, "activities must be an array")
	}

	seen := make(map[int]bool)
	for i, item := range acts.Array() {
		path := fmt.Sprintf("activities.%d", i)
		a, err := parseActivity(path, item)
		if err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, formatErrorf(0, "%s: activity %d is defined more than once", path, a.ID)
		}
		seen[a.ID] = true
		p.Activities = append(p.Activities, a)
	}
	return p, nil
}

func parseActivity(path string, item gjson.Result) (graph.Activity, error) {
	if !item.IsObject() {
		return graph.Activity{}, formatErrorf(0, "%s: expected an object", path)
	}

	id, err := intField(path+".id", item.Get("id"))
	if err != nil {
		return graph.Activity{}, err
	}
	if id <= 0 {
		return graph.Activity{}, formatErrorf(0, "%s.id: activity id must be positive, got %d", path, id)
	}

	label := item.Get("label")
	if label.Type != gjson.String || strings.TrimSpace(label.String()) == "" {
		return graph.Activity{}, formatErrorf(0, "%s.label: label must not be empty", path)
	}

	duration, err := intField(path+".duration", item.Get("duration"))
	if err != nil {
		return graph.Activity{}, err
	}
	if duration <= 0 {
		return graph.Activity{}, formatErrorf(0, "%s.duration: duration must be positive, got %d", path, duration)
	}

	preds, err := idArray(path+".predecessors", item.Get("predecessors"))
	if err != nil {
		return graph.Activity{}, err
	}
	succs, err := idArray(path+".successors", item.Get("successors"))
	if err != nil {
		return graph.Activity{}, err
	}

	return graph.Activity{
		ID:           int(id),
		Label:        strings.TrimSpace(label.String()),
		Duration:     int(duration),
		Predecessors: preds,
		Successors:   succs,
	}, nil
}

func intField(path string, r gjson.Result) (int64, error) {
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		return 0, formatErrorf(0, "%s: expected an integer, got %s", path, describe(r))
	}
	return r.Int(), nil
}

// idArray accepts a missing key or null as an empty list.
func idArray(path string, r gjson.Result) ([]int, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if !r.IsArray() {
		return nil, formatErrorf(0, "%s: expected an array, got %s", path, describe(r))
	}

	var ids []int
	for i, el := range r.Array() {
		id, err := intField(fmt.Sprintf("%s.%d", path, i), el)
		if err != nil {
			return nil, err
		}
		ids = append(ids, int(id))
	}
	return ids, nil
}

func describe(r gjson.Result) string {
	if !r.Exists() {
		return "nothing"
	}
	return r.Raw
}
