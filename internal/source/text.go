package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

const (
	titlePrefix   = "//+"
	commentPrefix = "//"
	noneMarker    = "-"
	fieldCount    = 5
)

// ReadText parses the line-oriented project format:
//
//	//+ Project title
//	// comment
//	1; Foundation; 3; -; 2,3
//	2; Walls; 5; 1; 4
//
// Data lines hold id, label, duration, predecessors and successors separated
// by semicolons; "-" stands for an empty list. Exactly one title is required.
func ReadText(r io.Reader) (*Project, error) {
	p := &Project{}
	seen := make(map[int]bool)
	titled := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, titlePrefix):
			if titled {
				return nil, formatErrorf(lineNo, "only one title per file is allowed")
			}
			title := strings.TrimSpace(strings.TrimPrefix(line, titlePrefix))
			if title == "" {
				return nil, formatErrorf(lineNo, "title must not be empty")
			}
			p.Title = title
			titled = true

		case strings.HasPrefix(line, commentPrefix):
			// comment

		case strings.TrimSpace(line) == "":
			// blank

		default:
			a, err := parseLine(lineNo, line)
			if err != nil {
				return nil, err
			}
			if seen[a.ID] {
				return nil, formatErrorf(lineNo, "activity %d is defined more than once", a.ID)
			}
			seen[a.ID] = true
			p.Activities = append(p.Activities, a)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if !titled {
		return nil, formatErrorf(0, "no title found")
	}
	return p, nil
}

func parseLine(lineNo int, line string) (graph.Activity, error) {
	fields := strings.Split(strings.TrimSpace(line), ";")
	if len(fields) != fieldCount {
		return graph.Activity{}, formatErrorf(lineNo, "expected %d fields, got %d", fieldCount, len(fields))
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return graph.Activity{}, formatErrorf(lineNo, "invalid activity id %q", fields[0])
	}
	if id <= 0 {
		return graph.Activity{}, formatErrorf(lineNo, "activity id must be positive, got %d", id)
	}

	label := strings.TrimSpace(fields[1])
	if label == "" {
		return graph.Activity{}, formatErrorf(lineNo, "label must not be empty")
	}

	duration, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return graph.Activity{}, formatErrorf(lineNo, "invalid duration %q", fields[2])
	}
	if duration <= 0 {
		return graph.Activity{}, formatErrorf(lineNo, "duration must be positive, got %d", duration)
	}

	preds, err := parseIDList(lineNo, fields[3], graph.RelPredecessor)
	if err != nil {
		return graph.Activity{}, err
	}
	succs, err := parseIDList(lineNo, fields[4], graph.RelSuccessor)
	if err != nil {
		return graph.Activity{}, err
	}

	return graph.Activity{
		ID:           id,
		Label:        label,
		Duration:     duration,
		Predecessors: preds,
		Successors:   succs,
	}, nil
}

func parseIDList(lineNo int, field, rel string) ([]int, error) {
	field = strings.TrimSpace(field)
	if field == noneMarker {
		return nil, nil
	}

	parts := strings.Split(field, ",")
	// Trailing empty entries ("2,3,") are ignored; an empty field is not.
	if field != "" {
		for len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		if len(parts) == 0 {
			return nil, formatErrorf(lineNo, "invalid %s list %q", rel, field)
		}
	}

	var ids []int
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, formatErrorf(lineNo, "invalid %s %q", rel, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
