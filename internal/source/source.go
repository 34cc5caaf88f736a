// Package source reads project descriptions (a title and a list of
// activities) from the line-oriented text format and from JSON.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
)

// Project is a titled set of activities ready for netplan.New.
type Project struct {
	Title      string           `json:"title"`
	Activities []graph.Activity `json:"activities"`
}

// FormatError reports malformed input. Line is 0 for errors that concern the
// file as a whole.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func formatErrorf(line int, format string, args ...any) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Load reads a project file, choosing the reader by extension: ".json" is
// parsed as JSON, everything else as the text format.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}

	var p *Project
	if strings.EqualFold(filepath.Ext(path), ".json") {
		p, err = ReadJSON(data)
	} else {
		p, err = ReadText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}
