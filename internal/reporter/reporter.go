package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/cpm"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/netplan"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/ui"
)

// Supported report locales.
const (
	LocaleEN = "en"
	LocaleDE = "de"
)

// labels holds the fixed wording of a text report.
type labels struct {
	header        string
	starts        string
	ends          string
	duration      string
	undefined     string
	criticalPath  string
	criticalPaths string
}

var locales = map[string]labels{
	LocaleEN: {
		header:        "Activity; Label; D; ES; EF; LS; LF; TF; FF",
		starts:        "Start activities",
		ends:          "End activities",
		duration:      "Total duration",
		undefined:     "not unique",
		criticalPath:  "Critical path",
		criticalPaths: "Critical paths",
	},
	LocaleDE: {
		header:        "Vorgangsnummer; Vorgangsbezeichnung; D; FAZ; FEZ; SAZ; SEZ; GP; FP",
		starts:        "Anfangsvorgang",
		ends:          "Endvorgang",
		duration:      "Gesamtdauer",
		undefined:     "Nicht eindeutig",
		criticalPath:  "Kritischer Pfad",
		criticalPaths: "Kritische Pfade",
	},
}

// pathHeading uses the singular for zero or one path.
func (l labels) pathHeading(n int) string {
	if n <= 1 {
		return l.criticalPath
	}
	return l.criticalPaths
}

// IsLocale reports whether a report wording exists for the locale.
func IsLocale(locale string) bool {
	_, ok := locales[locale]
	return ok
}

// Reporter renders a computed network plan.
type Reporter struct {
	Plan   *netplan.Plan
	Title  string
	Locale string
}

// New creates a Reporter. Unknown locales fall back to English.
func New(plan *netplan.Plan, title, locale string) *Reporter {
	if !IsLocale(locale) {
		locale = LocaleEN
	}
	return &Reporter{Plan: plan, Title: title, Locale: locale}
}

// WriteText writes the semicolon separated report.
func (r *Reporter) WriteText(w io.Writer) error {
	l := locales[r.Locale]
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, r.Title)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, l.header)
	for _, as := range r.Plan.Activities() {
		fmt.Fprintf(bw, "%d; %s; %d; %d; %d; %d; %d; %d; %d\n",
			as.ID, as.Label, as.Duration, as.ES, as.EF, as.LS, as.LF, as.TF, as.FF)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "%s: %s\n", l.starts, joinIDs(r.Plan.StartActivities()))
	fmt.Fprintf(bw, "%s: %s\n", l.ends, joinIDs(r.Plan.EndActivities()))
	duration := l.undefined
	if r.Plan.DurationDefined() {
		duration = strconv.Itoa(r.Plan.Duration())
	}
	fmt.Fprintf(bw, "%s: %s\n", l.duration, duration)
	fmt.Fprintln(bw)

	paths := r.Plan.CriticalPaths()
	fmt.Fprintln(bw, l.pathHeading(len(paths)))
	for _, path := range paths {
		fmt.Fprintln(bw, graph.FormatChain(path))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func joinIDs(acts []cpm.ActivitySchedule) string {
	ids := make([]string, len(acts))
	for i, as := range acts {
		ids[i] = strconv.Itoa(as.ID)
	}
	return strings.Join(ids, ",")
}

// JSON returns the machine-readable report.
func (r *Reporter) JSON() ([]byte, error) {
	type output struct {
		Title           string                 `json:"title"`
		Duration        *int                   `json:"duration"`
		StartActivities []int                  `json:"start_activities"`
		EndActivities   []int                  `json:"end_activities"`
		Activities      []cpm.ActivitySchedule `json:"activities"`
		CriticalPaths   [][]int                `json:"critical_paths"`
		Waves           []cpm.Wave             `json:"waves"`
	}

	o := output{
		Title:         r.Title,
		Activities:    r.Plan.Activities(),
		CriticalPaths: r.Plan.CriticalPaths(),
		Waves:         r.Plan.Waves(),
	}
	if r.Plan.DurationDefined() {
		d := r.Plan.Duration()
		o.Duration = &d
	}
	for _, as := range r.Plan.StartActivities() {
		o.StartActivities = append(o.StartActivities, as.ID)
	}
	for _, as := range r.Plan.EndActivities() {
		o.EndActivities = append(o.EndActivities, as.ID)
	}

	return json.MarshalIndent(o, "", "  ")
}

// PrintSummary writes a colored overview: header, per-wave breakdown and
// the critical paths.
func (r *Reporter) PrintSummary(w io.Writer) {
	acts := r.Plan.Activities()
	byID := make(map[int]cpm.ActivitySchedule, len(acts))
	critical := 0
	for _, as := range acts {
		byID[as.ID] = as
		if as.IsCritical {
			critical++
		}
	}

	duration := ui.BoldYellow("not unique")
	if r.Plan.DurationDefined() {
		duration = ui.Bold(strconv.Itoa(r.Plan.Duration()))
	}

	waves := r.Plan.Waves()
	fmt.Fprintf(w, "\n%s\n", ui.BoldCyan(r.Title))
	fmt.Fprintf(w, "%s\n", ui.Cyan(strings.Repeat("═", max(utf8.RuneCountInString(r.Title), 24))))
	fmt.Fprintf(w, "Duration:    %s\n", duration)
	fmt.Fprintf(w, "Activities:  %d (%d critical)\n", len(acts), critical)
	fmt.Fprintf(w, "Waves:       %d\n\n", len(waves))

	for _, wave := range waves {
		fmt.Fprintf(w, "  %s %d  %s  %s\n",
			ui.BoldWhite("Wave"), wave.Index+1,
			ui.Dim(fmt.Sprintf("t=%d", wave.Start)),
			ui.WaveStatus(wave.IsCritical))
		for _, id := range wave.ActivityIDs {
			printActivity(w, byID[id])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", ui.Cyan(strings.Repeat("─", 24)))
	for _, path := range r.Plan.CriticalPaths() {
		fmt.Fprintf(w, "Critical:  %s\n", ui.BoldYellow(ui.CriticalMarker+" "+graph.FormatChain(path)))
	}
}

func printActivity(w io.Writer, as cpm.ActivitySchedule) {
	label := truncate(as.Label, 40)

	fmt.Fprintf(w, "    %s %-6s %-40s %s  %s %s\n",
		ui.Critical(as.IsCritical),
		ui.BoldMagenta(strconv.Itoa(as.ID)),
		label,
		ui.Dim(fmt.Sprintf("[%d..%d]", as.ES, as.EF)),
		ui.Dim("TF")+" "+ui.Float(as.TF),
		ui.Dim("FF")+" "+ui.Float(as.FF))
}

// truncate shortens s to at most n characters, cutting on rune boundaries.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
