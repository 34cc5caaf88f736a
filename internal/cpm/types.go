package cpm

// UndefinedDuration is reported as the project duration when the end
// activities do not all finish at the same time.
const UndefinedDuration = -1

// Result holds the complete critical path analysis.
type Result struct {
	Activities    []ActivitySchedule // input order
	CriticalPaths [][]int            // external ids, critical start to critical end
	Duration      int                // UndefinedDuration if not unique
	Waves         []Wave             // activities grouped by earliest start
	TopoOrder     []int              // external ids
}

// ActivitySchedule holds the scheduling info for a single activity.
type ActivitySchedule struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Duration   int    `json:"duration"`
	ES         int    `json:"es"` // earliest start
	EF         int    `json:"ef"` // earliest finish
	LS         int    `json:"ls"` // latest start
	LF         int    `json:"lf"` // latest finish
	TF         int    `json:"tf"` // total float
	FF         int    `json:"ff"` // free float
	IsCritical bool   `json:"is_critical"`
	Wave       int    `json:"wave"`
}

// Wave represents a group of activities sharing the same earliest start.
type Wave struct {
	Index       int   `json:"index"`
	Start       int   `json:"start"`
	ActivityIDs []int `json:"activity_ids"`
	IsCritical  bool  `json:"is_critical"` // true if wave contains critical activities
}

// earliest is the output of the forward pass for one activity.
type earliest struct {
	ES, EF int
}

// latest is the output of the backward pass for one activity.
type latest struct {
	LS, LF int
	set    bool // LF has been assigned
}

// floats is the output of the float derivation for one activity.
type floats struct {
	TF, FF int
}

func (f floats) critical() bool {
	return f.TF == 0 && f.FF == 0
}
