package graph

// Activity is a single task of a network plan as supplied by an activity source.
// It is an input record: nothing in this module writes to it after Build.
type Activity struct {
	ID           int    `json:"id"`
	Label        string `json:"label"`
	Duration     int    `json:"duration"`
	Predecessors []int  `json:"predecessors"` // external ids
	Successors   []int  `json:"successors"`   // external ids
}

// Network is the validated precedence graph of a set of activities.
//
// Activities form an arena addressed by a dense handle (the position in the
// input slice). External ids map to handles through index; the reverse
// direction is just Activities[h].ID.
type Network struct {
	Activities []Activity
	Adj        [][]bool // Adj[i][j]: activity i lists activity j as successor
	Starts     []int    // handles of activities without predecessors
	Ends       []int    // handles of activities without successors

	index map[int]int // external id -> handle
}

// Edge is a precedence relation between two activities, by external id.
type Edge struct {
	From int
	To   int
}
