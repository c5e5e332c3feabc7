package models

// DefenseWindow is one of the recency splits of the defense-vs-position tables
type DefenseWindow string

const (
	WindowSeason DefenseWindow = "season"
	WindowLast7  DefenseWindow = "last7"
	WindowLast15 DefenseWindow = "last15"
)

// DefenseWindows returns the splits in display order
func DefenseWindows() []DefenseWindow {
	return []DefenseWindow{WindowSeason, WindowLast7, WindowLast15}
}

// DefenseRow is the per-game stats a defense allows to one position
type DefenseRow struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
}

// DefenseTable holds the three windowed tables for one position, keyed by team code
type DefenseTable struct {
	Position string                                  `json:"position"`
	Windows  map[DefenseWindow]map[string]DefenseRow `json:"windows"`
}

// NewDefenseTable creates an empty table for a position
func NewDefenseTable(position string) DefenseTable {
	t := DefenseTable{
		Position: position,
		Windows:  make(map[DefenseWindow]map[string]DefenseRow, 3),
	}
	for _, w := range DefenseWindows() {
		t.Windows[w] = map[string]DefenseRow{}
	}
	return t
}

// Lookup returns the row for a team in a window
func (t DefenseTable) Lookup(window DefenseWindow, team string) (DefenseRow, bool) {
	rows, ok := t.Windows[window]
	if !ok {
		return DefenseRow{}, false
	}
	row, ok := rows[team]
	return row, ok
}
