// Package model contains domain models passed between layers.
package model

// RawEvent is one decoded match event as received from the data source.
// The shape is schema-less: field presence varies by event kind, values may
// be scalars, nested mappings, or arrays.
type RawEvent = map[string]any

// Value is a single cell after flattening. The flattener guarantees it is
// one of: string, float64, bool, or nil.
type Value = any

// IsScalar reports whether v satisfies the post-flatten invariant.
func IsScalar(v Value) bool {
	switch v.(type) {
	case nil, string, float64, bool:
		return true
	default:
		return false
	}
}

// FlatRecord maps a column name to its scalar value for one event.
type FlatRecord = map[string]Value

// Table is an ordered, column-uniform collection of flat records ready for
// relational storage. Columns are kept in first-seen order; rows missing a
// column read as nil.
type Table struct {
	columns []string
	index   map[string]int
	rows    []FlatRecord
}

// NewTable creates an empty table with an optional predeclared column order.
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn registers a column if not already present and returns its index.
func (t *Table) AddColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	i := len(t.columns)
	t.columns = append(t.columns, name)
	t.index[name] = i
	return i
}

// HasColumn reports whether the table knows the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the column names in first-seen order. The returned slice
// is a copy and safe to retain.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Append adds one record. Columns unknown to the table are registered.
func (t *Table) Append(rec FlatRecord) {
	for name := range rec {
		t.AddColumn(name)
	}
	t.rows = append(t.rows, rec)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// At returns the value at (row, column); nil when the record lacks the column.
func (t *Table) At(row int, column string) Value {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row][column]
}

// Row returns the record at row, or nil when out of range. Callers must not
// mutate the returned map.
func (t *Table) Row(row int) FlatRecord {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row]
}

// Competition identifies one competition/season pair in the source catalog.
type Competition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
	CountryName     string `json:"country_name"`
}

// Match is one match descriptor returned by the source catalog. The home and
// away team objects carry side-prefixed keys in the source payload, hence the
// two nested types.
type Match struct {
	MatchID   int      `json:"match_id"`
	MatchDate string   `json:"match_date"`
	HomeTeam  HomeTeam `json:"home_team"`
	AwayTeam  AwayTeam `json:"away_team"`
	HomeScore int      `json:"home_score"`
	AwayScore int      `json:"away_score"`
}

// HomeTeam is the nested home side descriptor inside a match.
type HomeTeam struct {
	ID   int    `json:"home_team_id"`
	Name string `json:"home_team_name"`
}

// AwayTeam is the nested away side descriptor inside a match.
type AwayTeam struct {
	ID   int    `json:"away_team_id"`
	Name string `json:"away_team_name"`
}
