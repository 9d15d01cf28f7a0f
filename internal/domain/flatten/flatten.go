// Package flatten collapses schema-less nested match events into a single
// scalar-only table suitable for relational storage.
//
// Column names are the `_`-joined path segments of each leaf value; the raw
// `.` nesting delimiter never appears since it is illegal in SQL identifiers.
// Two-element numeric arrays are treated as coordinate pairs and split into
// `_x`/`_y` columns. Every other array, and any non-scalar residue, is
// dropped rather than persisted.
package flatten

import (
	"sort"
	"strings"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
)

// Delimiter joins path segments in output column names.
const Delimiter = "_"

// locationSegment is the trailing segment trimmed from coordinate columns,
// so pass_end_location splits into pass_end_x / pass_end_y.
const locationSegment = "_location"

// Flatten converts a sequence of raw events into one table. The column set
// is the union over all events; events missing a column read as nil. The
// operation is pure: the same input always yields the same table, and input
// maps are never mutated.
func Flatten(events []model.RawEvent, opts ...Option) (*model.Table, error) {
	f := &flattener{}
	for _, opt := range opts {
		opt(f)
	}

	// First pass: flatten each event to path/value pairs and learn which
	// columns ever carry a coordinate pair. The coordinate decision must be
	// made over the whole input so that a record holding null where another
	// holds [x, y] still gets the derived columns.
	flat := make([]record, 0, len(events))
	coord := map[string]bool{}
	for _, ev := range events {
		rec := record{}
		if err := f.walk("", ev, &rec, coord); err != nil {
			return nil, err
		}
		flat = append(flat, rec)
	}

	// Second pass: replace coordinate columns with their _x/_y pair, drop
	// surviving non-coordinate arrays and listed columns, and union the
	// per-record column sets into one table.
	table := model.NewTable()
	for _, rec := range flat {
		out := model.FlatRecord{}
		for _, c := range rec {
			if coord[c.name] {
				x, y := splitPair(c.value)
				base := coordinateBase(c.name)
				if !f.dropped(base + "_x") {
					out[base+"_x"] = x
				}
				if !f.dropped(base + "_y") {
					out[base+"_y"] = y
				}
				continue
			}
			if _, isArray := c.value.([]any); isArray {
				// Never proved to be a coordinate column: not tabular.
				continue
			}
			if f.dropped(c.name) {
				continue
			}
			out[c.name] = c.value
			table.AddColumn(c.name)
		}
		// Columns that held a coordinate in other records but are absent
		// here still need their derived pair so the union holds.
		for _, name := range sortedKeys(coord) {
			base := coordinateBase(name)
			for _, derived := range []string{base + "_x", base + "_y"} {
				if f.dropped(derived) {
					continue
				}
				table.AddColumn(derived)
				if _, ok := out[derived]; !ok {
					out[derived] = nil
				}
			}
		}
		table.Append(out)
	}
	return table, nil
}

// cell is one flattened path/value pair. Records keep cells in sorted-key
// walk order so the column order of the output is deterministic.
type cell struct {
	name  string
	value any
}

type record []cell

type flattener struct {
	drop   []string
	strict bool
}

// walk recurses through nested mappings emitting one cell per leaf. Keys are
// visited in sorted order; map iteration order must not leak into the table.
// Arrays are carried as-is at this stage since the coordinate decision spans
// the full input.
func (f *flattener) walk(prefix string, m map[string]any, rec *record, coord map[string]bool) error {
	for _, key := range sortedKeys(m) {
		val := m[key]
		name := key
		if prefix != "" {
			name = prefix + Delimiter + key
		}
		switch v := val.(type) {
		case map[string]any:
			if err := f.walk(name, v, rec, coord); err != nil {
				return err
			}
		case []any:
			if isCoordinatePair(v) {
				coord[name] = true
			} else if f.strict && looksCoordinate(name) && malformedPair(v) {
				return newMalformed(name, len(v))
			}
			*rec = append(*rec, cell{name: name, value: v})
		default:
			*rec = append(*rec, cell{name: name, value: scalar(v)})
		}
	}
	return nil
}

// dropped reports whether the column is named in the drop list, either
// exactly or under a dropped prefix.
func (f *flattener) dropped(name string) bool {
	for _, d := range f.drop {
		if name == d || strings.HasPrefix(name, d+Delimiter) {
			return true
		}
	}
	return false
}

// isCoordinatePair reports whether v is a two-element all-numeric array.
func isCoordinatePair(v []any) bool {
	if len(v) != 2 {
		return false
	}
	for _, e := range v {
		if _, ok := e.(float64); !ok {
			return false
		}
	}
	return true
}

// malformedPair reports whether a positional array breaks the 0/1/2-element
// all-numeric contract. Only consulted in strict mode.
func malformedPair(v []any) bool {
	if len(v) > 2 {
		return true
	}
	for _, e := range v {
		if _, ok := e.(float64); !ok {
			return true
		}
	}
	return false
}

// looksCoordinate reports whether a column is named like a positional field.
func looksCoordinate(name string) bool {
	return name == "location" || strings.HasSuffix(name, locationSegment)
}

// splitPair extracts the x/y scalars from a coordinate value. Anything that
// is not a two-element numeric array yields nil for both.
func splitPair(v any) (x, y any) {
	arr, ok := v.([]any)
	if !ok || !isCoordinatePair(arr) {
		return nil, nil
	}
	return arr[0], arr[1]
}

// coordinateBase derives the split-column base name: a trailing `_location`
// segment is trimmed (pass_end_location -> pass_end); a bare `location`
// keeps its name.
func coordinateBase(name string) string {
	if base := strings.TrimSuffix(name, locationSegment); base != "" && base != name {
		return base
	}
	return name
}

// scalar normalizes a leaf value. JSON decoding already confines leaves to
// string/float64/bool/nil; anything else becomes nil so the scalar-only
// invariant holds.
func scalar(v any) any {
	if model.IsScalar(v) {
		return v
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
