package flatten_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/nanavatisneha/analytics-handbook/internal/domain/flatten"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// decode builds raw events from a JSON array literal so test inputs carry
// the same types the real pipeline sees (float64 numbers, []any arrays).
func decode(t *testing.T, raw string) []model.RawEvent {
	t.Helper()
	var events []model.RawEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("bad test input: %v", err)
	}
	return events
}

func TestFlatten_CoordinateSplit(t *testing.T) {
	Convey("Given an event with a nested coordinate pair", t, func() {
		events := decode(t, `[
			{"type": {"name": "Pass"}, "pass": {"end_location": [60.0, 40.0]}}
		]`)

		Convey("When flattening", func() {
			table, err := flatten.Flatten(events)
			So(err, ShouldBeNil)

			Convey("Then the pair is split into scalar x/y columns", func() {
				So(table.Len(), ShouldEqual, 1)
				So(table.At(0, "pass_end_x"), ShouldEqual, 60.0)
				So(table.At(0, "pass_end_y"), ShouldEqual, 40.0)
			})

			Convey("And the pre-split column is gone", func() {
				So(table.HasColumn("pass_end_location"), ShouldBeFalse)
			})
		})
	})
}

func TestFlatten_EndToEnd(t *testing.T) {
	Convey("Given the canonical single-pass example", t, func() {
		events := decode(t, `[
			{"type": {"name": "Pass"}, "pass": {"end_location": [10, 20]}}
		]`)

		Convey("When flattening with no drop columns", func() {
			table, err := flatten.Flatten(events)
			So(err, ShouldBeNil)

			Convey("Then exactly one record with exactly three columns comes out", func() {
				So(table.Len(), ShouldEqual, 1)
				want := model.FlatRecord{
					"type_name":  "Pass",
					"pass_end_x": 10.0,
					"pass_end_y": 20.0,
				}
				So(table.Row(0), ShouldResemble, want)
			})
		})
	})
}

func TestFlatten_MissingCoordinates(t *testing.T) {
	Convey("Given records where the coordinate field varies in shape", t, func() {
		events := decode(t, `[
			{"pass": {"end_location": [60.0, 40.0]}},
			{"pass": {"end_location": [1.0, 2.0, 3.0]}},
			{"type": {"name": "Carry"}}
		]`)

		Convey("When flattening", func() {
			table, err := flatten.Flatten(events)
			So(err, ShouldBeNil)

			Convey("Then only the well-formed pair yields values", func() {
				So(table.At(0, "pass_end_x"), ShouldEqual, 60.0)
				So(table.At(0, "pass_end_y"), ShouldEqual, 40.0)
			})

			Convey("And a three-element array yields null for both", func() {
				So(table.At(1, "pass_end_x"), ShouldBeNil)
				So(table.At(1, "pass_end_y"), ShouldBeNil)
			})

			Convey("And an absent field yields null for both", func() {
				So(table.At(2, "pass_end_x"), ShouldBeNil)
				So(table.At(2, "pass_end_y"), ShouldBeNil)
			})
		})
	})
}

func TestFlatten_StrictCoordinates(t *testing.T) {
	Convey("Given a location field with a third element", t, func() {
		events := decode(t, `[
			{"shot": {"end_location": [100.0, 40.0, 2.5]}}
		]`)

		Convey("When flattening leniently", func() {
			table, err := flatten.Flatten(events)

			Convey("Then the record survives with null coordinates", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 1)
			})
		})

		Convey("When flattening strictly", func() {
			_, err := flatten.Flatten(events, flatten.WithStrictCoordinates())

			Convey("Then it fails with a malformed record error", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, flatten.ErrMalformedRecord)
			})
		})
	})
}

func TestFlatten_DropColumns(t *testing.T) {
	Convey("Given an event carrying a non-tabular lineup", t, func() {
		events := decode(t, `[
			{
				"type": {"name": "Starting XI"},
				"tactics": {
					"formation": 442,
					"lineup": [{"player": {"id": 1, "name": "A"}}, {"player": {"id": 2, "name": "B"}}]
				}
			}
		]`)

		Convey("When flattening with the lineup dropped", func() {
			table, err := flatten.Flatten(events, flatten.WithDropColumns("tactics_lineup"))
			So(err, ShouldBeNil)

			Convey("Then no column derived from the lineup remains", func() {
				for _, col := range table.Columns() {
					So(col, ShouldNotStartWith, "tactics_lineup")
				}
			})

			Convey("And sibling columns survive", func() {
				So(table.At(0, "tactics_formation"), ShouldEqual, 442.0)
				So(table.At(0, "type_name"), ShouldEqual, "Starting XI")
			})
		})
	})
}

func TestFlatten_ColumnUnion(t *testing.T) {
	Convey("Given two heterogeneous events", t, func() {
		events := decode(t, `[
			{"type": {"name": "Shot"}, "shot": {"xg": 0.31}},
			{"type": {"name": "Pass"}}
		]`)

		Convey("When flattening", func() {
			table, err := flatten.Flatten(events)
			So(err, ShouldBeNil)

			Convey("Then the union column is present for both rows", func() {
				So(table.HasColumn("shot_xg"), ShouldBeTrue)
				So(table.At(0, "shot_xg"), ShouldEqual, 0.31)
				So(table.At(1, "shot_xg"), ShouldBeNil)
			})
		})
	})
}

func TestFlatten_ScalarOnlyInvariant(t *testing.T) {
	Convey("Given events with deep nesting and assorted arrays", t, func() {
		events := decode(t, `[
			{
				"id": "a1",
				"location": [12.0, 34.0],
				"related_events": ["b2", "c3"],
				"player": {"id": 7.0, "name": "X"},
				"shot": {
					"freeze_frame": [{"location": [1.0, 2.0]}],
					"outcome": {"name": "Goal"}
				},
				"under_pressure": true
			}
		]`)

		Convey("When flattening", func() {
			table, err := flatten.Flatten(events)
			So(err, ShouldBeNil)

			Convey("Then every cell is a scalar or nil", func() {
				for i := 0; i < table.Len(); i++ {
					for _, col := range table.Columns() {
						So(model.IsScalar(table.At(i, col)), ShouldBeTrue)
					}
				}
			})

			Convey("And arbitrary-length arrays are gone", func() {
				So(table.HasColumn("related_events"), ShouldBeFalse)
			})

			Convey("And the bare location pair keeps its base name", func() {
				So(table.At(0, "location_x"), ShouldEqual, 12.0)
				So(table.At(0, "location_y"), ShouldEqual, 34.0)
			})
		})
	})
}

func TestFlatten_Idempotence(t *testing.T) {
	Convey("Given a mixed batch of events", t, func() {
		raw := `[
			{"type": {"name": "Pass"}, "pass": {"end_location": [10, 20], "length": 22.4}},
			{"type": {"name": "Shot"}, "shot": {"xg": 0.08}, "location": [99.0, 12.0]},
			{"type": {"name": "Pressure"}, "duration": 0.62}
		]`

		Convey("When flattening the same input twice", func() {
			first, err := flatten.Flatten(decode(t, raw))
			So(err, ShouldBeNil)
			second, err := flatten.Flatten(decode(t, raw))
			So(err, ShouldBeNil)

			Convey("Then both tables are identical, columns and rows", func() {
				So(second.Columns(), ShouldResemble, first.Columns())
				So(second.Len(), ShouldEqual, first.Len())
				for i := 0; i < first.Len(); i++ {
					So(reflect.DeepEqual(second.Row(i), first.Row(i)), ShouldBeTrue)
				}
			})
		})
	})
}

func TestFlatten_Empty(t *testing.T) {
	Convey("Given no events", t, func() {
		Convey("When flattening", func() {
			table, err := flatten.Flatten(nil)

			Convey("Then an empty table comes back", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 0)
				So(table.Columns(), ShouldBeEmpty)
			})
		})
	})
}
