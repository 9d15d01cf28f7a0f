package statsbomb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/statsbomb"
	. "github.com/smartystreets/goconvey/convey"
)

// newSource serves a minimal open-data layout for the client to walk.
func newSource() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/competitions.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"competition_id": 43, "season_id": 3, "competition_name": "FIFA World Cup", "season_name": "2018", "country_name": "International"}
		]`))
	})
	mux.HandleFunc("/matches/43/3.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"match_id": 8658, "match_date": "2018-07-15",
			 "home_team": {"home_team_id": 771, "home_team_name": "France"},
			 "away_team": {"away_team_id": 785, "away_team_name": "Croatia"},
			 "home_score": 4, "away_score": 2}
		]`))
	})
	mux.HandleFunc("/events/8658.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "e-1", "type": {"name": "Pass"}, "pass": {"end_location": [60.0, 40.0]}},
			{"id": "e-2", "type": {"name": "Shot"}, "shot": {"statsbomb_xg": 0.31}}
		]`))
	})
	mux.HandleFunc("/events/999.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/events/666.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})
	return httptest.NewServer(mux)
}

func TestClient_Fetch(t *testing.T) {
	Convey("Given a client against a stub source", t, func() {
		src := newSource()
		defer src.Close()

		ctx := context.Background()
		client := statsbomb.NewClient(
			statsbomb.WithBaseURL(src.URL),
			statsbomb.WithTimeout(5*time.Second),
		)

		Convey("When fetching the competitions catalog", func() {
			comps, err := client.Competitions(ctx)

			Convey("Then the descriptors decode", func() {
				So(err, ShouldBeNil)
				So(comps, ShouldHaveLength, 1)
				So(comps[0].CompetitionID, ShouldEqual, 43)
				So(comps[0].SeasonID, ShouldEqual, 3)
				So(comps[0].CompetitionName, ShouldEqual, "FIFA World Cup")
			})
		})

		Convey("When fetching matches for a season", func() {
			matches, err := client.Matches(ctx, 43, 3)

			Convey("Then match descriptors decode with both sides", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].MatchID, ShouldEqual, 8658)
				So(matches[0].HomeTeam.Name, ShouldEqual, "France")
				So(matches[0].AwayTeam.Name, ShouldEqual, "Croatia")
			})
		})

		Convey("When fetching events for a match", func() {
			events, err := client.Events(ctx, 8658)

			Convey("Then raw events keep their nested shape", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0]["id"], ShouldEqual, "e-1")
				pass, ok := events[0]["pass"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(pass["end_location"], ShouldResemble, []any{60.0, 40.0})
			})
		})

		Convey("When the source returns a non-200 status", func() {
			_, err := client.Events(ctx, 999)

			Convey("Then the failure wraps the data source sentinel", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, statsbomb.ErrDataSource)
			})
		})

		Convey("When the source returns non-JSON content", func() {
			_, err := client.Events(ctx, 666)

			Convey("Then the decode failure wraps the data source sentinel", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, statsbomb.ErrDataSource)
			})
		})

		Convey("When the source is unreachable", func() {
			dead := statsbomb.NewClient(
				statsbomb.WithBaseURL("http://127.0.0.1:1"),
				statsbomb.WithTimeout(200*time.Millisecond),
			)
			_, err := dead.Competitions(ctx)

			Convey("Then the network failure wraps the data source sentinel", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, statsbomb.ErrDataSource)
			})
		})
	})
}
