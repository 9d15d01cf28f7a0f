package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/nanavatisneha/analytics-handbook/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CompetitionID, convey.ShouldEqual, 43)
				convey.So(cfg.SeasonID, convey.ShouldEqual, 3)
				convey.So(cfg.EventsTable, convey.ShouldEqual, "events")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.DropColumns, convey.ShouldContain, "tactics_lineup")
				convey.So(cfg.IngestOnStart, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HANDBOOK_ADDR", ":8080")
			_ = os.Setenv("HANDBOOK_COMPETITION_ID", "11")
			_ = os.Setenv("HANDBOOK_SEASON_ID", "27")
			_ = os.Setenv("HANDBOOK_FETCH_WORKERS", "2")
			_ = os.Setenv("HANDBOOK_EVENTS_TABLE", "wc_events")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CompetitionID, convey.ShouldEqual, 11)
				convey.So(cfg.SeasonID, convey.ShouldEqual, 27)
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 2)
				convey.So(cfg.EventsTable, convey.ShouldEqual, "wc_events")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
competition_id: 2
season_id: 44
database_url: "postgres://localhost:5432/events"
drop_columns:
  - tactics_lineup
  - shot_freeze_frame
fetch_workers: 8
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HANDBOOK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CompetitionID, convey.ShouldEqual, 2)
				convey.So(cfg.SeasonID, convey.ShouldEqual, 44)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://localhost:5432/events")
				convey.So(cfg.DropColumns, convey.ShouldHaveLength, 2)
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
fetch_workers: 8
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HANDBOOK_CONFIG", tmpFile)
			_ = os.Setenv("HANDBOOK_ADDR", ":8080") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")     // from env
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 8) // from file
			})
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HANDBOOK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a required field is blanked", func() {
			_ = os.Setenv("HANDBOOK_EVENTS_TABLE", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"HANDBOOK_CONFIG",
		"HANDBOOK_ADDR",
		"HANDBOOK_COMPETITION_ID",
		"HANDBOOK_SEASON_ID",
		"HANDBOOK_FETCH_WORKERS",
		"HANDBOOK_EVENTS_TABLE",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
