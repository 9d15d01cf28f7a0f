package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nanavatisneha/analytics-handbook/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When fetching the global instance", func() {
			l := logger.Get()

			Convey("Then it logs at every level without panicking", func() {
				ctx := context.Background()
				So(func() {
					l.Debug(ctx, "debug line", logger.String("k", "v"))
					l.Info(ctx, "info line", logger.Int("n", 1))
					l.Warn(ctx, "warn line", logger.Float64("f", 1.5))
					l.Error(ctx, "error line", logger.Error(errors.New("x")))
				}, ShouldNotPanic)
			})

			Convey("And naming produces a distinct logger", func() {
				So(l.Named("sub"), ShouldNotBeNil)
			})
		})

		Convey("When setting levels from strings", func() {
			Convey("Then known names are accepted", func() {
				for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
					So(logger.SetLevelString(lvl), ShouldBeNil)
				}
			})

			Convey("And unknown names are rejected", func() {
				So(logger.SetLevelString("chatty"), ShouldNotBeNil)
			})
		})

		Convey("When syncing", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
