package logger_test

import (
	"context"
	"testing"

	"github.com/salescope/salescope/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	convey.Convey("Given an initialized logger", t, func() {
		err := logger.Init("text")
		convey.So(err, convey.ShouldBeNil)

		ctx := context.Background()
		log := logger.Get()

		convey.Convey("When logging at all levels", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(func() {
					log.Debug(ctx, "debug message", logger.String("k", "v"))
					log.Info(ctx, "info message", logger.Int("count", 1))
					log.Warn(ctx, "warn message", logger.Float64("score", 87.5))
					log.Error(ctx, "error message", logger.Error(nil))
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When creating a named logger", func() {
			named := log.Named("evaluator")

			convey.Convey("Then it should be usable", func() {
				convey.So(named, convey.ShouldNotBeNil)
				convey.So(func() { named.Info(ctx, "from named") }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When attaching run-scoped fields", func() {
			scoped := log.With(logger.String("run_id", "abc-123"))

			convey.Convey("Then it should be usable", func() {
				convey.So(scoped, convey.ShouldNotBeNil)
				convey.So(func() { scoped.Info(ctx, "scoped entry") }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	convey.Convey("Given level names", t, func() {
		_ = logger.Init("json")

		convey.Convey("Then known names should parse", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO  "} {
				convey.So(logger.SetLevelString(lvl), convey.ShouldBeNil)
			}
		})

		convey.Convey("Then unknown names should fail", func() {
			convey.So(logger.SetLevelString("verbose"), convey.ShouldNotBeNil)
		})
	})
}
