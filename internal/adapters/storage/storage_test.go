package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/salescope/salescope/internal/adapters/storage"
	"github.com/salescope/salescope/internal/domain/evaluation"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func sampleResult() *evaluation.Result {
	dim := evaluation.DimensionScore{Score: 95, Issues: []string{}, Status: evaluation.StatusPass}
	return &evaluation.Result{
		ID:             "run-1",
		Timestamp:      "2025-01-02T03:04:05Z",
		Correctness:    dim,
		Completeness:   dim,
		Readability:    evaluation.DimensionScore{Score: 70, Issues: []string{"HTML report file not found"}, Status: evaluation.StatusPass},
		DataQuality:    dim,
		InsightQuality: dim,
		OverallScore:   90,
		Grade:          "A (Excellent)",
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	convey.Convey("Given a store rooted in a temp directory", t, func() {
		dir := t.TempDir()
		fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		store, err := storage.New(dir, storage.WithNow(func() time.Time { return fixed }))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When an evaluation is saved", func() {
			path, err := store.Save(context.Background(), sampleResult())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the record lands under evaluations/ with a timestamped name", func() {
				convey.So(path, convey.ShouldEqual,
					filepath.Join(dir, "evaluations", "evaluation_20250102_030405.json"))
				_, statErr := os.Stat(path)
				convey.So(statErr, convey.ShouldBeNil)
			})

			convey.Convey("Then loading it back yields the same scores and grade", func() {
				loaded, err := store.Load(context.Background(), path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded, convey.ShouldResemble, sampleResult())
			})
		})

		convey.Convey("When loading a missing record", func() {
			_, err := store.Load(context.Background(), filepath.Join(dir, "nope.json"))
			convey.So(errors.Is(err, storage.ErrRead), convey.ShouldBeTrue)
		})

		convey.Convey("When loading a corrupt record", func() {
			bad := filepath.Join(dir, "bad.json")
			convey.So(os.WriteFile(bad, []byte("{not json"), 0o644), convey.ShouldBeNil)

			_, err := store.Load(context.Background(), bad)
			convey.So(errors.Is(err, storage.ErrDecode), convey.ShouldBeTrue)
		})
	})
}

func TestStore_SaveReport(t *testing.T) {
	convey.Convey("Given a store rooted in a temp directory", t, func() {
		dir := t.TempDir()
		store, err := storage.New(dir)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a text report is saved", func() {
			path, err := store.SaveReport(context.Background(), "evaluation_report.txt", "OVERALL SCORE: 90.0/100")
			convey.So(err, convey.ShouldBeNil)

			content, readErr := os.ReadFile(path)
			convey.So(readErr, convey.ShouldBeNil)
			convey.So(string(content), convey.ShouldContainSubstring, "OVERALL SCORE")
		})
	})
}

func TestStore_New(t *testing.T) {
	convey.Convey("Given an unwritable parent", t, func() {
		base := t.TempDir()
		file := filepath.Join(base, "occupied")
		convey.So(os.WriteFile(file, []byte("x"), 0o644), convey.ShouldBeNil)

		convey.Convey("Then construction reports the directory failure", func() {
			_, err := storage.New(filepath.Join(file, "reports"))
			convey.So(errors.Is(err, storage.ErrCreateDir), convey.ShouldBeTrue)
		})
	})
}
