package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salescope/salescope/internal/adapters/dataset"
	service "github.com/salescope/salescope/internal/app"
	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubGenerator returns rubric-passing narratives without a model.
type stubGenerator struct {
	err error
}

func (g *stubGenerator) Generate(_ context.Context, _ *analysis.Analysis) (*model.NarrativeSet, error) {
	if g.err != nil {
		return nil, g.err
	}
	n := &model.NarrativeSet{}
	for _, key := range model.NarrativeKeys {
		n.Set(key, strings.Repeat("Volume moved 12% on a 3-region base. ", 8))
	}
	return n, nil
}

// writeDataset produces a CSV with enough spread to pass coverage
// checks: 5 models, 3 regions, 3 years.
func writeDataset(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Model,Region,Fuel_Type,Transmission,Color,Year,Price_USD,Sales_Volume,Engine_Size_L,Mileage_KM\n")
	models := []string{"X5", "X3", "i4", "Z4", "M5"}
	regions := []string{"Europe", "Asia", "Americas"}
	for y := 2021; y <= 2023; y++ {
		for i, m := range models {
			for j, region := range regions {
				fmt.Fprintf(&b, "%s,%s,Petrol,Automatic,Black,%d,%d,%d,2.0,%d\n",
					m, region, y, 40000+i*12000, 100+i*10+j*5, 30000+j*1000)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.DataPath = writeDataset(t)
	cfg.OutputDir = t.TempDir()
	cfg.NarrativeEnabled = false
	return cfg
}

func TestService_Run(t *testing.T) {
	convey.Convey("Given a service with a stubbed narrative generator", t, func() {
		cfg := testConfig(t)
		svc, err := service.New(context.Background(), cfg, service.WithGenerator(&stubGenerator{}))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the pipeline runs", func() {
			res, err := svc.Run(context.Background())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the report evaluation comes back graded", func() {
				convey.So(res, convey.ShouldNotBeNil)
				convey.So(res.OverallScore, convey.ShouldBeGreaterThan, 0)
				convey.So(res.Grade, convey.ShouldNotBeBlank)
			})

			convey.Convey("Then every artifact is written", func() {
				for _, name := range []string{
					"charts.html", "sales_report.html", "sales_report.md", "evaluation_report.txt",
				} {
					_, statErr := os.Stat(filepath.Join(cfg.OutputDir, name))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})

			convey.Convey("Then readability passes on the rendered artifacts", func() {
				convey.So(res.Readability.Score, convey.ShouldEqual, 100)
			})

			convey.Convey("Then a timestamped evaluation record exists", func() {
				entries, readErr := os.ReadDir(filepath.Join(cfg.OutputDir, "evaluations"))
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 1)
				convey.So(entries[0].Name(), convey.ShouldStartWith, "evaluation_")
				convey.So(entries[0].Name(), convey.ShouldEndWith, ".json")
			})
		})
	})
}

func TestService_RunWithoutNarratives(t *testing.T) {
	convey.Convey("Given narrative generation disabled", t, func() {
		cfg := testConfig(t)
		svc, err := service.New(context.Background(), cfg)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the run completes with completeness marked down", func() {
			res, err := svc.Run(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.Completeness.Score, convey.ShouldEqual, 30)
			convey.So(res.Completeness.Issues, convey.ShouldContain,
				"Missing insight sections: "+strings.Join(model.NarrativeKeys, ", "))
		})
	})
}

func TestService_RunGeneratorFailure(t *testing.T) {
	convey.Convey("Given a generator that fails outright", t, func() {
		cfg := testConfig(t)
		svc, err := service.New(context.Background(), cfg,
			service.WithGenerator(&stubGenerator{err: errors.New("provider down")}))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the pipeline still produces an evaluation", func() {
			res, err := svc.Run(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(res, convey.ShouldNotBeNil)
		})
	})
}

func TestService_RunMissingDataset(t *testing.T) {
	convey.Convey("Given a data path that does not exist", t, func() {
		cfg := testConfig(t)
		cfg.DataPath = filepath.Join(t.TempDir(), "missing.csv")
		svc, err := service.New(context.Background(), cfg)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the run aborts with a not-found error", func() {
			_, err := svc.Run(context.Background())
			convey.So(errors.Is(err, dataset.ErrNotFound), convey.ShouldBeTrue)
		})
	})
}
