package narrative_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/salescope/salescope/internal/adapters/narrative"
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

// stubModel scripts chat completions per call.
type stubModel struct {
	calls    int
	generate func(call int, in []*schema.Message) (*schema.Message, error)
}

func (s *stubModel) Generate(_ context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	s.calls++
	return s.generate(s.calls, in)
}

func (s *stubModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not scripted")
}

func testConfig() narrative.Config {
	return narrative.Config{
		Model:      "gpt-4o",
		RPM:        6000,
		Burst:      100,
		MaxRetries: 2,
	}
}

func sampleAnalysis() *analysis.Analysis {
	return analysis.Analyze([]model.SalesRecord{
		{Model: "X5", Region: "Europe", FuelType: "Petrol", Transmission: "Automatic",
			Year: 2022, PriceUSD: 60000, SalesVolume: 150, EngineSizeL: 3, MileageKM: 42000},
		{Model: "i4", Region: "Asia", FuelType: "Electric", Transmission: "Automatic",
			Year: 2023, PriceUSD: 55000, SalesVolume: 300, EngineSizeL: 0, MileageKM: 12000},
	})
}

func TestOpenAI_Generate(t *testing.T) {
	convey.Convey("Given a model that answers every prompt", t, func() {
		stub := &stubModel{generate: func(_ int, in []*schema.Message) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: "Sales grew 12% overall. " + in[0].Content}, nil
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(), narrative.WithChatModel(stub))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When narratives are generated", func() {
			set, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then every section is present", func() {
				convey.So(set.Present(), convey.ShouldEqual, len(model.NarrativeKeys))
				text, ok := set.Get(model.NarrativeExecutiveSummary)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(text, convey.ShouldContainSubstring, "Sales grew 12%")
			})

			convey.Convey("And one model call was made per section", func() {
				convey.So(stub.calls, convey.ShouldEqual, len(model.NarrativeKeys))
			})
		})
	})

	convey.Convey("Given a model that fails on the third call", t, func() {
		stub := &stubModel{generate: func(call int, _ []*schema.Message) (*schema.Message, error) {
			if call == 3 {
				return nil, errors.New("upstream exploded")
			}
			return &schema.Message{Role: schema.Assistant, Content: "Fine. 10% up."}, nil
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(), narrative.WithChatModel(stub))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then that section is absent and the rest survive", func() {
			set, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(err, convey.ShouldBeNil)
			convey.So(set.Present(), convey.ShouldEqual, len(model.NarrativeKeys)-1)

			_, ok := set.Get(model.NarrativeRegionalAnalysis)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a model that always fails", t, func() {
		stub := &stubModel{generate: func(int, []*schema.Message) (*schema.Message, error) {
			return nil, errors.New("down")
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(), narrative.WithChatModel(stub))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the run fails with the all-sections error", func() {
			_, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(errors.Is(err, narrative.ErrAllSectionsFailed), convey.ShouldBeTrue)
		})
	})
}

func TestOpenAI_RateLimitRetry(t *testing.T) {
	convey.Convey("Given a model that rate-limits the first attempt of each section", t, func() {
		seen := map[string]int{}
		stub := &stubModel{generate: func(_ int, in []*schema.Message) (*schema.Message, error) {
			seen[in[0].Content]++
			if seen[in[0].Content] == 1 {
				return nil, errors.New("429 Too Many Requests")
			}
			return &schema.Message{Role: schema.Assistant, Content: "Recovered. 5% growth."}, nil
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(),
			narrative.WithChatModel(stub),
			narrative.WithRetryBaseDelay(time.Millisecond))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then retries recover every section", func() {
			set, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(err, convey.ShouldBeNil)
			convey.So(set.Present(), convey.ShouldEqual, len(model.NarrativeKeys))
		})
	})

	convey.Convey("Given persistent rate limiting", t, func() {
		stub := &stubModel{generate: func(int, []*schema.Message) (*schema.Message, error) {
			return nil, errors.New("429 Too Many Requests")
		}}
		cfg := testConfig()
		cfg.MaxRetries = 1
		gen, err := narrative.NewOpenAI(context.Background(), cfg,
			narrative.WithChatModel(stub),
			narrative.WithRetryBaseDelay(time.Millisecond))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then each section gives up after its retry budget", func() {
			_, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(errors.Is(err, narrative.ErrAllSectionsFailed), convey.ShouldBeTrue)
			convey.So(stub.calls, convey.ShouldEqual, len(model.NarrativeKeys)*2)
		})
	})
}

func TestOpenAI_EmptyCompletion(t *testing.T) {
	convey.Convey("Given a model that returns whitespace", t, func() {
		stub := &stubModel{generate: func(int, []*schema.Message) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: "   \n"}, nil
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(), narrative.WithChatModel(stub))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then empty completions count as failures", func() {
			_, err := gen.Generate(context.Background(), sampleAnalysis())
			convey.So(errors.Is(err, narrative.ErrAllSectionsFailed), convey.ShouldBeTrue)
		})
	})
}

func TestPromptsCarryTheSummary(t *testing.T) {
	convey.Convey("Given any section prompt", t, func() {
		var prompts []string
		stub := &stubModel{generate: func(_ int, in []*schema.Message) (*schema.Message, error) {
			prompts = append(prompts, in[1].Content)
			return &schema.Message{Role: schema.Assistant, Content: "ok 1%"}, nil
		}}
		gen, err := narrative.NewOpenAI(context.Background(), testConfig(), narrative.WithChatModel(stub))
		convey.So(err, convey.ShouldBeNil)

		_, err = gen.Generate(context.Background(), sampleAnalysis())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the analysis summary is embedded in every prompt", func() {
			for _, p := range prompts {
				convey.So(p, convey.ShouldContainSubstring, "SALES DATA ANALYSIS SUMMARY")
				convey.So(strings.Contains(p, "=== OVERVIEW ==="), convey.ShouldBeTrue)
			}
		})
	})
}
