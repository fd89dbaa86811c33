package narrative

import (
	"fmt"

	"github.com/salescope/salescope/internal/domain/analysis"
	"github.com/salescope/salescope/internal/domain/model"
)

// section binds a narrative key to its system role and prompt builder.
type section struct {
	key    string
	system string
	prompt func(a *analysis.Analysis) string
}

// sections lists every narrative section in report order.
var sections = []section{
	{
		key:    model.NarrativeExecutiveSummary,
		system: "You are an expert business analyst specializing in automotive sales data.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, write a concise executive summary (3-4 paragraphs) highlighting the most critical findings and their business implications.

%s

Your executive summary should:
1. Lead with the single most important finding
2. Quantify every claim with concrete figures and percentages
3. Close with the key strategic takeaway
4. Be written for C-level executives (clear, concise, actionable)`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeYearlyAnalysis,
		system: "You are an expert automotive industry analyst.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, provide a detailed analysis of yearly trends (3-4 paragraphs).

%s

Cover the growth trajectory, the best and worst years and the likely causes, and quantify year-over-year changes with percentages.`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeRegionalAnalysis,
		system: "You are an expert in global automotive market analysis.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, provide a comprehensive analysis of regional performance (3-4 paragraphs).

%s

Compare leading and lagging regions with their market shares, discuss regional pricing, and give strategic recommendations for underperforming regions. Use concrete figures and percentages.`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeModelAnalysis,
		system: "You are an expert automotive product strategist.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, analyze the model portfolio performance (3-4 paragraphs).

%s

Explain why the top models lead and the bottom models trail, relate pricing to volume, and suggest portfolio moves. Quantify claims with figures and percentages.`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeDriversAnalysis,
		system: "You are an expert in pricing strategy and market analysis.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, analyze the key drivers of sales, especially price (4-5 paragraphs).

%s

Interpret the price-sales correlation, the performance of each price segment, and fuel type and transmission preferences. Be analytical and data-driven, with strategic recommendations, citing figures and percentages.`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeCreativeInsights,
		system: "You are a creative strategic business consultant with deep automotive industry expertise.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, generate 2 distinct, creative and unexpected insights that demonstrate deep business understanding (3-4 paragraphs total).

%s

Look for counterintuitive patterns, second-order effects or cross-segment dynamics the obvious reading would miss. Anchor each insight in the numbers above.`, a.SummaryText())
		},
	},
	{
		key:    model.NarrativeRecommendations,
		system: "You are an expert business analyst specializing in automotive sales data.",
		prompt: func(a *analysis.Analysis) string {
			return fmt.Sprintf(`Based on the following sales analysis, provide 5-7 strategic recommendations for the business.

%s

Each recommendation should be specific and actionable, justified by the data with concrete figures and percentages, and ordered by expected impact.`, a.SummaryText())
		},
	},
}
