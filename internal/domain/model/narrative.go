package model

// Narrative section keys, in the order sections appear in a report.
const (
	NarrativeExecutiveSummary = "executive_summary"
	NarrativeYearlyAnalysis   = "yearly_analysis"
	NarrativeRegionalAnalysis = "regional_analysis"
	NarrativeModelAnalysis    = "model_analysis"
	NarrativeDriversAnalysis  = "drivers_analysis"
	NarrativeCreativeInsights = "creative_insights"
	NarrativeRecommendations  = "recommendations"
)

// NarrativeKeys lists every section key in canonical order.
var NarrativeKeys = []string{
	NarrativeExecutiveSummary,
	NarrativeYearlyAnalysis,
	NarrativeRegionalAnalysis,
	NarrativeModelAnalysis,
	NarrativeDriversAnalysis,
	NarrativeCreativeInsights,
	NarrativeRecommendations,
}

// NarrativeSet holds the generated prose sections of a report. A nil
// entry means the section was never produced, which is distinct from a
// section that was produced empty.
type NarrativeSet struct {
	ExecutiveSummary *string `json:"executive_summary,omitempty"`
	YearlyAnalysis   *string `json:"yearly_analysis,omitempty"`
	RegionalAnalysis *string `json:"regional_analysis,omitempty"`
	ModelAnalysis    *string `json:"model_analysis,omitempty"`
	DriversAnalysis  *string `json:"drivers_analysis,omitempty"`
	CreativeInsights *string `json:"creative_insights,omitempty"`
	Recommendations  *string `json:"recommendations,omitempty"`
}

// NarrativeEntry pairs a section key with its text. Text is nil for a
// section that is absent.
type NarrativeEntry struct {
	Key  string
	Text *string
}

func (n *NarrativeSet) slot(key string) **string {
	switch key {
	case NarrativeExecutiveSummary:
		return &n.ExecutiveSummary
	case NarrativeYearlyAnalysis:
		return &n.YearlyAnalysis
	case NarrativeRegionalAnalysis:
		return &n.RegionalAnalysis
	case NarrativeModelAnalysis:
		return &n.ModelAnalysis
	case NarrativeDriversAnalysis:
		return &n.DriversAnalysis
	case NarrativeCreativeInsights:
		return &n.CreativeInsights
	case NarrativeRecommendations:
		return &n.Recommendations
	default:
		return nil
	}
}

// Set stores text under key. Unknown keys are ignored.
func (n *NarrativeSet) Set(key, text string) {
	if slot := n.slot(key); slot != nil {
		*slot = &text
	}
}

// Get returns the text for key and whether the section is present.
func (n *NarrativeSet) Get(key string) (string, bool) {
	slot := n.slot(key)
	if slot == nil || *slot == nil {
		return "", false
	}
	return **slot, true
}

// Entries returns every section in canonical order, absent ones with a
// nil Text. Iterating this keeps downstream output deterministic.
func (n *NarrativeSet) Entries() []NarrativeEntry {
	entries := make([]NarrativeEntry, 0, len(NarrativeKeys))
	for _, key := range NarrativeKeys {
		entries = append(entries, NarrativeEntry{Key: key, Text: *n.slot(key)})
	}
	return entries
}

// Present counts sections that were produced.
func (n *NarrativeSet) Present() int {
	count := 0
	for _, key := range NarrativeKeys {
		if *n.slot(key) != nil {
			count++
		}
	}
	return count
}
