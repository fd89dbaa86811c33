package evaluation

import (
	"fmt"
	"strings"
)

const ruleWidth = 80

// RenderReport formats an evaluation as a human-readable text report.
func RenderReport(res *Result) string {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	b.WriteString(heavy + "\n")
	b.WriteString("SALES ANALYSIS - REPORT QUALITY EVALUATION\n")
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", res.Timestamp)
	fmt.Fprintf(&b, "\nOVERALL SCORE: %.1f/100\n", res.OverallScore)
	fmt.Fprintf(&b, "GRADE: %s\n", res.Grade)
	b.WriteString("\n" + heavy + "\n")

	b.WriteString("\nDETAILED SCORES:\n")
	b.WriteString(light + "\n")
	for _, d := range res.Dimensions() {
		fmt.Fprintf(&b, "\n%s: %.1f/100 [%s]\n", d.Name, d.Score.Score, d.Score.Status)
		if len(d.Score.Issues) > 0 {
			b.WriteString("  Issues:\n")
			for _, issue := range d.Score.Issues {
				fmt.Fprintf(&b, "    - %s\n", issue)
			}
		}
	}

	b.WriteString("\n" + heavy + "\n")
	b.WriteString("\nRECOMMENDATIONS:\n")
	b.WriteString(light + "\n")
	b.WriteString(recommendation(res.OverallScore) + "\n")
	b.WriteString(heavy + "\n")

	return b.String()
}

func recommendation(score float64) string {
	switch {
	case score >= 90:
		return "✓ Excellent report quality! Meets all production standards."
	case score >= 80:
		return "✓ Good report quality with minor issues to address."
	case score >= 70:
		return "⚠ Satisfactory quality but improvements needed."
	default:
		return "✗ Report quality below acceptable standards. Significant improvements required."
	}
}
