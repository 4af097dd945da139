package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/tessa/internal/screening"
)

// Markdown renders the downloadable HR analysis report.
func Markdown(result *screening.BatchResult, now time.Time) string {
	if result == nil {
		return ""
	}

	stats := result.Statistics

	var b strings.Builder
	b.WriteString("# HR Analysis Report\n\n")
	fmt.Fprintf(&b, "**Job Description:** %s\n", result.JDName)
	fmt.Fprintf(&b, "**Analysis Date:** %s\n\n", now.Format(time.DateTime))

	b.WriteString("## Summary Statistics\n")
	fmt.Fprintf(&b, "- Total Resumes Analyzed: %d\n", stats.TotalAnalyzed)
	fmt.Fprintf(&b, "- Successful Matches: %d\n", stats.SuccessfulMatches)
	fmt.Fprintf(&b, "- Successful Analyses: %d\n", stats.TotalSuccessful)
	fmt.Fprintf(&b, "- Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(&b, "- Match Rate: %.1f%%\n\n", stats.MatchRate)

	b.WriteString("## Detailed Results\n\n")

	for i, record := range result.Records {
		status := "❌ NO MATCH"
		if record.Match {
			status = "✅ MATCH"
		}

		fmt.Fprintf(&b, "\n### %d. %s (%s)\n\n", i+1, record.CandidateName, record.ResumeName)
		fmt.Fprintf(&b, "**Status:** %s\n", status)
		fmt.Fprintf(&b, "**Analysis Status:** %s\n\n", record.Status)
		fmt.Fprintf(&b, "**Detailed Analysis:**\n%s\n\n---\n", record.Summary)
	}

	return b.String()
}
