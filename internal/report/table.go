// Package report renders batch results for people: console tables, the
// markdown report and file dumps.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/tessa/internal/screening"
)

const (
	width          = 80
	summaryPreview = 200
)

var (
	heavyRule = strings.Repeat("=", width)
	lightRule = strings.Repeat("-", width)
)

func matchLabel(match bool) string {
	if match {
		return "✅ YES"
	}
	return "❌ NO"
}

func statusIcon(status screening.Status) string {
	if status == screening.StatusSuccess {
		return "✅"
	}
	return "❌"
}

// Table returns the summary table lines for records.
func Table(records []screening.Record) []string {
	lines := []string{
		fmt.Sprintf("%-3s %-25s %-20s %-8s %-10s", "#", "Resume Name", "Candidate Name", "Match", "Status"),
		lightRule,
	}

	for i, record := range records {
		lines = append(lines, fmt.Sprintf("%-3d %-25s %-20s %-8s %s %-10s",
			i+1,
			record.ResumeName,
			record.CandidateName,
			matchLabel(record.Match),
			statusIcon(record.Status),
			record.Status,
		))
	}

	return lines
}

// FormatMatchRate renders the match rate, or N/A when nothing succeeded.
func FormatMatchRate(stats screening.Statistics) string {
	if stats.TotalSuccessful == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", stats.MatchRate)
}

// WriteSummary prints the summary table followed by the statistics block.
func WriteSummary(w io.Writer, result *screening.BatchResult) error {
	var b strings.Builder

	b.WriteString(heavyRule + "\nANALYSIS SUMMARY TABLE\n" + heavyRule + "\n")
	for _, line := range Table(result.Records) {
		b.WriteString(line + "\n")
	}

	stats := result.Statistics
	b.WriteString(lightRule + "\n")
	b.WriteString("SUMMARY STATISTICS:\n")
	fmt.Fprintf(&b, "  - Total Resumes Analyzed: %d\n", stats.TotalAnalyzed)
	fmt.Fprintf(&b, "  - Successful Matches: %d\n", stats.SuccessfulMatches)
	fmt.Fprintf(&b, "  - Successful Analyses: %d\n", stats.TotalSuccessful)
	fmt.Fprintf(&b, "  - Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(&b, "  - Match Rate: %s\n", FormatMatchRate(stats))
	b.WriteString(heavyRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHeader announces a batch before its first record.
func WriteHeader(w io.Writer, jdName string, candidates int) error {
	rule := strings.Repeat("=", 60)
	_, err := fmt.Fprintf(w, "\n%s\nANALYZING JD: %s\nAGAINST %d RESUMES\n%s\n", rule, jdName, candidates, rule)
	return err
}

// WriteRecord prints the outcome of the n-th candidate as it arrives.
func WriteRecord(w io.Writer, n int, record screening.Record) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%d. Analyzing Resume: %s\n%s\n", n, record.ResumeName, strings.Repeat("-", 40))

	if record.Status == screening.StatusError {
		b.WriteString(record.Summary + "\n")
	} else {
		verdict := "NO"
		if record.Match {
			verdict = "YES"
		}
		fmt.Fprintf(&b, "Name: %s\nMatch: %s\nSummary: %s...\n", record.CandidateName, verdict, preview(record.Summary))
		if record.Match {
			b.WriteString("✅ MATCH\n")
		} else {
			b.WriteString("❌ NO MATCH\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) > summaryPreview {
		return string(runes[:summaryPreview])
	}
	return s
}
