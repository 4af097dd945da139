package screening

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Record is the outcome for one candidate of a batch.
type Record struct {
	ResumeName    string `json:"resume_name"`
	CandidateName string `json:"candidate_name"`
	Match         bool   `json:"match"`
	Summary       string `json:"summary"`
	Status        Status `json:"status"`
}

type Statistics struct {
	TotalAnalyzed     int     `json:"total_analyzed"`
	SuccessfulMatches int     `json:"successful_matches"`
	TotalSuccessful   int     `json:"total_successful"`
	TotalErrors       int     `json:"total_errors"`
	MatchRate         float64 `json:"match_rate"`
}

type BatchResult struct {
	JDName     string     `json:"jd_name"`
	Records    []Record   `json:"results"`
	Statistics Statistics `json:"statistics"`
}

// Event is emitted after every candidate and once more at the end. Progress
// events carry the candidate just processed in Current; the final event has
// an empty Current and a non-nil Result.
type Event struct {
	Records []Record
	Current string
	Result  *BatchResult
}

// Done reports whether this is the final event of a batch.
func (e Event) Done() bool {
	return e.Result != nil
}

// ErrEmptyCandidateSet is returned when there is nothing to screen.
var ErrEmptyCandidateSet = errors.New("no resumes found in cache")

// NotFoundError reports an unknown job description.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job description %q not found. Available: [%s]", e.Name, strings.Join(e.Available, ", "))
}

// ComputeStatistics aggregates records. MatchRate is a percentage of the
// successful analyses and zero when there are none.
func ComputeStatistics(records []Record) Statistics {
	stats := Statistics{TotalAnalyzed: len(records)}

	for _, record := range records {
		switch record.Status {
		case StatusSuccess:
			stats.TotalSuccessful++
			if record.Match {
				stats.SuccessfulMatches++
			}
		case StatusError:
			stats.TotalErrors++
		}
	}

	if stats.TotalSuccessful > 0 {
		stats.MatchRate = float64(stats.SuccessfulMatches) / float64(stats.TotalSuccessful) * 100
	}

	return stats
}
