package analysis

import "strings"

var (
	positiveIndicators = []string{
		"strong candidate", "good match", "well qualified", "excellent fit",
		"recommended", "suitable", "qualified", "matches", "aligns well",
	}

	negativeIndicators = []string{
		"not a match", "does not match", "lacks", "gap", "missing",
		"not suitable", "not qualified", "weak candidate", "does not align",
	}
)

const conclusionMarker = "conclusion"

// IsMatch votes on the text with the indicator phrases. Each phrase counts
// once however often it occurs. When the vote is not positive, a positive
// phrase after the first "conclusion" still makes it a match.
func IsMatch(text string) bool {
	lower := strings.ToLower(text)

	if countPresent(lower, positiveIndicators) > countPresent(lower, negativeIndicators) {
		return true
	}

	idx := strings.Index(lower, conclusionMarker)
	if idx == -1 {
		return false
	}

	return countPresent(lower[idx:], positiveIndicators) > 0
}

func countPresent(text string, indicators []string) int {
	count := 0
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count
}
