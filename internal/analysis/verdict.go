// Package analysis turns free-form model output into a structured verdict.
package analysis

import (
	"fmt"
	"strings"
)

// UnknownName is used when no candidate name can be recovered.
const UnknownName = "Unknown"

const fallbackPreviewLength = 200

// Verdict is the structured reading of one analysis response.
type Verdict struct {
	CandidateName string `json:"candidate_name"`
	IsMatch       bool   `json:"is_match"`
	Summary       string `json:"summary"`
}

// Extract never fails: any internal fault yields a verdict marked with an
// error summary instead.
func Extract(raw string) Verdict {
	return extract(raw, parse)
}

func extract(raw string, parseFn func(string) Verdict) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = fallback(raw)
		}
	}()

	return parseFn(raw)
}

func parse(raw string) Verdict {
	return Verdict{
		CandidateName: CandidateName(raw),
		IsMatch:       IsMatch(raw),
		Summary:       strings.TrimSpace(raw),
	}
}

func fallback(raw string) Verdict {
	preview := raw
	if runes := []rune(raw); len(runes) > fallbackPreviewLength {
		preview = string(runes[:fallbackPreviewLength])
	}

	return Verdict{
		CandidateName: UnknownName,
		IsMatch:       false,
		Summary:       fmt.Sprintf("Error parsing analysis result: %s...", preview),
	}
}
