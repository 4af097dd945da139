package analysis

import (
	"regexp"
	"strings"
)

var (
	// "**Candidate Name:** Alice Smith", "Candidate's Name: Alice Smith".
	labeledName = regexp.MustCompile(`(?i)candidate(?:'s)?[ \t]+name[ \t]*(?:\*\*)?[ \t]*:[ \t]*([^\n]*\S)`)

	// "The best fit is Alice Smith."
	copularName = regexp.MustCompile(`\bis ([A-Z][a-zA-Z \t\-']+)\.`)

	// "Extracted Name: Alice Smith" or the heading followed by the name on the next line.
	headingName = regexp.MustCompile(`(?i:extracted[ \t]+(?:person'?s[ \t]+)?name|person'?s[ \t]+name)[ \t]*(?:\*\*)?[ \t]*(?::[ \t]*(?:\*\*)?[ \t]*([A-Z][a-zA-Z \t\-']*)|:?[ \t]*(?:\*\*)?[ \t]*\r?\n[ \t]*(?:\*\*)?([A-Z][a-zA-Z \t\-']*))`)

	// A line holding nothing but a name heading, e.g. "a: Name" or "### Person's Name".
	bareHeading = regexp.MustCompile(`^(?:[A-Za-z0-9]{1,3}[.):][ \t]*)?[#*\- \t]*(?i:(?:extracted[ \t]+)?(?:person'?s[ \t]+|candidate(?:'s)?[ \t]+|full[ \t]+)?name)[* \t]*:?[* \t]*$`)

	nameShaped = regexp.MustCompile(`^[A-Z][a-zA-Z \t\-']+$`)
)

// CandidateName applies the name rules in order and returns the first hit,
// or UnknownName.
func CandidateName(text string) string {
	rules := []func(string) string{
		fromLabel,
		fromCopula,
		fromHeading,
		fromBareHeading,
	}

	for _, rule := range rules {
		if name := rule(text); name != "" {
			return name
		}
	}

	return UnknownName
}

func cleanName(s string) string {
	return strings.Trim(strings.TrimSpace(s), "* \t")
}

func fromLabel(text string) string {
	for _, match := range labeledName.FindAllStringSubmatch(text, -1) {
		if name := cleanName(match[1]); name != "" {
			return name
		}
	}
	return ""
}

func fromCopula(text string) string {
	match := copularName.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return cleanName(match[1])
}

func fromHeading(text string) string {
	match := headingName.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	if name := cleanName(match[1]); name != "" {
		return name
	}
	return cleanName(match[2])
}

func fromBareHeading(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if !bareHeading.MatchString(strings.TrimSpace(line)) {
			continue
		}

		for j := 1; j <= 2 && i+j < len(lines); j++ {
			candidate := cleanName(lines[i+j])
			if candidate != "" && nameShaped.MatchString(candidate) {
				return candidate
			}
		}
	}

	return ""
}
