package importer

import (
	"strings"

	"github.com/aglmct/tracker/internal/domain"
)

// keywordRule maps any of its keywords, matched as lowercase substrings, to a value.
type keywordRule[T any] struct {
	keywords []string
	value    T
}

var frequencyRules = []keywordRule[domain.Frequency]{
	{[]string{"daily", "every day"}, domain.FrequencyDaily},
	{[]string{"weekly", "every week"}, domain.FrequencyWeekly},
	{[]string{"monthly", "every month"}, domain.FrequencyMonthly},
	{[]string{"quarterly", "every quarter"}, domain.FrequencyQuarterly},
	{[]string{"yearly", "annual", "every year"}, domain.FrequencyYearly},
}

var typeRules = []keywordRule[string]{
	{[]string{"inspect", "check", "review", "examine"}, "Inspection"},
	{[]string{"clean", "wash", "sanitize"}, "Cleaning"},
	{[]string{"repair", "fix", "replace"}, "Repair"},
	{[]string{"service", "maintain", "ppm"}, "Service"},
	{[]string{"test", "calibrate", "measure"}, "Testing"},
}

// InferFrequency guesses a recurrence from keywords in a task description.
// The first matching rule wins; descriptions without a keyword are weekly.
func InferFrequency(description string) domain.Frequency {
	return firstMatch(frequencyRules, description, domain.FrequencyWeekly)
}

// InferType guesses a task type from keywords in a task description.
// The first matching rule wins; descriptions without a keyword are inspections.
func InferType(description string) string {
	return firstMatch(typeRules, description, "Inspection")
}

func firstMatch[T any](rules []keywordRule[T], description string, def T) T {
	lower := strings.ToLower(description)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.value
			}
		}
	}
	return def
}

// ParseDescription splits "PPM for <equipment> at <location>" into its parts.
// Descriptions that do not split into exactly two parts on " at " are
// returned whole as the equipment with an empty location.
func ParseDescription(text string) (equipment, location string) {
	parts := strings.Split(strings.ReplaceAll(text, "PPM for ", ""), " at ")
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return text, ""
}
