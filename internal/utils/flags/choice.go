package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
)

// ChoiceSet describes a flag that accepts one of a fixed list of case-insensitive values.
type ChoiceSet struct {
	Default string
	Choices []string
}

// NewChoiceSet constructs a ChoiceSet with trimmed, de-duplicated, lower-cased choices.
func NewChoiceSet(defaultChoice string, choices ...string) ChoiceSet {
	return ChoiceSet{
		Default: strings.ToLower(strings.TrimSpace(defaultChoice)),
		Choices: normalizeChoices(choices),
	}
}

// Usage builds a usage string where the default option is capitalized inside a placeholder.
func (choiceSet ChoiceSet) Usage(description string) string {
	return FormatChoiceUsage(choiceSet.Default, choiceSet.Choices, description)
}

// Resolve maps raw input to a known choice. Blank input resolves to the default; unknown input reports false.
func (choiceSet ChoiceSet) Resolve(raw string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(normalized) == 0 {
		normalized = choiceSet.Default
	}
	for _, choice := range choiceSet.Choices {
		if choice == normalized {
			return choice, true
		}
	}
	return normalized, false
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	for _, choice := range normalizeChoiceDisplay(choices) {
		if strings.ToLower(choice) == normalizedDefault && len(normalizedDefault) > 0 {
			choice = strings.ToUpper(choice)
		}
		highlighted = append(highlighted, choice)
	}
	return choicePlaceholderPrefix + strings.Join(highlighted, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func normalizeChoices(choices []string) []string {
	displayChoices := normalizeChoiceDisplay(choices)
	normalized := make([]string, 0, len(displayChoices))
	for _, choice := range displayChoices {
		normalized = append(normalized, strings.ToLower(choice))
	}
	return normalized
}

func normalizeChoiceDisplay(choices []string) []string {
	display := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		display = append(display, trimmedChoice)
	}
	return display
}
