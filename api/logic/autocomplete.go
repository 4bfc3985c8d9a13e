/* autocomplete.go
 * Contains the choice filtering shared by every autocomplete handler. Matching is
 * fuzzy so a partial or slightly misspelled team name still narrows the list.
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxChoices is the most options Discord accepts in one autocomplete response
const MaxChoices = 25

// Choice is one autocomplete option: the label the user sees and the value the
// command receives.
type Choice struct {
	Name  string
	Value string
}

// FilterChoices narrows choices to those matching the user's partial input.
// Empty input returns everything (capped); otherwise substring matches are
// preferred and fuzzy matches fill in behind them.
func FilterChoices(input string, choices []Choice) []Choice {
	if strings.TrimSpace(input) == "" {
		return capChoices(choices)
	}

	lowerInput := strings.ToLower(input)
	var substringMatches, fuzzyMatches []Choice
	for _, choice := range choices {
		lowerName := strings.ToLower(choice.Name)
		switch {
		case strings.Contains(lowerName, lowerInput):
			substringMatches = append(substringMatches, choice)
		case fuzzy.MatchFold(input, choice.Name):
			fuzzyMatches = append(fuzzyMatches, choice)
		}
	}
	return capChoices(append(substringMatches, fuzzyMatches...))
}

func capChoices(choices []Choice) []Choice {
	if len(choices) > MaxChoices {
		return choices[:MaxChoices]
	}
	return choices
}
