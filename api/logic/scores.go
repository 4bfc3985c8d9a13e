/* scores.go
 * Contains the score-combination validation and winner derivation used when an
 * admin records match results.
 */

package logic

import (
	"fmt"
	"strings"
)

// StageFinals is the only stage played as a best of 5; every other stage is a
// best of 3.
const StageFinals = "Finals"

var (
	bestOfFiveCombos  = [][2]int{{3, 0}, {3, 1}, {3, 2}, {0, 3}, {1, 3}, {2, 3}}
	bestOfThreeCombos = [][2]int{{2, 0}, {2, 1}, {0, 2}, {1, 2}}
)

// ValidCombinations returns the legal final score combinations for a stage
func ValidCombinations(stage string) [][2]int {
	if stage == StageFinals {
		return bestOfFiveCombos
	}
	return bestOfThreeCombos
}

// ValidateScore checks a submitted score pair against the stage's win condition.
// The returned error lists the allowed combinations so it can be shown verbatim
// to the submitting admin.
func ValidateScore(stage string, teamAScore, teamBScore int) error {
	combos := ValidCombinations(stage)
	for _, combo := range combos {
		if combo[0] == teamAScore && combo[1] == teamBScore {
			return nil
		}
	}

	var allowed []string
	for _, combo := range combos {
		allowed = append(allowed, fmt.Sprintf("%d-%d", combo[0], combo[1]))
	}
	return fmt.Errorf("invalid score combination for %s. Allowed combinations: %s",
		stage, strings.Join(allowed, ", "))
}

// Winner derives the winning team name from a validated score pair
func Winner(teamA, teamB string, teamAScore, teamBScore int) string {
	if teamAScore > teamBScore {
		return teamA
	}
	return teamB
}
