/* weeks.go
 * Contains helpers for converting between the stored integer week and the labels
 * shown in command options and rendered messages. Week 0 is the playoff bracket.
 */

package logic

import (
	"fmt"
	"strconv"
	"strings"

	"nec-pickems/api/store"
)

// ParseWeek converts a week option value ("Playoffs", "#3" or "3") to the
// stored integer form.
func ParseWeek(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, "Playoffs") {
		return store.PlayoffsWeek, nil
	}
	week, err := strconv.Atoi(strings.TrimPrefix(trimmed, "#"))
	if err != nil || week < 1 {
		return 0, fmt.Errorf("invalid week %q", input)
	}
	return week, nil
}

// WeekLabel renders a week for display, e.g. "Week 3" or "Playoffs"
func WeekLabel(week int) string {
	if week == store.PlayoffsWeek {
		return "Playoffs"
	}
	return fmt.Sprintf("Week %d", week)
}

// WeekOption renders a week the way the command options name it, e.g. "#3"
func WeekOption(week int) string {
	if week == store.PlayoffsWeek {
		return "Playoffs"
	}
	return fmt.Sprintf("#%d", week)
}
