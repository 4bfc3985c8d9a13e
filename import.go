/* import.go
 * Bulk schedule import. Reads a text file with one match per line:
 *   "Team A" "Team B" <RFC3339 start time> <stage> <week>
 * Team names and stages containing spaces must be quoted. The whole file is
 * imported in a single transaction, so a bad line imports nothing.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-andiamo/splitter"

	"nec-pickems/api/api"
	"nec-pickems/api/logic"
	"nec-pickems/api/store"
)

// parseScheduleLine turns one line of the schedule file into a match. We use
// splitter here instead of strings.Fields so team names that contain spaces,
// e.g. "Faze Clan", are recognised as one team not two.
func parseScheduleLine(line string) (store.Match, error) {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	tokens, err := spaceSplitter.Split(line)
	if err != nil {
		return store.Match{}, fmt.Errorf("could not split line: %w", err)
	}

	fields := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		fields = append(fields, strings.Trim(tok, `"“”`))
	}
	if len(fields) != 5 {
		return store.Match{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	start, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		return store.Match{}, fmt.Errorf("invalid start time %q: %w", fields[2], err)
	}
	week, err := logic.ParseWeek(fields[4])
	if err != nil {
		return store.Match{}, err
	}

	return store.Match{
		TeamA:     fields[0],
		TeamB:     fields[1],
		StartTime: start.UTC(),
		Stage:     fields[3],
		Week:      week,
	}, nil
}

// importSchedule loads every match in the file at path into the store,
// returning the number of matches imported.
func importSchedule(ctx context.Context, apiPtr *api.API, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read schedule file: %w", err)
	}

	var matches []store.Match
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match, err := parseScheduleLine(line)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", i+1, err)
		}
		matches = append(matches, match)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("schedule file %s contains no matches", path)
	}

	if err := apiPtr.ImportSchedule(ctx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}
