/* token.go
 * Defines the selection token attached to each prediction button. The encoding is
 * `predict_<matchId>_<team_a|team_b>` and is kept stable for interoperability with
 * component custom ids already attached to rendered messages.
 */

package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the leading marker of every prediction selection token. The bot
// routes component interactions whose custom id starts with this to the
// prediction session layer.
const Prefix = "predict"

// ErrMalformed is returned when a custom id does not decode to a match id and
// a recognised side marker.
var ErrMalformed = errors.New("malformed selection token")

// Side is the fixed marker for one of the two competing entities in a match
type Side string

const (
	SideA Side = "team_a"
	SideB Side = "team_b"
)

// Choose resolves the side marker to the matching team name
func (s Side) Choose(teamA, teamB string) string {
	if s == SideA {
		return teamA
	}
	return teamB
}

// Selection identifies one button: a match and the side it stands for
type Selection struct {
	MatchID int64
	Side    Side
}

// Encode renders the selection in its wire form, e.g. "predict_7_team_a"
func (sel Selection) Encode() string {
	return fmt.Sprintf("%s_%d_%s", Prefix, sel.MatchID, sel.Side)
}

// Parse decodes a custom id back into a Selection. The token must have exactly
// the shape `predict_<digits>_<team_a|team_b>`; anything else is ErrMalformed.
func Parse(customID string) (Selection, error) {
	rest, ok := strings.CutPrefix(customID, Prefix+"_")
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrMalformed, customID)
	}

	// The side marker itself contains an underscore, so split off the id first
	id, side, ok := strings.Cut(rest, "_")
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrMalformed, customID)
	}

	matchID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || matchID < 0 {
		return Selection{}, fmt.Errorf("%w: %q", ErrMalformed, customID)
	}

	switch Side(side) {
	case SideA, SideB:
		return Selection{MatchID: matchID, Side: Side(side)}, nil
	default:
		return Selection{}, fmt.Errorf("%w: %q", ErrMalformed, customID)
	}
}

// Is reports whether a custom id belongs to the prediction selection namespace
func Is(customID string) bool {
	return strings.HasPrefix(customID, Prefix+"_")
}
