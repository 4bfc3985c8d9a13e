/* token_test.go
 * Contains unit tests for the selection token codec
 */

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "predict_7_team_a", Selection{MatchID: 7, Side: SideA}.Encode())
	assert.Equal(t, "predict_123_team_b", Selection{MatchID: 123, Side: SideB}.Encode())
}

func TestParse_RoundTrip(t *testing.T) {
	selections := []Selection{
		{MatchID: 0, Side: SideA},
		{MatchID: 7, Side: SideB},
		{MatchID: 9223372036854775807, Side: SideA},
	}
	for _, sel := range selections {
		decoded, err := Parse(sel.Encode())
		require.NoError(t, err)
		assert.Equal(t, sel, decoded)
	}
}

func TestParse_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"predict",
		"predict_",
		"predict_7",
		"predict_7_",
		"predict_7_team_c",
		"predict_seven_team_a",
		"predict_-7_team_a",
		"predict_7_x_team_a",
		"remove-confirm_7",
		"PREDICT_7_team_a",
	}
	for _, customID := range malformed {
		_, err := Parse(customID)
		assert.ErrorIs(t, err, ErrMalformed, "expected %q to be rejected", customID)
	}
}

func TestSideChoose(t *testing.T) {
	assert.Equal(t, "Alpha", SideA.Choose("Alpha", "Beta"))
	assert.Equal(t, "Beta", SideB.Choose("Alpha", "Beta"))
}

func TestIs(t *testing.T) {
	assert.True(t, Is("predict_7_team_a"))
	assert.True(t, Is("predict_garbage"))
	assert.False(t, Is("remove-confirm_7"))
	assert.False(t, Is("predict"))
}
