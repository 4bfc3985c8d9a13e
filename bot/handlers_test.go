/* handlers_test.go
 * Tests for the slash command handlers: admin gating, the schedule and results
 * commands, the remove-match confirmation flow and autocomplete.
 */

package bot

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nec-pickems/api/api"
	"nec-pickems/api/shared"
	"nec-pickems/api/store"
)

func matchCount(t *testing.T, mock *api.MockStore) int {
	t.Helper()
	matches, err := mock.ListMatches(context.Background())
	require.NoError(t, err)
	return len(matches)
}

func strOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func userOption(name, userID string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: userID,
	}
}

func autocompleteInteraction(id string, user shared.User, command string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:   id,
		Type: discordgo.InteractionApplicationCommandAutocomplete,
		Member: &discordgo.Member{
			User: &discordgo.User{ID: user.UserID, Username: user.Username},
		},
		Data: discordgo.ApplicationCommandInteractionData{Name: command, Options: options},
	}}
}

func TestAdminGateRefusesNonAdmin(t *testing.T) {
	b, _ := newTestBot(t, time.Minute)
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "add-match",
		strOption("team1", "Alpha"), strOption("team2", "Beta"),
		strOption("date", "2026-09-05"), strOption("time", "7:00 PM"),
		strOption("stage", "Regular Season"), strOption("week", "#3"),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "You do not have permission to use this command.", resp.Response.Data.Content)
}

func TestAddMatch(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "add-match",
		strOption("team1", "Alpha"), strOption("team2", "Beta"),
		strOption("date", "2026-09-05"), strOption("time", "7:00 PM"),
		strOption("stage", "Regular Season"), strOption("week", "#3"),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response.Data.Content, "Match added for **Week 3**")
	assert.Contains(t, resp.Response.Data.Content, "**Alpha** vs **Beta**")
	assert.Equal(t, 1, matchCount(t, mock))
}

func TestAddMatchInvalidDate(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "add-match",
		strOption("team1", "Alpha"), strOption("team2", "Beta"),
		strOption("date", "05/09/2026"), strOption("time", "7:00 PM"),
		strOption("stage", "Regular Season"), strOption("week", "#3"),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response.Data.Content, "Could not add match")
	assert.Equal(t, 0, matchCount(t, mock))
}

func TestModifyMatchWeek(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	id := mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Date(2026, 9, 5, 19, 0, 0, 0, time.UTC), Stage: "Regular Season", Week: 3})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "modify-match",
		strOption("match", strconv.FormatInt(id, 10)),
		strOption("week", "Playoffs"), strOption("stage", "Playoffs"),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response.Data.Content, "Playoffs")
}

func TestRemoveMatchConfirmFlow(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	id := mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now().Add(time.Hour), Stage: "Regular Season", Week: 3})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	b.handleInteraction(session, commandInteraction("i1", user, "remove-match", strOption("match", strconv.FormatInt(id, 10))))

	prompt := session.LastResponse()
	require.NotNil(t, prompt)
	assert.Contains(t, prompt.Response.Data.Content, "Are you sure?")
	require.NotEmpty(t, prompt.Response.Data.Components)

	b.handleInteraction(session, buttonInteraction("i2", user, removeConfirmPrefix+strconv.FormatInt(id, 10)))

	decision := session.LastResponse()
	require.NotNil(t, decision)
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, decision.Response.Type)
	assert.Contains(t, decision.Response.Data.Content, "removed")
	assert.Equal(t, 0, matchCount(t, mock))
}

func TestRemoveMatchCancel(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	id := mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now().Add(time.Hour), Stage: "Regular Season", Week: 3})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	b.handleInteraction(session, commandInteraction("i1", user, "remove-match", strOption("match", strconv.FormatInt(id, 10))))
	b.handleInteraction(session, buttonInteraction("i2", user, removeCancelID))

	decision := session.LastResponse()
	require.NotNil(t, decision)
	assert.Contains(t, decision.Response.Data.Content, "canceled")
	assert.Equal(t, 1, matchCount(t, mock))

	// A second confirm click finds no pending prompt and does nothing.
	before := len(session.Responses())
	b.handleInteraction(session, buttonInteraction("i3", user, removeConfirmPrefix+strconv.FormatInt(id, 10)))
	assert.Len(t, session.Responses(), before)
	assert.Equal(t, 1, matchCount(t, mock))
}

func TestModifyResults(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	id := mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Finals", Week: store.PlayoffsWeek})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "modify-results",
		strOption("match", strconv.FormatInt(id, 10)),
		intOption("team1-score", 3), intOption("team2-score", 1),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response.Data.Content, "**Winner:** Alpha")
	result, ok := mock.Result(id)
	require.True(t, ok)
	assert.Equal(t, "Alpha", result.Winner)
}

func TestModifyResultsInvalidScoreline(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedAdmin("u1")
	id := mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Regular Season", Week: 2})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := commandInteraction("i1", user, "modify-results",
		strOption("match", strconv.FormatInt(id, 10)),
		intOption("team1-score", 3), intOption("team2-score", 1),
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response.Data.Content, "Could not record results")
	_, ok := mock.Result(id)
	assert.False(t, ok, "invalid scoreline must not be stored")
}

func TestAddAndRemoveAdmin(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	// Only an existing admin may grant access.
	b.handleInteraction(session, commandInteraction("i0", user, "add-admin", userOption("user", "u9")))
	assert.Equal(t, "You do not have permission to use this command.", session.LastResponse().Response.Data.Content)

	mock.SeedAdmin("u1")

	b.handleInteraction(session, commandInteraction("i1", user, "add-admin", userOption("user", "u9")))
	assert.Contains(t, session.LastResponse().Response.Data.Content, "<@u9> now has admin access")

	b.handleInteraction(session, commandInteraction("i2", user, "remove-admin", userOption("user", "u9")))
	assert.Contains(t, session.LastResponse().Response.Data.Content, "<@u9> no longer has admin access")

	b.handleInteraction(session, commandInteraction("i3", user, "remove-admin", userOption("user", "u9")))
	assert.Contains(t, session.LastResponse().Response.Data.Content, "is not an admin")
}

func TestAutocompletePredictWeeks(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	mock.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Regular Season", Week: 2})
	mock.SeedMatch(store.Match{TeamA: "Gamma", TeamB: "Delta", StartTime: time.Now(), Stage: "Playoffs", Week: store.PlayoffsWeek})
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := autocompleteInteraction("i1", user, "predict",
		&discordgo.ApplicationCommandInteractionDataOption{Name: "week", Type: discordgo.ApplicationCommandOptionInteger, Value: "", Focused: true},
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, resp.Response.Type)

	names := make([]string, 0, len(resp.Response.Data.Choices))
	for _, c := range resp.Response.Data.Choices {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Week 2")
	assert.Contains(t, names, "Playoffs")
}

func TestAutocompleteTeamsExcludesOpponent(t *testing.T) {
	b, mock := newTestBot(t, time.Minute)
	ctx := context.Background()
	for _, team := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, mock.AddTeam(ctx, team))
	}
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := autocompleteInteraction("i1", user, "add-match",
		strOption("team1", "Alpha"),
		&discordgo.ApplicationCommandInteractionDataOption{Name: "team2", Type: discordgo.ApplicationCommandOptionString, Value: "", Focused: true},
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	names := make([]string, 0, len(resp.Response.Data.Choices))
	for _, c := range resp.Response.Data.Choices {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Beta", "Gamma"}, names)
}

func TestAutocompleteStage(t *testing.T) {
	b, _ := newTestBot(t, time.Minute)
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	ic := autocompleteInteraction("i1", user, "add-match",
		&discordgo.ApplicationCommandInteractionDataOption{Name: "stage", Type: discordgo.ApplicationCommandOptionString, Value: "Play", Focused: true},
	)
	b.handleInteraction(session, ic)

	resp := session.LastResponse()
	require.NotNil(t, resp)
	require.Len(t, resp.Response.Data.Choices, 1)
	assert.Equal(t, "Playoffs", resp.Response.Data.Choices[0].Name)
}

func TestUnknownCommand(t *testing.T) {
	b, _ := newTestBot(t, time.Minute)
	session := NewMockDiscordSession()
	user := shared.User{UserID: "u1", Username: "alice"}

	b.handleInteraction(session, commandInteraction("i1", user, "does-not-exist"))
	assert.Equal(t, "Command not recognized.", session.LastResponse().Response.Data.Content)
}
