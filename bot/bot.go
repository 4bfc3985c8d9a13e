/* bot.go
 * Contains the Bot type, the slash command definitions registered with Discord,
 * and the routing of incoming interactions to their handlers.
 */

package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"nec-pickems/api/api"
	"nec-pickems/api/shared"
	"nec-pickems/api/token"
)

type Bot struct {
	BotToken string
	GuildID  string
	API      *api.API
	Sessions *SessionManager
	Log      *logrus.Logger

	removals *removalPrompts
}

func NewBot(botToken, guildID string, apiPtr *api.API, window time.Duration, log *logrus.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, errors.New("bot token is required")
	}
	if apiPtr == nil {
		return nil, errors.New("api is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bot{
		BotToken: botToken,
		GuildID:  guildID,
		API:      apiPtr,
		Sessions: NewSessionManager(apiPtr, window, log),
		Log:      log,
		removals: newRemovalPrompts(),
	}, nil
}

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "predict",
		Description: "Open a prediction message for a week's matches",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionInteger,
				Name:         "week",
				Description:  "Week to predict",
				Required:     true,
				Autocomplete: true,
			},
		},
	},
	{
		Name:        "add-match",
		Description: "Add a match to the schedule (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "team1", Description: "First team", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "team2", Description: "Second team", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "date", Description: "Match date (YYYY-MM-DD)", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Match start time", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "stage", Description: "Tournament stage", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "week", Description: "Week of the match", Required: true, Autocomplete: true},
		},
	},
	{
		Name:        "modify-match",
		Description: "Modify an existing match (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "match", Description: "Match to modify", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "team1", Description: "First team", Required: false, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "team2", Description: "Second team", Required: false, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "date", Description: "Match date (YYYY-MM-DD)", Required: false, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Match start time", Required: false, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "stage", Description: "Tournament stage", Required: false, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "week", Description: "Week of the match", Required: false, Autocomplete: true},
		},
	},
	{
		Name:        "remove-match",
		Description: "Remove a match and its predictions (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "match", Description: "Match to remove", Required: true, Autocomplete: true},
		},
	},
	{
		Name:        "modify-results",
		Description: "Record the final score of a match (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "match", Description: "Match to score", Required: true, Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "team1-score", Description: "Maps won by the first team", Required: true},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "team2-score", Description: "Maps won by the second team", Required: true},
		},
	},
	{
		Name:        "add-admin",
		Description: "Grant a user admin access (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to grant access", Required: true},
		},
	},
	{
		Name:        "remove-admin",
		Description: "Revoke a user's admin access (admin only)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to revoke access from", Required: true},
		},
	},
}

// handleInteraction is the single entry point for every gateway interaction. A
// panic in a handler is contained here so one bad interaction cannot take the
// bot down.
func (b *Bot) handleInteraction(session DiscordSession, ic *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			b.Log.WithField("panic", r).Error("interaction handler panicked")
			_ = respondEphemeral(session, ic.Interaction, "An unexpected error occurred. Please try again later.")
		}
	}()

	ctx := context.Background()
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, session, ic)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(ctx, session, ic)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, session, ic)
	}
}

func (b *Bot) handleCommand(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) {
	name := ic.ApplicationCommandData().Name
	var err error
	switch name {
	case "predict":
		err = b.predictHandler(ctx, session, ic)
	case "add-match":
		err = b.addMatchHandler(ctx, session, ic)
	case "modify-match":
		err = b.modifyMatchHandler(ctx, session, ic)
	case "remove-match":
		err = b.removeMatchHandler(ctx, session, ic)
	case "modify-results":
		err = b.modifyResultsHandler(ctx, session, ic)
	case "add-admin":
		err = b.addAdminHandler(ctx, session, ic)
	case "remove-admin":
		err = b.removeAdminHandler(ctx, session, ic)
	default:
		err = respondEphemeral(session, ic.Interaction, "Command not recognized.")
	}
	if err != nil {
		b.Log.WithError(err).WithField("command", name).Error("command handler failed")
	}
}

func (b *Bot) handleComponent(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) {
	customID := ic.MessageComponentData().CustomID
	user := interactionUser(ic)
	var err error
	switch {
	case token.Is(customID):
		err = b.Sessions.HandleSelection(ctx, session, ic, user)
	case strings.HasPrefix(customID, removeConfirmPrefix) || customID == removeCancelID:
		err = b.removalDecisionHandler(ctx, session, ic, user)
	default:
		b.Log.WithField("custom_id", customID).Warn("component interaction not recognized")
	}
	if err != nil {
		b.Log.WithError(err).WithField("custom_id", customID).Error("component handler failed")
	}
}

func respondEphemeral(session DiscordSession, interaction *discordgo.Interaction, content string) error {
	return session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// interactionUser resolves the invoking user for both guild and DM
// interactions.
func interactionUser(ic *discordgo.InteractionCreate) shared.User {
	if ic.Member != nil && ic.Member.User != nil {
		return shared.User{UserID: ic.Member.User.ID, Username: ic.Member.User.Username}
	}
	if ic.User != nil {
		return shared.User{UserID: ic.User.ID, Username: ic.User.Username}
	}
	return shared.User{}
}
