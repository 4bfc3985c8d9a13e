/* handlers.go
 * Contains the slash command handlers, the autocomplete dispatch, and the
 * remove-match confirmation flow. Every schedule and admin command is gated on
 * membership of the admin table; /predict is open to everyone.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"nec-pickems/api/api"
	"nec-pickems/api/logic"
	"nec-pickems/api/shared"
	"nec-pickems/api/store"
)

const (
	removeConfirmPrefix = "remove-confirm_"
	removeCancelID      = "remove-cancel"
	removalWindow       = time.Minute
)

func optionMap(ic *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := ic.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func optionString(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// requireAdmin replies with a refusal when the user is not an admin. It returns
// true only when the handler may proceed.
func (b *Bot) requireAdmin(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate, user shared.User) (bool, error) {
	ok, err := b.API.IsAdmin(ctx, user.UserID)
	if err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return false, rerr
		}
		return false, fmt.Errorf("admin check for user %s: %w", user.UserID, err)
	}
	if !ok {
		b.Log.WithFields(logrus.Fields{
			"user_id": user.UserID,
			"command": ic.ApplicationCommandData().Name,
		}).Warn("admin command refused")
		return false, respondEphemeral(session, ic.Interaction, "You do not have permission to use this command.")
	}
	return true, nil
}

func (b *Bot) predictHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	opts := optionMap(ic)
	week := int(opts["week"].IntValue())

	err := b.Sessions.Start(ctx, session, ic, user, week)
	if err != nil && !errors.Is(err, ErrNoMatches) {
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return rerr
		}
		return err
	}
	return nil
}

func (b *Bot) addMatchHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	opts := optionMap(ic)
	match, err := b.API.AddMatch(ctx,
		optionString(opts, "team1"),
		optionString(opts, "team2"),
		optionString(opts, "date"),
		optionString(opts, "time"),
		optionString(opts, "stage"),
		optionString(opts, "week"),
	)
	if err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, fmt.Sprintf("Could not add match: %v", err)); rerr != nil {
			return rerr
		}
		return fmt.Errorf("add-match: %w", err)
	}

	b.Log.WithFields(logrus.Fields{"match_id": match.ID, "user_id": user.UserID}).Info("match added")
	return respondEphemeral(session, ic.Interaction, fmt.Sprintf(
		"Match added for **%s**: **%s** vs **%s** on **%s** (%s).",
		logic.WeekLabel(match.Week), match.TeamA, match.TeamB,
		match.StartTime.Format("January 2, 3:04 PM"), match.Stage,
	))
}

func (b *Bot) modifyMatchHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	opts := optionMap(ic)
	matchID, err := strconv.ParseInt(optionString(opts, "match"), 10, 64)
	if err != nil {
		return respondEphemeral(session, ic.Interaction, "Match not found.")
	}

	var edit api.MatchEdit
	if opt, ok := opts["team1"]; ok {
		v := opt.StringValue()
		edit.TeamA = &v
	}
	if opt, ok := opts["team2"]; ok {
		v := opt.StringValue()
		edit.TeamB = &v
	}
	if opt, ok := opts["date"]; ok {
		v := opt.StringValue()
		edit.Date = &v
	}
	if opt, ok := opts["time"]; ok {
		v := opt.StringValue()
		edit.Clock = &v
	}
	if opt, ok := opts["stage"]; ok {
		v := opt.StringValue()
		edit.Stage = &v
	}
	if opt, ok := opts["week"]; ok {
		v := opt.StringValue()
		edit.Week = &v
	}

	match, err := b.API.ModifyMatch(ctx, matchID, edit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondEphemeral(session, ic.Interaction, "Match not found.")
		}
		if rerr := respondEphemeral(session, ic.Interaction, fmt.Sprintf("Could not modify match: %v", err)); rerr != nil {
			return rerr
		}
		return fmt.Errorf("modify-match %d: %w", matchID, err)
	}

	b.Log.WithFields(logrus.Fields{"match_id": match.ID, "user_id": user.UserID}).Info("match modified")
	return respondEphemeral(session, ic.Interaction, fmt.Sprintf(
		"Match updated: **%s** vs **%s** on **%s**, %s, %s.",
		match.TeamA, match.TeamB,
		match.StartTime.Format("January 2, 3:04 PM"), match.Stage, logic.WeekLabel(match.Week),
	))
}

func (b *Bot) removeMatchHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	opts := optionMap(ic)
	matchID, err := strconv.ParseInt(optionString(opts, "match"), 10, 64)
	if err != nil {
		return respondEphemeral(session, ic.Interaction, "Match not found.")
	}

	match, err := b.API.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondEphemeral(session, ic.Interaction, "Match not found.")
		}
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("remove-match lookup %d: %w", matchID, err)
	}
	count, err := b.API.PredictionCount(ctx, matchID)
	if err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("remove-match prediction count %d: %w", matchID, err)
	}

	err = session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(
				"Removing **%s** vs **%s** (%s) will also delete **%d** prediction(s). Are you sure?",
				match.TeamA, match.TeamB, logic.WeekLabel(match.Week), count,
			),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Label: "Remove", Style: discordgo.DangerButton, CustomID: removeConfirmPrefix + strconv.FormatInt(matchID, 10)},
						discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: removeCancelID},
					},
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("remove-match prompt: %w", err)
	}

	b.removals.open(user.UserID, matchID, ic.Interaction, func(prompt *removalPrompt) {
		if _, err := session.InteractionResponseEdit(prompt.interaction, &discordgo.WebhookEdit{
			Content:    strPtr("Time has expired. Please reissue the command to remove a match."),
			Components: &[]discordgo.MessageComponent{},
		}); err != nil {
			b.Log.WithError(err).Warn("failed to expire removal prompt")
		}
	})
	return nil
}

// removalDecisionHandler handles the confirm and cancel buttons of the
// remove-match prompt.
func (b *Bot) removalDecisionHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate, user shared.User) error {
	prompt := b.removals.take(user.UserID)
	if prompt == nil {
		return nil
	}

	customID := ic.MessageComponentData().CustomID
	if customID == removeCancelID {
		return session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    "Match removal has been canceled.",
				Components: []discordgo.MessageComponent{},
			},
		})
	}

	matchID, err := strconv.ParseInt(strings.TrimPrefix(customID, removeConfirmPrefix), 10, 64)
	if err != nil || matchID != prompt.matchID {
		return respondEphemeral(session, ic.Interaction, "Match not found.")
	}

	if err := b.API.RemoveMatch(ctx, matchID); err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "The match could not be removed. Please try again later."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("remove-match %d: %w", matchID, err)
	}

	b.Log.WithFields(logrus.Fields{"match_id": matchID, "user_id": user.UserID}).Info("match removed")
	return session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Match and its predictions have been removed.",
			Components: []discordgo.MessageComponent{},
		},
	})
}

func (b *Bot) modifyResultsHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	opts := optionMap(ic)
	matchID, err := strconv.ParseInt(optionString(opts, "match"), 10, 64)
	if err != nil {
		return respondEphemeral(session, ic.Interaction, "Match not found.")
	}
	teamAScore := int(opts["team1-score"].IntValue())
	teamBScore := int(opts["team2-score"].IntValue())

	match, result, err := b.API.SubmitResult(ctx, matchID, teamAScore, teamBScore)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondEphemeral(session, ic.Interaction, "Match not found.")
		}
		// Score validation failures carry the list of accepted scorelines.
		return respondEphemeral(session, ic.Interaction, fmt.Sprintf("Could not record results: %v", err))
	}

	b.Log.WithFields(logrus.Fields{"match_id": matchID, "user_id": user.UserID}).Info("results recorded")
	return respondEphemeral(session, ic.Interaction, fmt.Sprintf(
		"**Match:** %s vs %s\n**Final Score:** %s %d - %d %s\n**Winner:** %s",
		match.TeamA, match.TeamB,
		match.TeamA, result.TeamAScore, result.TeamBScore, match.TeamB,
		result.Winner,
	))
}

func (b *Bot) addAdminHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	target := optionMap(ic)["user"].UserValue(nil)
	if err := b.API.AddAdmin(ctx, target.ID); err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("add-admin %s: %w", target.ID, err)
	}
	b.Log.WithFields(logrus.Fields{"target": target.ID, "user_id": user.UserID}).Info("admin added")
	return respondEphemeral(session, ic.Interaction, fmt.Sprintf("<@%s> now has admin access.", target.ID))
}

func (b *Bot) removeAdminHandler(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) error {
	user := interactionUser(ic)
	if ok, err := b.requireAdmin(ctx, session, ic, user); !ok {
		return err
	}

	target := optionMap(ic)["user"].UserValue(nil)
	if err := b.API.RemoveAdmin(ctx, target.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondEphemeral(session, ic.Interaction, fmt.Sprintf("<@%s> is not an admin.", target.ID))
		}
		if rerr := respondEphemeral(session, ic.Interaction, "Something went wrong. Please try again later."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("remove-admin %s: %w", target.ID, err)
	}
	b.Log.WithFields(logrus.Fields{"target": target.ID, "user_id": user.UserID}).Info("admin removed")
	return respondEphemeral(session, ic.Interaction, fmt.Sprintf("<@%s> no longer has admin access.", target.ID))
}

// handleAutocomplete answers autocomplete probes for every command option that
// declares them. Failures degrade to an empty choice list rather than an error
// reply, which Discord renders as "no options".
func (b *Bot) handleAutocomplete(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	focused := focusedOption(data.Options)
	if focused == nil {
		return
	}
	input := ""
	if focused.Value != nil {
		input = fmt.Sprintf("%v", focused.Value)
	}

	var (
		choices []logic.Choice
		integer bool
		err     error
	)
	switch focused.Name {
	case "week":
		if data.Name == "predict" {
			choices, err = b.API.PredictWeekChoices(ctx, input)
			integer = true
		} else {
			choices = api.ScheduleWeekChoices(input)
		}
	case "team1":
		choices, err = b.API.TeamChoices(ctx, input, optionValue(data.Options, "team2"))
	case "team2":
		choices, err = b.API.TeamChoices(ctx, input, optionValue(data.Options, "team1"))
	case "date":
		choices = api.DateChoices(input, time.Now())
	case "time":
		choices = api.TimeChoices(input)
	case "stage":
		choices = api.StageChoices(input)
	case "match":
		choices, err = b.API.MatchChoices(ctx, input)
	}
	if err != nil {
		b.Log.WithError(err).WithField("option", focused.Name).Warn("autocomplete lookup failed")
		choices = nil
	}

	if err := respondChoices(session, ic, choices, integer); err != nil {
		b.Log.WithError(err).Warn("failed to send autocomplete choices")
	}
}

func focusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range opts {
		if opt.Focused {
			return opt
		}
	}
	return nil
}

func optionValue(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			if s, ok := opt.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

func respondChoices(session DiscordSession, ic *discordgo.InteractionCreate, choices []logic.Choice, integer bool) error {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		choice := &discordgo.ApplicationCommandOptionChoice{Name: c.Name}
		if integer {
			n, err := strconv.Atoi(c.Value)
			if err != nil {
				continue
			}
			choice.Value = n
		} else {
			choice.Value = c.Value
		}
		out = append(out, choice)
	}
	return session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: out},
	})
}

func strPtr(s string) *string { return &s }

// removalPrompts tracks the pending remove-match confirmation of each admin.
// Prompts expire after a minute; the decision buttons only work while the
// prompt is pending.
type removalPrompts struct {
	mu      sync.Mutex
	pending map[string]*removalPrompt
}

type removalPrompt struct {
	matchID     int64
	interaction *discordgo.Interaction
	timer       *time.Timer
}

func newRemovalPrompts() *removalPrompts {
	return &removalPrompts{pending: make(map[string]*removalPrompt)}
}

func (r *removalPrompts) open(userID string, matchID int64, interaction *discordgo.Interaction, onExpire func(*removalPrompt)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old := r.pending[userID]; old != nil {
		old.timer.Stop()
	}
	prompt := &removalPrompt{matchID: matchID, interaction: interaction}
	prompt.timer = time.AfterFunc(removalWindow, func() {
		r.mu.Lock()
		expired := r.pending[userID] == prompt
		if expired {
			delete(r.pending, userID)
		}
		r.mu.Unlock()
		if expired {
			onExpire(prompt)
		}
	})
	r.pending[userID] = prompt
}

// take removes and returns the user's pending prompt, stopping its expiry
// timer. Returns nil when nothing is pending.
func (r *removalPrompts) take(userID string) *removalPrompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	prompt := r.pending[userID]
	if prompt == nil {
		return nil
	}
	prompt.timer.Stop()
	delete(r.pending, userID)
	return prompt
}
