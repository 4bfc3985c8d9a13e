/* session.go
 * Implements the prediction session lifecycle: a time-boxed window during which
 * a user can click team buttons to record picks for a week's matches. Each user
 * has at most one active session; starting a new one replaces the old session
 * without touching its stored predictions. Expiry re-renders the message with
 * all buttons disabled.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"nec-pickems/api/api"
	"nec-pickems/api/logic"
	"nec-pickems/api/shared"
	"nec-pickems/api/store"
	"nec-pickems/api/token"
)

var (
	ErrNoMatches    = errors.New("no matches found for week")
	ErrUnknownMatch = errors.New("match is not part of the session")
)

const DefaultPredictionWindow = 45 * time.Second

// Message edits are throttled per session so rapid clicking cannot trip
// Discord's per-route rate limits. Clicks are persisted immediately either way.
const (
	editRate  = rate.Limit(2)
	editBurst = 3
)

// PredictionSession holds the state of one user's active prediction window. The
// mutex serializes button clicks so the rendered message always reflects the
// cumulative effect of every prior click.
type PredictionSession struct {
	user        shared.User
	week        int
	interaction *discordgo.Interaction
	limiter     *rate.Limiter

	mu    sync.Mutex
	picks []store.MatchPick
	timer *time.Timer
	done  bool
}

// SessionManager tracks the active session of each user and owns the
// replace-on-restart and expiry behavior.
type SessionManager struct {
	api    *api.API
	window time.Duration
	log    *logrus.Logger

	mu     sync.Mutex
	active map[string]*PredictionSession
}

func NewSessionManager(apiPtr *api.API, window time.Duration, log *logrus.Logger) *SessionManager {
	if window <= 0 {
		window = DefaultPredictionWindow
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionManager{
		api:    apiPtr,
		window: window,
		log:    log,
		active: make(map[string]*PredictionSession),
	}
}

// Active reports whether the user currently has a live prediction session.
func (m *SessionManager) Active(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[userID] != nil
}

// Start fetches the week's matches and opens a prediction session for the user,
// replying to the command interaction with the rendered prediction message. If
// the week has no matches, no session is created and the user is told so. Any
// existing session for the same user is cancelled silently: its old message
// keeps whatever state it had, its timer fires no further actions.
func (m *SessionManager) Start(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate, user shared.User, week int) error {
	// A new /predict always retires the previous session first, even when the
	// fetch below fails or the week turns out to be empty.
	m.mu.Lock()
	if old := m.active[user.UserID]; old != nil {
		old.cancel()
		delete(m.active, user.UserID)
	}
	m.mu.Unlock()

	picks, err := m.api.WeekMatches(ctx, user, week)
	if err != nil {
		return fmt.Errorf("failed to fetch matches for %s: %w", logic.WeekLabel(week), err)
	}
	if len(picks) == 0 {
		m.log.WithFields(logrus.Fields{"user_id": user.UserID, "week": week}).Info("no matches scheduled for requested week")
		if err := respondEphemeral(session, ic.Interaction, fmt.Sprintf("No matches found for %s.", logic.WeekLabel(week))); err != nil {
			return err
		}
		return ErrNoMatches
	}

	sess := &PredictionSession{
		user:        user,
		week:        week,
		interaction: ic.Interaction,
		limiter:     rate.NewLimiter(editRate, editBurst),
		picks:       picks,
	}

	m.mu.Lock()
	m.active[user.UserID] = sess
	m.mu.Unlock()

	embed, rows := renderPrediction(week, picks, false)
	err = session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: rows,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		m.remove(sess)
		return fmt.Errorf("failed to send prediction message: %w", err)
	}

	sess.mu.Lock()
	if !sess.done {
		sess.timer = time.AfterFunc(m.window, func() { m.expire(session, sess) })
	}
	sess.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"user_id": user.UserID,
		"week":    week,
		"matches": len(picks),
	}).Info("prediction session started")
	return nil
}

// HandleSelection routes a button click to the user's active session. Clicks
// arriving after expiry or for a superseded message are ignored.
func (m *SessionManager) HandleSelection(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate, user shared.User) error {
	m.mu.Lock()
	sess := m.active[user.UserID]
	m.mu.Unlock()
	if sess == nil {
		m.log.WithField("user_id", user.UserID).Debug("selection received with no active session")
		return nil
	}
	if msg := ic.Message; msg != nil && msg.Interaction != nil && msg.Interaction.ID != sess.interaction.ID {
		// Click on a message belonging to a replaced session.
		return nil
	}
	return sess.handleClick(ctx, session, ic, m)
}

func (s *PredictionSession) handleClick(ctx context.Context, session DiscordSession, ic *discordgo.InteractionCreate, m *SessionManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}

	customID := ic.MessageComponentData().CustomID
	sel, err := token.Parse(customID)
	if err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "That selection could not be read. Please try again."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("bad selection %q from user %s: %w", customID, s.user.UserID, err)
	}

	idx := -1
	for i := range s.picks {
		if s.picks[i].ID == sel.MatchID {
			idx = i
			break
		}
	}
	if idx == -1 {
		if rerr := respondEphemeral(session, ic.Interaction, "Match not found."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("selection for match %d from user %s: %w", sel.MatchID, s.user.UserID, ErrUnknownMatch)
	}

	winner := sel.Side.Choose(s.picks[idx].TeamA, s.picks[idx].TeamB)
	if err := m.api.SavePrediction(ctx, s.user, sel.MatchID, winner); err != nil {
		if rerr := respondEphemeral(session, ic.Interaction, "Your prediction could not be saved. Please try again."); rerr != nil {
			return rerr
		}
		return fmt.Errorf("failed to save prediction for user %s match %d: %w", s.user.UserID, sel.MatchID, err)
	}
	s.picks[idx].PredictedWinner = winner

	// Acknowledge the click without a visible reply; the actual feedback is the
	// redraw of the original message.
	if err := session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		m.log.WithError(err).WithField("user_id", s.user.UserID).Warn("failed to acknowledge selection")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil
	}
	embed, rows := renderPrediction(s.week, s.picks, false)
	if _, err := session.InteractionResponseEdit(s.interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &rows,
	}); err != nil {
		m.log.WithError(err).WithField("user_id", s.user.UserID).Warn("failed to redraw prediction message")
	}
	return nil
}

// expire closes the session at the end of its window and redraws the message in
// its final, fully disabled form.
func (m *SessionManager) expire(session DiscordSession, sess *PredictionSession) {
	sess.mu.Lock()
	if sess.done {
		sess.mu.Unlock()
		return
	}
	sess.done = true
	embed, rows := renderPrediction(sess.week, sess.picks, true)
	sess.mu.Unlock()

	m.remove(sess)
	if _, err := session.InteractionResponseEdit(sess.interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &rows,
	}); err != nil {
		m.log.WithError(err).WithField("user_id", sess.user.UserID).Warn("failed to render expired prediction message")
	}
	m.log.WithField("user_id", sess.user.UserID).Info("prediction session expired")
}

// remove deletes the manager's entry for sess, but only if the entry still
// points at sess. An expiring session must not evict its own replacement.
func (m *SessionManager) remove(sess *PredictionSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[sess.user.UserID] == sess {
		delete(m.active, sess.user.UserID)
	}
}

func (s *PredictionSession) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
	}
}
