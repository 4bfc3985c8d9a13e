//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session
 * directly. Delegates to the testable handlers so the interaction logic stays
 * exercisable without a gateway connection.
 */

package bot

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/bwmarrin/discordgo"
)

// Run opens the gateway session, registers the slash commands for the
// configured guild, and blocks until interrupted.
func (b *Bot) Run() error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	discord.Identify.Intents = discordgo.IntentsGuilds
	discord.AddHandler(b.onInteraction)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close()

	// Bulk overwrite keeps the registered command set in lockstep with the
	// definitions in this binary; stale commands from older builds disappear.
	if _, err := discord.ApplicationCommandBulkOverwrite(discord.State.User.ID, b.GuildID, commandDefinitions); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.Log.Info("NEC Pickems Bot started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	return nil
}

// onInteraction delegates to the testable handleInteraction;
// *discordgo.Session implements the DiscordSession interface.
func (b *Bot) onInteraction(discord *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.handleInteraction(discord, ic)
}
