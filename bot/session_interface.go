/* session_interface.go
 * Defines the subset of discordgo.Session the bot needs so handlers can be
 * exercised in tests with a mock session instead of a live gateway connection.
 */

package bot

import "github.com/bwmarrin/discordgo"

type DiscordSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)
