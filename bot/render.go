/* render.go
 * Contains the embed and button rendering for the prediction flow. Every redraw
 * rebuilds the full set of controls from the session's match list so the visible
 * state always matches what is persisted.
 */

package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"nec-pickems/api/logic"
	"nec-pickems/api/store"
	"nec-pickems/api/token"
)

const (
	colorActive  = 0x5865F2
	colorExpired = 0xFF0000

	pickedMarker = " :green_square:"
)

// renderPrediction builds the embed and one button row per match. A button is
// disabled when it already reflects the user's current pick for that match, or
// when the session has expired.
func renderPrediction(week int, picks []store.MatchPick, expired bool) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	description := "Click the buttons below to set your predictions."
	color := colorActive
	if expired {
		description = "Prediction time has ended. This message is no longer active."
		color = colorExpired
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Predictions", logic.WeekLabel(week)),
		Description: description,
		Color:       color,
	}

	var rows []discordgo.MessageComponent
	for _, pick := range picks {
		teamAMarker, teamBMarker := "", ""
		if pick.PredictedWinner == pick.TeamA {
			teamAMarker = pickedMarker
		}
		if pick.PredictedWinner == pick.TeamB {
			teamBMarker = pickedMarker
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s%s VS %s%s", pick.TeamA, teamAMarker, pick.TeamB, teamBMarker),
			Value: fmt.Sprintf("Schedule: <t:%d:F>", pick.StartTime.Unix()),
		})

		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    pick.TeamA,
					Style:    discordgo.PrimaryButton,
					CustomID: token.Selection{MatchID: pick.ID, Side: token.SideA}.Encode(),
					Disabled: expired || pick.PredictedWinner == pick.TeamA,
				},
				discordgo.Button{
					Label:    pick.TeamB,
					Style:    discordgo.PrimaryButton,
					CustomID: token.Selection{MatchID: pick.ID, Side: token.SideB}.Encode(),
					Disabled: expired || pick.PredictedWinner == pick.TeamB,
				},
			},
		})
	}
	return embed, rows
}
