/* mock_session.go
 * In-memory DiscordSession used by the bot tests. Records every interaction
 * response and message edit so tests can assert on exactly what would have been
 * sent to Discord.
 */

package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

type RecordedResponse struct {
	InteractionID string
	Response      *discordgo.InteractionResponse
}

type RecordedEdit struct {
	InteractionID string
	Edit          *discordgo.WebhookEdit
}

type MockDiscordSession struct {
	mu        sync.Mutex
	responses []RecordedResponse
	edits     []RecordedEdit

	RespondErr error
	EditErr    error
}

func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{}
}

func (m *MockDiscordSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RespondErr != nil {
		return m.RespondErr
	}
	m.responses = append(m.responses, RecordedResponse{InteractionID: interaction.ID, Response: resp})
	return nil
}

func (m *MockDiscordSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return nil, m.EditErr
	}
	m.edits = append(m.edits, RecordedEdit{InteractionID: interaction.ID, Edit: newresp})
	return &discordgo.Message{}, nil
}

// Responses returns a copy of every recorded interaction response.
func (m *MockDiscordSession) Responses() []RecordedResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedResponse, len(m.responses))
	copy(out, m.responses)
	return out
}

// Edits returns a copy of every recorded edit of an original response.
func (m *MockDiscordSession) Edits() []RecordedEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedEdit, len(m.edits))
	copy(out, m.edits)
	return out
}

// LastResponse returns the most recent recorded response, or nil.
func (m *MockDiscordSession) LastResponse() *RecordedResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return nil
	}
	r := m.responses[len(m.responses)-1]
	return &r
}

// LastEdit returns the most recent recorded edit, or nil.
func (m *MockDiscordSession) LastEdit() *RecordedEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return nil
	}
	e := m.edits[len(m.edits)-1]
	return &e
}

var _ DiscordSession = (*MockDiscordSession)(nil)
