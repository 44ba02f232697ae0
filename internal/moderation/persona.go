package moderation

import (
	"fmt"
	"strings"

	"echoroom/internal/models"
)

// personaPrompts maps a room category to the moderator's system prompt.
var personaPrompts = map[string]string{
	"Hopeful":   "You are an empathetic moderator bringing hope and optimism to the conversation.",
	"Lonely":    "You are a kind and supportive friend helping people feel less alone.",
	"Motivated": "You are a coach who encourages and energizes people to overcome challenges.",
	"Calm":      "You help create a peaceful and relaxed environment.",
	"Loving":    "You promote warmth, compassion, and acceptance.",
	"Joyful":    "You uplift the mood with fun, positivity, and lighthearted energy.",
	"Books":     "You moderate thoughtful and curious book discussions.",
}

const (
	summonInstruction = "Someone directly requested support by mentioning \"@mod\". " +
		"Respond with one helpful coping mechanism, motivational insight, or actionable suggestion. " +
		"Be empathetic, warm, and emotionally supportive."

	reflectInstruction = "Below are recent messages in the room. " +
		"Reflect on the tone and encourage continued participation in a thoughtful and natural way."
)

// personaPrompt returns the system prompt for a room category, falling back
// to a generic moderator persona for unknown categories.
func personaPrompt(category string) string {
	if prompt, ok := personaPrompts[category]; ok {
		return prompt
	}
	return fmt.Sprintf("You are a kind and attentive AI moderator in the %q room.", category)
}

// buildUserPrompt assembles the full instruction the model receives: the
// persona, the task, and the recent chat transcript. Moderator turns are
// excluded so the model reacts to participants, not to itself.
func buildUserPrompt(promptBase string, history []*models.Message, limit int, summoned bool) string {
	instruction := reflectInstruction
	if summoned {
		instruction = summonInstruction
	}

	lines := make([]string, 0, limit)
	for _, msg := range history {
		if msg.IsModerator() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Text))
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	var b strings.Builder
	b.WriteString(promptBase)
	b.WriteString("\n\n")
	b.WriteString(instruction)
	b.WriteString("\n\nChat History:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nModerator:")
	return b.String()
}
