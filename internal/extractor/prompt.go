package extractor

import (
	"encoding/json"
	"strings"

	"github.com/dharmasatrya/jetset/internal/models"
)

// SystemInstructions seeds every oracle call.
const SystemInstructions = `You are JetSet, a friendly travel assistant that helps people search for flights.

Read the user's latest message together with the recent conversation and the current context, then answer with exactly one JSON object in a fenced code block. Use one of these shapes:

1. The user wants to search for flights:
` + "```json" + `
{"type": "flight_search", "origin": "<city>", "destination": "<city>", "date": "<date as the user said it>", "return_date": "<optional>", "adults": 1, "cabin_class": "ECONOMY"}
` + "```" + `

2. The user gave a range of dates and must pick one:
` + "```json" + `
{"type": "date_range_clarification", "origin": "<city>", "destination": "<city>", "range_start": "<date>", "range_end": "<date>", "message": "<question asking for one date>"}
` + "```" + `

3. Anything else (greetings, questions, small talk):
` + "```json" + `
{"type": "conversation", "message": "<your reply>"}
` + "```" + `

Rules:
- Keep relative dates exactly as written ("next friday", "tomorrow", "this weekend"). Do not convert them to calendar dates.
- cabin_class is one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST. Use ECONOMY when not stated.
- If the user changes only part of a previous search ("what about Singapore instead", "no, next Wednesday"), fill the remaining fields from the current context.
- Leave a field empty when the user has not given it and the context does not contain it. Never invent cities or dates.`

// BuildPrompt renders the user-side prompt: recent turns, the carried-over
// search state and the new utterance.
func BuildPrompt(utterance string, history []models.Turn, pending models.Pending) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range history {
			b.WriteString(roleLabel(t.Role))
			b.WriteString(": ")
			b.WriteString(t.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if !pending.Empty() {
		if data, err := json.MarshalIndent(pending, "", "  "); err == nil {
			b.WriteString("Current context:\n")
			b.Write(data)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("User: ")
	b.WriteString(strings.TrimSpace(utterance))
	return b.String()
}

func roleLabel(r models.Role) string {
	if r == models.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
