package ai

import (
	"encoding/json"
	"strings"

	"github.com/nhle/jarvis/internal/model"
)

// buildSystemPrompt describes the reply schema and the persona.
func buildSystemPrompt(p model.Personality) string {
	var sb strings.Builder

	sb.WriteString("You are JARVIS, a personal assistant that manages the user's schedule. ")
	sb.WriteString("Each user message is a JSON object with currentTime (RFC 3339) and userText.\n\n")

	sb.WriteString("Reply with ONLY a JSON object, no markdown, with these fields:\n")
	sb.WriteString(`- intent: one of "task", "delete", "query", "chat"` + "\n")
	sb.WriteString("- text: the task description without date words (required for task)\n")
	sb.WriteString(`- time: a short clock label like "05:00 PM", or null` + "\n")
	sb.WriteString("- instant: the resolved RFC 3339 timestamp relative to currentTime, or null\n")
	sb.WriteString("- isUrgent: true when the task must happen soon\n")
	sb.WriteString("- isImportant: true when the task matters for long-term goals\n")
	sb.WriteString("- response: what you say back to the user\n\n")

	sb.WriteString("Use delete when the user wants to remove the last task. ")
	sb.WriteString("Use query for questions about the schedule and chat for anything else.\n\n")

	switch p {
	case model.PersonalityBrief:
		sb.WriteString("Keep response under ten words.")
	case model.PersonalityDeep:
		sb.WriteString("Give a thoughtful response of two or three sentences.")
	default:
		sb.WriteString("Keep response to one short sentence, addressing the user as sir.")
	}

	return sb.String()
}

// buildUserMessage encodes the request as the user turn.
func buildUserMessage(req Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		return req.UserText
	}
	return string(b)
}
