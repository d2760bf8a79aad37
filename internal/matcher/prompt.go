package matcher

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

const rules = `IMPORTANT RULES:
1. Always respond in a friendly, helpful tone and use the user's name when available
2. When suggesting events, use the format: [Event Name](event:ID) for clickable links
3. Include relevant event IDs in your response for highlighting on the map
4. Keep responses concise but informative
5. Personalize recommendations based on the user's interests, budget, preferred time, and group size
6. If no events match the user's request, suggest alternatives or ask for clarification
7. Always end your response with a question or suggestion to keep the conversation engaging
8. Consider the user's location when suggesting nearby events
9. Match events to the user's interests and preferences when possible

Response format:
- Use markdown-style links: [Event Name](event:ID)
- Include event IDs in your response for map highlighting
- Keep it conversational and helpful
- Personalize based on user profile when available`

// EventLine serializes one event for the prompt.
func EventLine(e *domain.Event) string {
	schedule := e.Schedule
	if schedule == "" {
		schedule = "No date"
	}
	categories := "None"
	if len(e.Categories) > 0 {
		categories = strings.Join(e.Categories, ", ")
	}
	return fmt.Sprintf("- %s (ID: %s): %s | Date: %s | Type: %s | Categories: %s",
		e.Name, e.ID, e.Description, schedule, e.Kind, categories)
}

// BuildInstructions renders the system prompt for the delegated
// strategy: the events, the profile summary, then the fixed rules.
func BuildInstructions(events []*domain.Event, prefs *domain.UserPreferences) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant helping users find events and people in Kyiv, Ukraine. You have access to the following events and people:\n\n")
	for _, e := range events {
		b.WriteString(EventLine(e))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(domain.PromptSummary(prefs))
	b.WriteString("\n\n")
	b.WriteString(rules)
	return b.String()
}
