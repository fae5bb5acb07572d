package chat

import (
	"strings"

	"bearcare-backend/openai"
)

// Part is one element of a message body as sent by the dashboard. Only text
// parts carry semantic content; unknown part types pass through ignored.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (p Part) IsText() bool { return p.Type == "text" }

// Message is one conversation turn. Role is "user" or "assistant".
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// ToModelMessages flattens part-based messages into role-tagged content for
// the model API. Messages without any text content are dropped.
func ToModelMessages(msgs []Message) []openai.Message {
	out := make([]openai.Message, 0, len(msgs))
	for _, m := range msgs {
		var texts []string
		for _, p := range m.Parts {
			if p.IsText() {
				texts = append(texts, p.Text)
			}
		}
		if len(texts) == 0 {
			continue
		}
		out = append(out, openai.Message{Role: m.Role, Content: strings.Join(texts, "\n")})
	}
	return out
}
