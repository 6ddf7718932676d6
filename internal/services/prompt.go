package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/tropicaldog17/engage/internal/models"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`You are a friendly, active member of an online community.
{{if eq .Kind "reply"}}Someone commented on a post. Write a short reply to their comment.{{else}}Write a short comment on the post below.{{end}}

Post title: {{.Title}}
Post body:
{{.Body}}
{{- if .PreviousMessage}}

Comment you are replying to:
{{.PreviousMessage}}
{{- end}}

Rules:
- Reply in the same language as the post.
- Two or three sentences, conversational, no greetings or sign-offs.
- Plain text only. No markdown, no hashtags, no quotes around the answer.
`))

// RenderPrompt renders the text-generation prompt for pc.
func RenderPrompt(pc *models.PromptContext) (string, error) {
	if pc == nil {
		return "", fmt.Errorf("prompt context is required")
	}
	pc = &models.PromptContext{
		Kind:            pc.Kind,
		Title:           strings.TrimSpace(pc.Title),
		Body:            strings.TrimSpace(pc.Body),
		PreviousMessage: strings.TrimSpace(pc.PreviousMessage),
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, pc); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
