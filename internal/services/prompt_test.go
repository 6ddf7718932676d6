package services

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/engage/internal/models"
)

func TestRenderPrompt(t *testing.T) {
	g := goldie.New(t)
	body := "Climbed the ridge trail today.\nViews were great.\n"

	comment, err := RenderPrompt(&models.PromptContext{Kind: models.ActionComment, Title: "Weekend hike", Body: body})
	require.NoError(t, err)
	g.Assert(t, "prompt_comment", []byte(comment))

	reply, err := RenderPrompt(&models.PromptContext{
		Kind:            models.ActionReply,
		Title:           " Weekend hike ",
		Body:            body,
		PreviousMessage: "Which trail was it?",
	})
	require.NoError(t, err)
	g.Assert(t, "prompt_reply", []byte(reply))
}

func TestRenderPrompt_NilContext(t *testing.T) {
	_, err := RenderPrompt(nil)
	require.Error(t, err)
}
