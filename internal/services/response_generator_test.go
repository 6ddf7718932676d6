package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

var samplePrompt = &models.PromptContext{Kind: models.ActionComment, Title: "Weekend hike", Body: "Climbed the ridge trail."}

func requireGenerationKind(t *testing.T, err error, kind apperrors.GenerationKind) {
	t.Helper()
	var genErr *apperrors.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, kind, genErr.Kind)
}

func TestResponseGenerator_Success(t *testing.T) {
	capability := &mockTextGenerator{text: "  Looks like a great trail!  "}
	gen := NewResponseGenerator(capability, time.Second, 100, nil)

	text, err := gen.Generate(context.Background(), samplePrompt)
	require.NoError(t, err)
	assert.Equal(t, "Looks like a great trail!", text)
	require.Len(t, capability.prompts, 1)
	assert.Contains(t, capability.prompts[0], "Weekend hike")
}

func TestResponseGenerator_TimeoutWhenCapabilityIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	capability := &mockTextGenerator{fn: func(ctx context.Context, prompt string) (string, error) {
		<-release
		return "too late", nil
	}}
	gen := NewResponseGenerator(capability, 20*time.Millisecond, 100, nil)

	started := time.Now()
	_, err := gen.Generate(context.Background(), samplePrompt)
	requireGenerationKind(t, err, apperrors.GenerationTimeout)
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Equal(t, "GenerationTimeout", apperrors.GenerationReason(err))
}

func TestResponseGenerator_ClassifiesCapabilityErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperrors.GenerationKind
	}{
		{"rate limited", ErrRateLimited, apperrors.GenerationRateLimited},
		{"wrapped rate limit", errors.Join(errors.New("429"), ErrRateLimited), apperrors.GenerationRateLimited},
		{"empty", ErrEmptyResponse, apperrors.GenerationInvalidResponse},
		{"deadline", context.DeadlineExceeded, apperrors.GenerationTimeout},
		{"other", errors.New("connection refused"), apperrors.GenerationUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewResponseGenerator(&mockTextGenerator{err: tc.err}, time.Second, 100, nil)
			_, err := gen.Generate(context.Background(), samplePrompt)
			requireGenerationKind(t, err, tc.want)
		})
	}
}

func TestResponseGenerator_RejectsBadOutput(t *testing.T) {
	cases := map[string]string{
		"empty":         "   ",
		"only quotes":   `""`,
		"too long":      strings.Repeat("a", 11),
		"control chars": "hi\x00there",
	}
	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			gen := NewResponseGenerator(&mockTextGenerator{text: output}, time.Second, 10, nil)
			_, err := gen.Generate(context.Background(), samplePrompt)
			requireGenerationKind(t, err, apperrors.GenerationInvalidResponse)
		})
	}
}

func TestSanitizeGenerated(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```\nNice one\n```", "Nice one"},
		{"```text\nNice one\n```", "Nice one"},
		{"\"Nice one\"", "Nice one"},
		{"Line one\nLine two", "Line one\nLine two"},
		{"'Quoted with spaces'   ", "Quoted with spaces"},
		{"Không tệ chút nào!", "Không tệ chút nào!"},
	}
	for _, tc := range cases {
		got, err := sanitizeGenerated(tc.in, 100)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestResponseGenerator_MaxLengthCountsRunes(t *testing.T) {
	gen := NewResponseGenerator(&mockTextGenerator{text: "Không tệ"}, time.Second, 8, nil)
	text, err := gen.Generate(context.Background(), samplePrompt)
	require.NoError(t, err)
	assert.Equal(t, "Không tệ", text)
}

func TestStaticGenerator_Cycles(t *testing.T) {
	gen := NewStaticGenerator("a", "b")
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		text, err := gen.Generate(ctx, "prompt")
		require.NoError(t, err)
		got = append(got, text)
	}
	assert.Equal(t, []string{"a", "b", "a"}, got)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := gen.Generate(cancelled, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
}
