package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
)

// Errors a TextGenerator returns to get a specific classification.
var (
	ErrRateLimited   = errors.New("text generator rate limited")
	ErrEmptyResponse = errors.New("text generator returned no text")
)

const (
	defaultGenerationTimeout = 20 * time.Second
	defaultMaxLength         = 600
)

type responseGenerator struct {
	capability TextGenerator
	timeout    time.Duration
	maxLength  int
	logger     *zap.Logger
}

// NewResponseGenerator wraps capability with a timeout, failure
// classification and output checks. It never retries.
func NewResponseGenerator(capability TextGenerator, timeout time.Duration, maxLength int, log *zap.Logger) ResponseGenerator {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	return &responseGenerator{
		capability: capability,
		timeout:    timeout,
		maxLength:  maxLength,
		logger:     logger.OrNop(log),
	}
}

type generation struct {
	text string
	err  error
}

func (g *responseGenerator) Generate(ctx context.Context, pc *models.PromptContext) (string, error) {
	prompt, err := RenderPrompt(pc)
	if err != nil {
		return "", &apperrors.GenerationError{Kind: apperrors.GenerationUnavailable, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// Buffered: the send must not block after Generate has given up waiting.
	done := make(chan generation, 1)
	started := time.Now()
	go func() {
		text, err := g.capability.Generate(ctx, prompt)
		done <- generation{text: text, err: err}
	}()

	var res generation
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		genErr := classifyGenerationError(res.err)
		g.logger.Warn("Text generation failed",
			zap.String("kind", string(genErr.Kind)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(res.err))
		return "", genErr
	}

	text, err := sanitizeGenerated(res.text, g.maxLength)
	if err != nil {
		g.logger.Warn("Generated text rejected", zap.Error(err))
		return "", &apperrors.GenerationError{Kind: apperrors.GenerationInvalidResponse, Err: err}
	}
	return text, nil
}

func classifyGenerationError(err error) *apperrors.GenerationError {
	var genErr *apperrors.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	kind := apperrors.GenerationUnavailable
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = apperrors.GenerationTimeout
	case errors.Is(err, ErrRateLimited):
		kind = apperrors.GenerationRateLimited
	case errors.Is(err, ErrEmptyResponse):
		kind = apperrors.GenerationInvalidResponse
	}
	return &apperrors.GenerationError{Kind: kind, Err: err}
}

// sanitizeGenerated strips code fences and wrapping quotes, then rejects
// empty, oversized or binary-looking output.
func sanitizeGenerated(text string, maxLength int) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if i := strings.IndexByte(text, '\n'); i >= 0 && !strings.ContainsAny(text[:i], " \t") {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	if text == "" {
		return "", ErrEmptyResponse
	}
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("generated text is not valid utf-8")
	}
	if n := utf8.RuneCountInString(text); n > maxLength {
		return "", fmt.Errorf("generated text too long: %d > %d runes", n, maxLength)
	}
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return "", fmt.Errorf("generated text contains control character %U", r)
		}
	}
	return text, nil
}
