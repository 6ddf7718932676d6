package services

import (
	"context"
	"sync"
)

var defaultStaticReplies = []string{
	"Really enjoyed reading this, thanks for sharing!",
	"Great point. I had not looked at it that way before.",
	"This is super helpful, saving it for later.",
}

// StaticGenerator cycles through canned replies. Used for local development
// when no API key is configured.
type StaticGenerator struct {
	mu      sync.Mutex
	replies []string
	next    int
}

func NewStaticGenerator(replies ...string) *StaticGenerator {
	if len(replies) == 0 {
		replies = defaultStaticReplies
	}
	return &StaticGenerator{replies: replies}
}

func (g *StaticGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	reply := g.replies[g.next%len(g.replies)]
	g.next++
	return reply, nil
}
