package services

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
)

// mockTextGenerator returns text/err, or calls fn when set.
type mockTextGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	fn      func(ctx context.Context, prompt string) (string, error)
	prompts []string
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.fn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.text, m.err
}

// mockResponseGenerator bypasses prompt rendering and output checks.
type mockResponseGenerator struct {
	text   string
	err    error
	calls  []*models.PromptContext
	onCall func()
}

func (m *mockResponseGenerator) Generate(ctx context.Context, pc *models.PromptContext) (string, error) {
	m.calls = append(m.calls, pc)
	if m.onCall != nil {
		m.onCall()
	}
	return m.text, m.err
}

// mockQueueService keeps actions in memory and enforces the open-action rule.
type mockQueueService struct {
	mu        sync.Mutex
	actions   []*models.ScheduledAction
	enqueueFn func(a *models.ScheduledAction) error
}

func (m *mockQueueService) Enqueue(ctx context.Context, a *models.ScheduledAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enqueueFn != nil {
		if err := m.enqueueFn(a); err != nil {
			return err
		}
	}
	for _, existing := range m.actions {
		if !existing.Status.IsTerminal() && existing.ActorID == a.ActorID &&
			existing.Kind == a.Kind && existing.TargetID == a.TargetID {
			return apperrors.ErrDuplicateAction
		}
	}
	m.actions = append(m.actions, a)
	return nil
}

func (m *mockQueueService) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledAction, error) {
	return nil, nil
}

func (m *mockQueueService) MarkSent(ctx context.Context, id string, update models.SentUpdate) error {
	return nil
}

func (m *mockQueueService) MarkFailed(ctx context.Context, id, reason string) error {
	return nil
}

func (m *mockQueueService) Cancel(ctx context.Context, id string) error { return nil }

func (m *mockQueueService) CancelForTarget(ctx context.Context, targetType models.TargetType, targetID string) (int, error) {
	return 0, nil
}

func (m *mockQueueService) Reenqueue(ctx context.Context, id string, at time.Time) (*models.ScheduledAction, error) {
	return nil, nil
}

func (m *mockQueueService) Get(ctx context.Context, id string) (*models.ScheduledAction, error) {
	return nil, &apperrors.ErrNotFound{Entity: "scheduled action", ID: id}
}

func (m *mockQueueService) List(ctx context.Context, filter *models.ActionFilter) ([]*models.ScheduledAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.ScheduledAction(nil), m.actions...), nil
}

// compile-time checks that mocks satisfy interfaces
var _ TextGenerator = (*mockTextGenerator)(nil)
var _ ResponseGenerator = (*mockResponseGenerator)(nil)
var _ QueueService = (*mockQueueService)(nil)
var _ TextGenerator = (*StaticGenerator)(nil)
var _ TextGenerator = (*GeminiGenerator)(nil)
