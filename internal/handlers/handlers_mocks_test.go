package handlers

import (
	"context"
	"time"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/services"
)

type mockDecisionEngine struct {
	events  []*models.ContentEvent
	actions []*models.ScheduledAction
	err     error
}

func (m *mockDecisionEngine) HandleContentEvent(_ context.Context, e *models.ContentEvent) ([]*models.ScheduledAction, error) {
	m.events = append(m.events, e)
	return m.actions, m.err
}

type mockQueueService struct {
	cancelledTarget string
	cancelledCount  int
	actions         map[string]*models.ScheduledAction
	reenqueuedAt    time.Time
}

func (m *mockQueueService) Enqueue(context.Context, *models.ScheduledAction) error { return nil }
func (m *mockQueueService) ClaimDue(context.Context, time.Time, int) ([]*models.ScheduledAction, error) {
	return nil, nil
}
func (m *mockQueueService) MarkSent(context.Context, string, models.SentUpdate) error { return nil }
func (m *mockQueueService) MarkFailed(context.Context, string, string) error { return nil }
func (m *mockQueueService) Cancel(_ context.Context, id string) error {
	a, ok := m.actions[id]
	if !ok {
		return &apperrors.ErrNotFound{Entity: "scheduled action", ID: id}
	}
	if a.Status != models.StatusPending {
		return &apperrors.ErrInvalidStateTransition{ID: id, From: string(a.Status), To: string(models.StatusCancelled)}
	}
	a.Status = models.StatusCancelled
	return nil
}
func (m *mockQueueService) CancelForTarget(_ context.Context, tt models.TargetType, id string) (int, error) {
	m.cancelledTarget = string(tt) + ":" + id
	return m.cancelledCount, nil
}
func (m *mockQueueService) Reenqueue(_ context.Context, id string, at time.Time) (*models.ScheduledAction, error) {
	a, ok := m.actions[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Entity: "scheduled action", ID: id}
	}
	m.reenqueuedAt = at
	from := a.ID
	return &models.ScheduledAction{ID: "new", Kind: a.Kind, Status: models.StatusPending, ReenqueuedFrom: &from}, nil
}
func (m *mockQueueService) Get(_ context.Context, id string) (*models.ScheduledAction, error) {
	a, ok := m.actions[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Entity: "scheduled action", ID: id}
	}
	return a, nil
}
func (m *mockQueueService) List(_ context.Context, f *models.ActionFilter) ([]*models.ScheduledAction, error) {
	var out []*models.ScheduledAction
	for _, a := range m.actions {
		if f.Status == "" || a.Status == f.Status {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockLedgerService struct {
	voteFn    func(*models.VoteRequest) (*models.VoteResult, error)
	approveFn func(*models.ApproveChallengeParticipation) (*models.BalanceResult, error)
	redeemFn  func(*models.RedeemPrize) (*models.BalanceResult, error)
	resetCmd  *models.ResetBalance
	balances  map[string]int64
}

func (m *mockLedgerService) ApplyVote(_ context.Context, req *models.VoteRequest) (*models.VoteResult, error) {
	return m.voteFn(req)
}
func (m *mockLedgerService) ApplyBalanceDelta(context.Context, *models.BalanceDelta) (*models.BalanceResult, error) {
	return nil, nil
}
func (m *mockLedgerService) ApproveChallengeParticipation(_ context.Context, cmd *models.ApproveChallengeParticipation) (*models.BalanceResult, error) {
	return m.approveFn(cmd)
}
func (m *mockLedgerService) RedeemPrize(_ context.Context, cmd *models.RedeemPrize) (*models.BalanceResult, error) {
	return m.redeemFn(cmd)
}
func (m *mockLedgerService) ResetBalance(_ context.Context, cmd *models.ResetBalance) (*models.BalanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	m.resetCmd = cmd
	return &models.BalanceResult{UserID: cmd.UserID, Balance: cmd.Target, Applied: true}, nil
}
func (m *mockLedgerService) Balance(_ context.Context, userID string) (*models.BalanceResult, error) {
	return &models.BalanceResult{UserID: userID, Balance: m.balances[userID]}, nil
}

type mockRankingService struct {
	snapshot []*models.RankingSnapshot
	limit    int
}

func (m *mockRankingService) RefreshSnapshot(context.Context) (int, error) {
	return len(m.snapshot), nil
}
func (m *mockRankingService) Leaderboard(_ context.Context, limit int) ([]*models.RankingSnapshot, error) {
	m.limit = limit
	return m.snapshot, nil
}

type mockActionWorker struct {
	report *services.DrainReport
}

func (m *mockActionWorker) Drain(context.Context) (*services.DrainReport, error) {
	return m.report, nil
}

var (
	_ services.DecisionEngine = (*mockDecisionEngine)(nil)
	_ services.QueueService   = (*mockQueueService)(nil)
	_ services.LedgerService  = (*mockLedgerService)(nil)
	_ services.RankingService = (*mockRankingService)(nil)
	_ services.ActionWorker   = (*mockActionWorker)(nil)
)
