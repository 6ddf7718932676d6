package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/repositories"
)

const (
	markerChallengeParticipation = "challenge_participation:"
	markerRedemption             = "redemption:"
)

type ledgerService struct {
	repo   repositories.LedgerRepository
	logger *zap.Logger
	clock  func() time.Time
}

func NewLedgerService(repo repositories.LedgerRepository, log *zap.Logger) LedgerService {
	return &ledgerService{repo: repo, logger: logger.OrNop(log), clock: time.Now}
}

// ApplyVote sets the user's vote on a post and moves the post score by the
// difference from the previous vote. The post row lock makes the
// read-modify-write atomic against concurrent voters.
func (s *ledgerService) ApplyVote(ctx context.Context, req *models.VoteRequest) (*models.VoteResult, error) {
	if req == nil {
		return nil, &apperrors.ErrValidation{Field: "vote", Message: "is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var score int64
	err := s.repo.Transaction(ctx, func(tx repositories.LedgerRepository) error {
		post, err := tx.LockPost(ctx, req.PostID)
		if err != nil {
			return err
		}
		score = post.VoteScore

		existing, err := tx.GetVote(ctx, req.UserID, req.PostID)
		if err != nil {
			return err
		}
		old := 0
		if existing != nil {
			old = existing.Value
		}
		delta := int64(req.Value - old)
		if delta == 0 {
			return nil
		}

		if req.Value == 0 {
			err = tx.DeleteVote(ctx, req.UserID, req.PostID)
		} else {
			err = tx.UpsertVote(ctx, &models.VoteRecord{UserID: req.UserID, PostID: req.PostID, Value: req.Value})
		}
		if err != nil {
			return err
		}
		if err := tx.AddPostScore(ctx, req.PostID, delta); err != nil {
			return err
		}
		score += delta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &models.VoteResult{Success: true, NewScore: score}, nil
}

// ApplyBalanceDelta applies a signed delta. A delta with a SourceEventID that
// was already applied is a no-op reported with Applied false.
func (s *ledgerService) ApplyBalanceDelta(ctx context.Context, d *models.BalanceDelta) (*models.BalanceResult, error) {
	if d == nil {
		return nil, &apperrors.ErrValidation{Field: "delta", Message: "is required"}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	result := &models.BalanceResult{UserID: d.UserID}
	err := s.repo.Transaction(ctx, func(tx repositories.LedgerRepository) error {
		var source *string
		if d.SourceEventID != "" {
			fresh, err := tx.MarkProcessed(ctx, d.SourceEventID, d.Reason)
			if err != nil {
				return err
			}
			if !fresh {
				result.Balance, err = tx.GetBalance(ctx, d.UserID)
				return err
			}
			source = &d.SourceEventID
		}

		balance, err := applyDelta(ctx, tx, d.UserID, d.Delta, d.Reason, source)
		if err != nil {
			return err
		}
		result.Balance = balance
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logBalance("Balance delta applied", result, d.Reason)
	return result, nil
}

// applyDelta must run inside a ledger transaction. It rejects, never clamps,
// a delta that would leave the balance negative.
func applyDelta(ctx context.Context, tx repositories.LedgerRepository, userID string, delta int64, reason string, source *string) (int64, error) {
	current, err := tx.LockBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if current.Balance+delta < 0 {
		return current.Balance, &apperrors.ErrInsufficientBalance{
			UserID:    userID,
			Attempted: -delta,
			Available: current.Balance,
		}
	}

	balance, err := tx.AddBalance(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	if err := tx.InsertEntry(ctx, &models.LedgerEntry{
		UserID:        userID,
		Delta:         delta,
		BalanceAfter:  balance,
		Reason:        reason,
		SourceEventID: source,
	}); err != nil {
		return 0, err
	}
	return balance, nil
}

// ApproveChallengeParticipation approves the participation and credits the
// reward exactly once per participation id.
func (s *ledgerService) ApproveChallengeParticipation(ctx context.Context, cmd *models.ApproveChallengeParticipation) (*models.BalanceResult, error) {
	if cmd == nil {
		return nil, &apperrors.ErrValidation{Field: "command", Message: "is required"}
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	marker := markerChallengeParticipation + cmd.ParticipationID
	result := &models.BalanceResult{}
	err := s.repo.Transaction(ctx, func(tx repositories.LedgerRepository) error {
		fresh, err := tx.MarkProcessed(ctx, marker, models.ReasonChallengeReward)
		if err != nil {
			return err
		}
		p, err := tx.LockParticipation(ctx, cmd.ParticipationID)
		if err != nil {
			return err
		}
		result.UserID = p.UserID
		if !fresh {
			result.Balance, err = tx.GetBalance(ctx, p.UserID)
			return err
		}
		if p.Status != models.ParticipationPending {
			return &apperrors.ErrInvalidStateTransition{
				ID:   p.ID,
				From: string(p.Status),
				To:   string(models.ParticipationApproved),
			}
		}

		if err := tx.ApproveParticipation(ctx, p.ID, cmd.RewardCoins, s.clock()); err != nil {
			return err
		}
		balance, err := applyDelta(ctx, tx, p.UserID, cmd.RewardCoins, models.ReasonChallengeReward, &marker)
		if err != nil {
			return err
		}
		result.Balance = balance
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logBalance("Challenge participation approved", result, models.ReasonChallengeReward)
	return result, nil
}

// RedeemPrize debits the prize cost and takes one unit of stock, once per
// redemption id.
func (s *ledgerService) RedeemPrize(ctx context.Context, cmd *models.RedeemPrize) (*models.BalanceResult, error) {
	if cmd == nil {
		return nil, &apperrors.ErrValidation{Field: "command", Message: "is required"}
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	marker := markerRedemption + cmd.RedemptionID
	result := &models.BalanceResult{UserID: cmd.UserID}
	err := s.repo.Transaction(ctx, func(tx repositories.LedgerRepository) error {
		fresh, err := tx.MarkProcessed(ctx, marker, models.ReasonPrizeRedemption)
		if err != nil {
			return err
		}
		if !fresh {
			result.Balance, err = tx.GetBalance(ctx, cmd.UserID)
			return err
		}

		prize, err := tx.LockPrize(ctx, cmd.PrizeID)
		if err != nil {
			return err
		}
		if prize.Stock <= 0 {
			return &apperrors.ErrOutOfStock{PrizeID: prize.ID}
		}

		balance, err := applyDelta(ctx, tx, cmd.UserID, -prize.CostCoins, models.ReasonPrizeRedemption, &marker)
		if err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, prize.ID); err != nil {
			return err
		}
		if err := tx.CreateRedemption(ctx, &models.Redemption{
			ID:      cmd.RedemptionID,
			UserID:  cmd.UserID,
			PrizeID: prize.ID,
			Cost:    prize.CostCoins,
		}); err != nil {
			return err
		}
		result.Balance = balance
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logBalance("Prize redeemed", result, models.ReasonPrizeRedemption)
	return result, nil
}

// ResetBalance sets the balance to an absolute target, recorded as a delta.
func (s *ledgerService) ResetBalance(ctx context.Context, cmd *models.ResetBalance) (*models.BalanceResult, error) {
	if cmd == nil {
		return nil, &apperrors.ErrValidation{Field: "command", Message: "is required"}
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &models.BalanceResult{UserID: cmd.UserID}
	err := s.repo.Transaction(ctx, func(tx repositories.LedgerRepository) error {
		current, err := tx.LockBalance(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		delta := cmd.Target - current.Balance
		if delta == 0 {
			result.Balance = current.Balance
			return nil
		}
		balance, err := applyDelta(ctx, tx, cmd.UserID, delta, models.ReasonAdminReset, &cmd.OperatorRef)
		if err != nil {
			return err
		}
		result.Balance = balance
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logBalance("Balance reset", result, models.ReasonAdminReset)
	return result, nil
}

func (s *ledgerService) Balance(ctx context.Context, userID string) (*models.BalanceResult, error) {
	if userID == "" {
		return nil, &apperrors.ErrValidation{Field: "user_id", Message: "is required"}
	}
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BalanceResult{UserID: userID, Balance: balance}, nil
}

func (s *ledgerService) logBalance(msg string, r *models.BalanceResult, reason string) {
	s.logger.Info(msg,
		zap.String("user_id", r.UserID),
		zap.String("reason", reason),
		zap.Int64("balance", r.Balance),
		zap.Bool("applied", r.Applied))
}
