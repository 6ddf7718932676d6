package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/services"
)

// LedgerHandler exposes votes, rewards, redemptions and balances.
type LedgerHandler struct {
	ledger  services.LedgerService
	ranking services.RankingService
}

func NewLedgerHandler(ledger services.LedgerService, ranking services.RankingService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, ranking: ranking}
}

// HandleVote handles POST /api/votes
// @Summary Cast, change or remove a vote
// @Tags ledger
// @Accept json
// @Produce json
// @Param vote body models.VoteRequest true "Vote (value -1, 0 or 1)"
// @Success 200 {object} models.VoteResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /votes [post]
func (h *LedgerHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.ledger.ApplyVote(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleApproveParticipation handles POST /api/challenges/participations/{id}/approve
// @Summary Approve a challenge participation
// @Description Credits the reward once; repeating the call is a no-op.
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "Participation ID"
// @Param body body object true "{\"reward_coins\": 50}"
// @Success 200 {object} models.BalanceResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /challenges/participations/{id}/approve [post]
func (h *LedgerHandler) HandleApproveParticipation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RewardCoins int64 `json:"reward_coins"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.ledger.ApproveChallengeParticipation(r.Context(), &models.ApproveChallengeParticipation{
		ParticipationID: mux.Vars(r)["id"],
		RewardCoins:     body.RewardCoins,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRedeem handles POST /api/redemptions
// @Summary Redeem a prize
// @Tags ledger
// @Accept json
// @Produce json
// @Param redemption body models.RedeemPrize true "Redemption"
// @Success 200 {object} models.BalanceResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient balance or out of stock"
// @Router /redemptions [post]
func (h *LedgerHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req models.RedeemPrize
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.ledger.RedeemPrize(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleBalance handles GET /api/users/{id}/balance
// @Summary Get a user's live coin balance
// @Tags ledger
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.BalanceResult
// @Router /users/{id}/balance [get]
func (h *LedgerHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	res, err := h.ledger.Balance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleLeaderboard handles GET /api/leaderboard
// @Summary Read the leaderboard snapshot
// @Tags ledger
// @Produce json
// @Param limit query int false "Rows to return (default 10, max 100)"
// @Success 200 {array} models.RankingSnapshot
// @Router /leaderboard [get]
func (h *LedgerHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.ranking.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
