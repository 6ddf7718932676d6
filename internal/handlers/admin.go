package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/services"
)

// AdminHandler is the operator surface: queue inspection, manual retry and
// the cron entry points.
type AdminHandler struct {
	queue   services.QueueService
	worker  services.ActionWorker
	ranking services.RankingService
	ledger  services.LedgerService
}

func NewAdminHandler(queue services.QueueService, worker services.ActionWorker, ranking services.RankingService, ledger services.LedgerService) *AdminHandler {
	return &AdminHandler{queue: queue, worker: worker, ranking: ranking, ledger: ledger}
}

// HandleListActions handles GET /api/admin/actions
// @Summary List scheduled actions
// @Tags admin
// @Produce json
// @Param status query string false "pending, processing, sent, failed or cancelled"
// @Param target_id query string false "Target ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.ScheduledAction
// @Router /admin/actions [get]
func (h *AdminHandler) HandleListActions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.queue.List(r.Context(), &models.ActionFilter{
		Status:   models.ActionStatus(q.Get("status")),
		ActorID:  q.Get("actor_id"),
		TargetID: q.Get("target_id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGetAction handles GET /api/admin/actions/{id}
// @Summary Get a scheduled action
// @Tags admin
// @Produce json
// @Param id path string true "Action ID"
// @Success 200 {object} models.ScheduledAction
// @Failure 404 {object} ErrorResponse
// @Router /admin/actions/{id} [get]
func (h *AdminHandler) HandleGetAction(w http.ResponseWriter, r *http.Request) {
	a, err := h.queue.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleCancelAction handles POST /api/admin/actions/{id}/cancel
// @Summary Cancel a pending action
// @Tags admin
// @Produce json
// @Param id path string true "Action ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Action is not pending"
// @Router /admin/actions/{id}/cancel [post]
func (h *AdminHandler) HandleCancelAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.queue.Cancel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(models.StatusCancelled)})
}

// HandleReenqueueAction handles POST /api/admin/actions/{id}/reenqueue
// @Summary Re-enqueue a failed or cancelled action
// @Description Creates a new pending action; the original keeps its terminal state.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Action ID"
// @Param body body object false "{\"scheduled_for\": \"2024-01-01T00:00:00Z\"}"
// @Success 201 {object} models.ScheduledAction
// @Failure 409 {object} ErrorResponse
// @Router /admin/actions/{id}/reenqueue [post]
func (h *AdminHandler) HandleReenqueueAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ScheduledFor *time.Time `json:"scheduled_for"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	var at time.Time
	if body.ScheduledFor != nil {
		at = *body.ScheduledFor
	}
	a, err := h.queue.Reenqueue(r.Context(), mux.Vars(r)["id"], at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleDrain handles POST /api/admin/drain
// @Summary Drain due actions once
// @Description Entry point for an external scheduler.
// @Tags admin
// @Produce json
// @Success 200 {object} services.DrainReport
// @Router /admin/drain [post]
func (h *AdminHandler) HandleDrain(w http.ResponseWriter, r *http.Request) {
	report, err := h.worker.Drain(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleSnapshot handles POST /api/admin/snapshot
// @Summary Refresh the ranking snapshot
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int
// @Router /admin/snapshot [post]
func (h *AdminHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	n, err := h.ranking.RefreshSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rows": n})
}

// HandleResetBalance handles POST /api/admin/users/{id}/balance/reset
// @Summary Reset a user's balance to an absolute value
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body object true "{\"target\": 0, \"operator_ref\": \"ticket-123\"}"
// @Success 200 {object} models.BalanceResult
// @Failure 400 {object} ErrorResponse
// @Router /admin/users/{id}/balance/reset [post]
func (h *AdminHandler) HandleResetBalance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target      int64  `json:"target"`
		OperatorRef string `json:"operator_ref"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.ledger.ResetBalance(r.Context(), &models.ResetBalance{
		UserID:      mux.Vars(r)["id"],
		Target:      body.Target,
		OperatorRef: body.OperatorRef,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
