package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
	"github.com/tropicaldog17/engage/internal/logger"
	"github.com/tropicaldog17/engage/internal/models"
	"github.com/tropicaldog17/engage/internal/services"
)

const signatureHeader = "X-Signature"

// ContentEventHandler receives signed webhooks from the content service.
type ContentEventHandler struct {
	engine services.DecisionEngine
	queue  services.QueueService
	secret string
	logger *zap.Logger
}

func NewContentEventHandler(engine services.DecisionEngine, queue services.QueueService, secret string, log *zap.Logger) *ContentEventHandler {
	return &ContentEventHandler{engine: engine, queue: queue, secret: secret, logger: logger.OrNop(log)}
}

type contentEventResponse struct {
	Scheduled int                       `json:"scheduled"`
	Actions   []*models.ScheduledAction `json:"actions"`
}

// HandleContentCreated handles POST /api/events/content
// @Summary Content created webhook
// @Description Runs the decision engine for a new post or comment. The body must be signed with HMAC-SHA256 in X-Signature.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Signature header string true "hex HMAC-SHA256 of the body"
// @Param event body models.ContentEvent true "Content event"
// @Success 202 {object} contentEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /events/content [post]
func (h *ContentEventHandler) HandleContentCreated(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readSigned(w, r)
	if !ok {
		return
	}
	var event models.ContentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}

	actions, err := h.engine.HandleContentEvent(r.Context(), &event)
	if err != nil && len(actions) == 0 {
		writeError(w, err)
		return
	}
	if err != nil {
		// Partially scheduled: report what was accepted.
		h.logger.Error("Content event partially scheduled", zap.String("content_id", event.ContentID), zap.Error(err))
	}
	writeJSON(w, http.StatusAccepted, contentEventResponse{Scheduled: len(actions), Actions: actions})
}

// HandleContentDeleted handles POST /api/events/content/deleted
// @Summary Content deleted webhook
// @Description Cancels pending automated actions targeting deleted content.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Signature header string true "hex HMAC-SHA256 of the body"
// @Param event body models.ContentDeletedEvent true "Deleted content"
// @Success 200 {object} map[string]int
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /events/content/deleted [post]
func (h *ContentEventHandler) HandleContentDeleted(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readSigned(w, r)
	if !ok {
		return
	}
	var event models.ContentDeletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := event.Validate(); err != nil {
		writeError(w, err)
		return
	}

	n, err := h.queue.CancelForTarget(r.Context(), event.TargetType, event.TargetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cancelled": n})
}

func (h *ContentEventHandler) readSigned(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, &apperrors.ErrValidation{Field: "body", Message: "unreadable"})
		return nil, false
	}
	defer r.Body.Close()
	if !h.verify(body, r.Header.Get(signatureHeader)) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid signature"})
		return nil, false
	}
	return body, true
}

func (h *ContentEventHandler) verify(body []byte, sig string) bool {
	if h.secret == "" || sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
