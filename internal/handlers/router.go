package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Events *ContentEventHandler
	Ledger *LedgerHandler
	Admin  *AdminHandler
	Health func() error
}

// NewRouter registers the HTTP surface under /api plus /health and /swagger/.
func NewRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if h.Health != nil {
			if err := h.Health(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// API routes use full paths on the root router. A subrouter's prefix
	// matcher clears the method mismatch and turns a 405 into a 404.
	if h.Events != nil {
		router.HandleFunc("/api/events/content", h.Events.HandleContentCreated).Methods(http.MethodPost)
		router.HandleFunc("/api/events/content/deleted", h.Events.HandleContentDeleted).Methods(http.MethodPost)
	}

	if h.Ledger != nil {
		router.HandleFunc("/api/votes", h.Ledger.HandleVote).Methods(http.MethodPost)
		router.HandleFunc("/api/challenges/participations/{id}/approve", h.Ledger.HandleApproveParticipation).Methods(http.MethodPost)
		router.HandleFunc("/api/redemptions", h.Ledger.HandleRedeem).Methods(http.MethodPost)
		router.HandleFunc("/api/users/{id}/balance", h.Ledger.HandleBalance).Methods(http.MethodGet)
		router.HandleFunc("/api/leaderboard", h.Ledger.HandleLeaderboard).Methods(http.MethodGet)
	}

	if h.Admin != nil {
		router.HandleFunc("/api/admin/actions", h.Admin.HandleListActions).Methods(http.MethodGet)
		router.HandleFunc("/api/admin/actions/{id}", h.Admin.HandleGetAction).Methods(http.MethodGet)
		router.HandleFunc("/api/admin/actions/{id}/cancel", h.Admin.HandleCancelAction).Methods(http.MethodPost)
		router.HandleFunc("/api/admin/actions/{id}/reenqueue", h.Admin.HandleReenqueueAction).Methods(http.MethodPost)
		router.HandleFunc("/api/admin/drain", h.Admin.HandleDrain).Methods(http.MethodPost)
		router.HandleFunc("/api/admin/snapshot", h.Admin.HandleSnapshot).Methods(http.MethodPost)
		router.HandleFunc("/api/admin/users/{id}/balance/reset", h.Admin.HandleResetBalance).Methods(http.MethodPost)
	}

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	})

	return router
}

// CORS allows browser clients from any origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+signatureHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
