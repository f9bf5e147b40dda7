package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"todotrack/internal/platform/middleware"
	"todotrack/internal/transport/http/shared"
	dErrors "todotrack/pkg/domain-errors"
)

// Handler exposes the persisted audit trail to authenticated callers.
type Handler struct {
	logger    *slog.Logger
	store     Store
	validator middleware.Validator
}

// NewHandler creates an audit Handler reading from the given store.
func NewHandler(store Store, validator middleware.Validator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		store:     store,
		validator: validator,
	}
}

// Register mounts the audit routes. The trail contains per-user security
// events, so a valid token is required.
func (h *Handler) Register(r chi.Router) {
	auditRouter := chi.NewRouter()
	auditRouter.Use(middleware.Recovery(h.logger))
	auditRouter.Use(middleware.RequestID)
	auditRouter.Use(middleware.Logger(h.logger))
	auditRouter.Use(middleware.Timeout(10 * time.Second))
	auditRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	auditRouter.Get("/events", h.handleListEvents)

	r.Mount("/audit", auditRouter)
}

type listEventsResponse struct {
	Events []Event `json:"events"`
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.store.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []Event{}
	}

	shared.WriteJSON(w, http.StatusOK, listEventsResponse{Events: events})
}
