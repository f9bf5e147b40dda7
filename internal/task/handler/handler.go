// Package handler exposes the todo list over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"todotrack/internal/platform/metrics"
	"todotrack/internal/platform/middleware"
	"todotrack/internal/task/service"
	"todotrack/internal/transport/http/shared"
	dErrors "todotrack/pkg/domain-errors"
)

// Service defines the task operations the handler needs.
type Service interface {
	AddItem(ctx context.Context, ownerID uuid.UUID, title, description, category string) (int, error)
	UpdateItem(ctx context.Context, ownerID uuid.UUID, id int, description string) error
	RemoveItem(ctx context.Context, ownerID uuid.UUID, id int) error
	RegisterProgression(ctx context.Context, ownerID uuid.UUID, id int, date time.Time, percent float64) error
	ListItems(ctx context.Context, ownerID uuid.UUID) ([]service.ItemView, error)
	Categories() []string
}

// Handler handles todo item endpoints.
type Handler struct {
	logger    *slog.Logger
	tasks     Service
	metrics   *metrics.Metrics
	validator middleware.Validator
}

// New creates a task Handler.
func New(tasks Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.Validator) *Handler {
	return &Handler{
		logger:    logger,
		tasks:     tasks,
		metrics:   m,
		validator: validator,
	}
}

// Register mounts the task routes. Everything here requires a valid token.
func (h *Handler) Register(r chi.Router) {
	taskRouter := chi.NewRouter()
	taskRouter.Use(middleware.Recovery(h.logger))
	taskRouter.Use(middleware.RequestID)
	taskRouter.Use(middleware.Logger(h.logger))
	taskRouter.Use(middleware.Timeout(30 * time.Second))
	taskRouter.Use(middleware.ContentTypeJSON)
	taskRouter.Use(middleware.LatencyMiddleware(h.metrics))
	taskRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	taskRouter.Get("/todos", h.handleListItems)
	taskRouter.Post("/todos", h.handleAddItem)
	taskRouter.Patch("/todos/{id}", h.handleUpdateItem)
	taskRouter.Delete("/todos/{id}", h.handleRemoveItem)
	taskRouter.Post("/todos/{id}/progressions", h.handleRegisterProgression)
	taskRouter.Get("/categories", h.handleListCategories)

	r.Mount("/", taskRouter)
}

type addItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (r *addItemRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "category is required")
	}
	return nil
}

type addItemResponse struct {
	ID int `json:"id"`
}

type updateItemRequest struct {
	Description string `json:"description"`
}

type registerProgressionRequest struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"`
}

func (r *registerProgressionRequest) Validate() error {
	if r.Date.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "date is required")
	}
	return nil
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	id, err := h.tasks.AddItem(ctx, ownerID, req.Title, req.Description, req.Category)
	if err != nil {
		h.writeServiceError(w, r, "add item", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, addItemResponse{ID: id})
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.tasks.UpdateItem(ctx, ownerID, id, req.Description); err != nil {
		h.writeServiceError(w, r, "update item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.RemoveItem(ctx, ownerID, id); err != nil {
		h.writeServiceError(w, r, "remove item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRegisterProgression(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req registerProgressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.tasks.RegisterProgression(ctx, ownerID, id, req.Date, req.Percent); err != nil {
		h.writeServiceError(w, r, "register progression", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	views, err := h.tasks.ListItems(ctx, ownerID)
	if err != nil {
		h.writeServiceError(w, r, "list items", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{"categories": h.tasks.Categories()})
}

// owner pulls the authenticated user out of the context. RequireAuth has
// already run, so a missing or malformed ID is a server fault.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return uuid.UUID{}, false
	}
	return ownerID, true
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "item id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// writeServiceError logs and forwards a service error. Rejections carry
// their code; anything uncoded becomes an internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "task operation failed",
			"operation", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "operation failed"))
		return
	}
	h.logger.WarnContext(ctx, "task operation rejected",
		"operation", op,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	shared.WriteError(w, err)
}
