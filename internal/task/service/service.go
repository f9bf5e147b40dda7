// Package service is the application layer over the todo list aggregate. It
// loads an owner's list, runs exactly one aggregate operation against it, and
// stores the result. The aggregate decides; the service only shuttles state
// and translates rejections into coded errors.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"todotrack/internal/platform/audit"
	"todotrack/internal/platform/metrics"
	"todotrack/internal/platform/middleware"
	"todotrack/internal/task/store"
	"todotrack/internal/todolist"
	dErrors "todotrack/pkg/domain-errors"
)

var tracer = otel.Tracer("todotrack/task")

// Service coordinates todo list operations for all owners. Mutations for one
// owner serialize on a per-owner lock so the load-mutate-replace cycle never
// interleaves.
type Service struct {
	store      store.Store
	categories todolist.CategoryValidator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      *audit.Recorder

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(recorder *audit.Recorder) Option {
	return func(s *Service) { s.audit = recorder }
}

// New creates a task Service.
func New(st store.Store, categories todolist.CategoryValidator, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "task service requires a store")
	}
	if categories == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "task service requires a category validator")
	}
	s := &Service{
		store:      st,
		categories: categories,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ProgressionView is one dated entry plus the running total after it.
type ProgressionView struct {
	Date        time.Time `json:"date"`
	Percent     float64   `json:"percent"`
	Accumulated float64   `json:"accumulated"`
}

// ItemView is the read model for one item.
type ItemView struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	TotalProgress float64           `json:"total_progress"`
	Completed     bool              `json:"completed"`
	Progressions  []ProgressionView `json:"progressions,omitempty"`
}

// AddItem creates a new item in the owner's list and returns its id. IDs are
// assigned here, one past the highest id in the list.
func (s *Service) AddItem(ctx context.Context, ownerID uuid.UUID, title, description, category string) (int, error) {
	var assigned int
	err := s.mutate(ctx, "AddItem", ownerID, func(list *todolist.TodoList) todolist.Result {
		assigned = nextID(list)
		return list.AddItem(assigned, title, description, category)
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.ItemsAdded.Inc()
	}
	s.record(ctx, audit.ActionItemAdded, ownerID, assigned, title)
	return assigned, nil
}

// UpdateItem rewrites an item's description.
func (s *Service) UpdateItem(ctx context.Context, ownerID uuid.UUID, id int, description string) error {
	err := s.mutate(ctx, "UpdateItem", ownerID, func(list *todolist.TodoList) todolist.Result {
		return list.UpdateItem(id, description)
	})
	if err != nil {
		return err
	}
	s.record(ctx, audit.ActionItemUpdated, ownerID, id, "")
	return nil
}

// RemoveItem deletes an item from the owner's list.
func (s *Service) RemoveItem(ctx context.Context, ownerID uuid.UUID, id int) error {
	err := s.mutate(ctx, "RemoveItem", ownerID, func(list *todolist.TodoList) todolist.Result {
		return list.RemoveItem(id)
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ItemsRemoved.Inc()
	}
	s.record(ctx, audit.ActionItemRemoved, ownerID, id, "")
	return nil
}

// RegisterProgression appends a dated progress entry to an item.
func (s *Service) RegisterProgression(ctx context.Context, ownerID uuid.UUID, id int, date time.Time, percent float64) error {
	err := s.mutate(ctx, "RegisterProgression", ownerID, func(list *todolist.TodoList) todolist.Result {
		return list.RegisterProgression(id, date, percent)
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ProgressionsRegistered.Inc()
	}
	s.record(ctx, audit.ActionProgressionRegistered, ownerID, id, "")
	return nil
}

// ListItems returns the owner's items sorted by id, with running totals.
func (s *Service) ListItems(ctx context.Context, ownerID uuid.UUID) ([]ItemView, error) {
	ctx, span := tracer.Start(ctx, "task.ListItems",
		trace.WithAttributes(attribute.String("owner_id", ownerID.String())))
	defer span.End()

	snapshots, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load todo list")
	}
	list := todolist.Rehydrate(s.categories, snapshots)

	views := make([]ItemView, 0, list.Len())
	for _, item := range list.GetAllItems() {
		view := ItemView{
			ID:            item.ID(),
			Title:         item.Title(),
			Description:   item.Description(),
			Category:      item.Category(),
			TotalProgress: item.TotalProgress(),
			Completed:     item.IsCompleted(),
		}
		var accumulated float64
		for _, p := range item.Progressions() {
			accumulated += p.Percent()
			view.Progressions = append(view.Progressions, ProgressionView{
				Date:        p.Date(),
				Percent:     p.Percent(),
				Accumulated: accumulated,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// Categories returns the admissible category names.
func (s *Service) Categories() []string {
	return s.categories.ValidCategories()
}

// mutate runs one aggregate operation under the owner's lock: load, run,
// persist on success. A rule rejection leaves the stored state untouched.
func (s *Service) mutate(ctx context.Context, op string, ownerID uuid.UUID, fn func(*todolist.TodoList) todolist.Result) error {
	ctx, span := tracer.Start(ctx, "task."+op,
		trace.WithAttributes(attribute.String("owner_id", ownerID.String())))
	defer span.End()

	lock := s.lockFor(ownerID)
	lock.Lock()
	defer lock.Unlock()

	snapshots, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load todo list")
	}
	list := todolist.Rehydrate(s.categories, snapshots)

	result := fn(list)
	if result.IsFailure() {
		return s.reject(ctx, op, ownerID, result.RuleError())
	}

	if err := s.store.Replace(ctx, ownerID, list.Snapshot()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save todo list")
	}
	return nil
}

func (s *Service) lockFor(ownerID uuid.UUID) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// reject translates an aggregate rule rejection into a coded error and counts
// it. The rejection is the aggregate's answer, not a fault, so it logs at
// warn.
func (s *Service) reject(ctx context.Context, op string, ownerID uuid.UUID, ruleErr *todolist.RuleError) error {
	s.logger.WarnContext(ctx, "operation rejected by list rules",
		"operation", op,
		"owner_id", ownerID,
		"kind", string(ruleErr.Kind),
		"reason", ruleErr.Description,
	)
	if s.metrics != nil {
		s.metrics.IncRuleRejection(string(ruleErr.Kind))
	}
	if s.audit != nil {
		s.audit.Record(audit.Event{
			Category:  audit.CategoryOperations,
			Action:    audit.ActionRuleRejected,
			UserID:    ownerID.String(),
			RequestID: middleware.GetRequestID(ctx),
			ItemID:    ruleErr.ItemID,
			Detail:    ruleErr.Description,
		})
	}
	return adaptRuleError(ruleErr)
}

// adaptRuleError maps rule kinds onto transport-facing error codes.
func adaptRuleError(ruleErr *todolist.RuleError) error {
	var code dErrors.Code
	switch ruleErr.Kind {
	case todolist.KindItemNotFound:
		code = dErrors.CodeNotFound
	case todolist.KindInvalidCategory, todolist.KindInvalidProgression:
		code = dErrors.CodeValidation
	case todolist.KindCannotModify:
		code = dErrors.CodeConflict
	default:
		code = dErrors.CodeInternal
	}
	return dErrors.New(code, ruleErr.Description)
}

func (s *Service) record(ctx context.Context, action audit.Action, ownerID uuid.UUID, itemID int, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(audit.Event{
		Category:  audit.CategoryOperations,
		Action:    action,
		UserID:    ownerID.String(),
		RequestID: middleware.GetRequestID(ctx),
		ItemID:    itemID,
		Detail:    detail,
	})
}

func nextID(list *todolist.TodoList) int {
	max := 0
	for _, item := range list.GetAllItems() {
		if item.ID() > max {
			max = item.ID()
		}
	}
	return max + 1
}
