package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"todotrack/internal/category"
	"todotrack/internal/platform/metrics"
	"todotrack/internal/task/store"
	dErrors "todotrack/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	svc     *Service
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	owner   uuid.UUID
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.owner = uuid.New()

	svc, err := New(s.store, category.NewStaticValidator(category.DefaultCategories),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithMetrics(s.metrics),
	)
	require.NoError(s.T(), err)
	s.svc = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) TestAddItemAssignsSequentialIDs() {
	ctx := context.Background()

	first, err := s.svc.AddItem(ctx, s.owner, "write report", "quarterly numbers", "Work")
	require.NoError(s.T(), err)
	second, err := s.svc.AddItem(ctx, s.owner, "plan trip", "", "Personal")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1, first)
	assert.Equal(s.T(), 2, second)
	assert.Equal(s.T(), 2.0, testutil.ToFloat64(s.metrics.ItemsAdded))
}

func (s *ServiceSuite) TestAddItemRejectsUnknownCategory() {
	_, err := s.svc.AddItem(context.Background(), s.owner, "nap", "", "Leisure")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	views, listErr := s.svc.ListItems(context.Background(), s.owner)
	require.NoError(s.T(), listErr)
	assert.Empty(s.T(), views, "rejected item must not be stored")
}

func (s *ServiceSuite) TestMutationsSurviveReload() {
	ctx := context.Background()

	id, err := s.svc.AddItem(ctx, s.owner, "write report", "", "Work")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(1), 30))
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(2), 40))

	// A fresh service over the same store sees the same state.
	fresh, err := New(s.store, category.NewStaticValidator(category.DefaultCategories))
	require.NoError(s.T(), err)

	views, err := fresh.ListItems(ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), views, 1)
	assert.Equal(s.T(), 70.0, views[0].TotalProgress)
}

func (s *ServiceSuite) TestListItemsAccumulates() {
	ctx := context.Background()

	id, err := s.svc.AddItem(ctx, s.owner, "write report", "", "Work")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(1), 30))
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(2), 40))
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(3), 30))

	views, err := s.svc.ListItems(ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), views, 1)

	view := views[0]
	assert.True(s.T(), view.Completed)
	require.Len(s.T(), view.Progressions, 3)
	assert.Equal(s.T(), 30.0, view.Progressions[0].Accumulated)
	assert.Equal(s.T(), 70.0, view.Progressions[1].Accumulated)
	assert.Equal(s.T(), 100.0, view.Progressions[2].Accumulated)
}

func (s *ServiceSuite) TestUpdateBlockedPastThreshold() {
	ctx := context.Background()

	id, err := s.svc.AddItem(ctx, s.owner, "write report", "draft", "Work")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(1), 60))

	err = s.svc.UpdateItem(ctx, s.owner, id, "final")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeConflict))

	err = s.svc.RemoveItem(ctx, s.owner, id)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeConflict))

	views, err := s.svc.ListItems(ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "draft", views[0].Description)
}

func (s *ServiceSuite) TestUpdateAndRemove() {
	ctx := context.Background()

	id, err := s.svc.AddItem(ctx, s.owner, "write report", "draft", "Work")
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.UpdateItem(ctx, s.owner, id, "final"))
	views, err := s.svc.ListItems(ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "final", views[0].Description)

	require.NoError(s.T(), s.svc.RemoveItem(ctx, s.owner, id))
	views, err = s.svc.ListItems(ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), views)
}

func (s *ServiceSuite) TestUnknownItemIsNotFound() {
	err := s.svc.UpdateItem(context.Background(), s.owner, 42, "anything")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestProgressionRejectionsAreCounted() {
	ctx := context.Background()

	id, err := s.svc.AddItem(ctx, s.owner, "write report", "", "Work")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.RegisterProgression(ctx, s.owner, id, day(2), 60))

	// Out-of-range percent.
	err = s.svc.RegisterProgression(ctx, s.owner, id, day(3), 0)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	// Date not after the last one.
	err = s.svc.RegisterProgression(ctx, s.owner, id, day(2), 10)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	// Would exceed 100 in total.
	err = s.svc.RegisterProgression(ctx, s.owner, id, day(4), 50)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	count := testutil.ToFloat64(s.metrics.RuleRejections.WithLabelValues("invalid_progression"))
	assert.Equal(s.T(), 3.0, count)
}

func (s *ServiceSuite) TestOwnersDoNotShareLists() {
	ctx := context.Background()
	other := uuid.New()

	_, err := s.svc.AddItem(ctx, s.owner, "mine", "", "Work")
	require.NoError(s.T(), err)

	views, err := s.svc.ListItems(ctx, other)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), views)
}

func (s *ServiceSuite) TestCategories() {
	assert.Equal(s.T(), []string{"Education", "Personal", "Work"}, s.svc.Categories())
}
