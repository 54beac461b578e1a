package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/ikkim/clientbook-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Lifecycle(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	notifier := &recordingNotifier{}
	svc := NewFeedbackService(repository.NewFeedbackRepository(testDB), notifier)

	_, err = svc.CreateFeedback(FeedbackInput{Subject: model.Some("   ")})
	assert.ErrorIs(t, err, ErrSubjectRequired)

	created, err := svc.CreateFeedback(FeedbackInput{
		Subject:     model.Some("Export misses Crime columns"),
		Description: model.Some("Only when no record has crime plans"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackBug, created.Type)
	assert.Equal(t, model.FeedbackNew, created.Status)

	updated, err := svc.UpdateFeedback(created.ID, FeedbackInput{Status: model.Some(model.FeedbackResolved)})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackResolved, updated.Status)
	assert.Equal(t, "Export misses Crime columns", updated.Subject)

	resolved, err := svc.ListFeedback(string(model.FeedbackResolved))
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
	open, err := svc.ListFeedback(string(model.FeedbackNew))
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, svc.DeleteFeedback(created.ID))
	_, err = svc.GetFeedback(created.ID)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
	assert.Equal(t, []string{"feedback:created", "feedback:updated", "feedback:deleted"}, notifier.events)
}

type memoryCache struct {
	values  map[string]Summary
	deletes int
}

func (c *memoryCache) GetJSON(_ context.Context, name string, dst interface{}) error {
	v, ok := c.values[name]
	if !ok {
		return redis.ErrMiss
	}
	*dst.(*Summary) = v
	return nil
}

func (c *memoryCache) SetJSON(_ context.Context, name string, value interface{}, _ time.Duration) error {
	c.values[name] = value.(Summary)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, names ...string) error {
	for _, name := range names {
		delete(c.values, name)
	}
	c.deletes++
	return nil
}

func TestSummaryService_CountsAndCache(t *testing.T) {
	fx := setupTransferTest(t)
	cache := &memoryCache{values: map[string]Summary{}}
	summaries := NewSummaryService(
		repository.NewClientRepository(fx.db),
		repository.NewBenefitRepository(fx.db),
		repository.NewCommercialRepository(fx.db),
		cache,
		time.Minute,
	)

	fx.seedClient(t, "12-0000001", "Acme Corp")
	fx.seedClient(t, "12-0000002", "Beta LLC")
	_, err := fx.benefits.CreateBenefit(BenefitInput{TaxID: model.Some("12-0000001")})
	require.NoError(t, err)

	summary, err := summaries.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{
		TotalClients:             2,
		TotalBenefits:            1,
		TotalCommercial:          0,
		ClientsWithoutBenefits:   1,
		ClientsWithoutCommercial: 2,
	}, *summary)

	// Cached until a change is reported.
	fx.seedClient(t, "12-0000003", "Gamma Inc")
	cached, err := summaries.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.TotalClients)

	summaries.Notify(EntityFeedback, ActionCreated)
	assert.Zero(t, cache.deletes)

	summaries.Notify(EntityClient, ActionCreated)
	fresh, err := summaries.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.TotalClients)
}
