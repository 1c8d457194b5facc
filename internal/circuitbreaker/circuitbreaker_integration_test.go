//go:build integration

package circuitbreaker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/repository"
	"github.com/guttosm/famroot-client/internal/testutil"
)

func TestCircuitBreakerWithMongoDB_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Cleanup(ctx))
	}()

	db, err := repository.NewMongoDB(container.URI, testutil.DatabaseName(t.Name()))
	require.NoError(t, err)

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          100 * time.Millisecond,
		Name:             "test-request-logs",
	})
	logs := repository.NewRequestLogRepositoryWithCircuitBreaker(repository.NewRequestLogRepository(db), cb)

	t.Run("passes calls through while healthy", func(t *testing.T) {
		require.NoError(t, logs.Create(ctx, &repository.RequestLogDocument{Endpoint: "/a", Method: "GET"}))
		n, err := logs.Count(ctx, model.RequestLogQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})

	t.Run("opens after the connection goes away", func(t *testing.T) {
		require.NoError(t, db.Close(ctx))

		for i := 0; i < 2; i++ {
			_, err := logs.Count(ctx, model.RequestLogQuery{})
			assert.Error(t, err)
		}
		assert.Equal(t, circuitbreaker.StateOpen, cb.State())

		_, err := logs.Query(ctx, model.RequestLogQuery{})
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})

	t.Run("writes are dropped silently while open", func(t *testing.T) {
		assert.NoError(t, logs.Create(ctx, &repository.RequestLogDocument{Endpoint: "/b", Method: "GET"}))
		assert.Positive(t, cb.GetStats().Rejected)
	})
}
