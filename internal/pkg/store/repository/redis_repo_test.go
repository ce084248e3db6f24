package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

func TestNewRedisStoreAdapter(t *testing.T) {
	db, mock := redismock.NewClientMock()

	adapter := NewRedisStoreAdapter(db)

	assert.NotNil(t, adapter)
	assert.Equal(t, db, adapter.client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapterSet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("test-key", "test-value", 5*time.Minute).SetVal("OK")

		err := adapter.Set(context.Background(), "test-key", "test-value", 5*time.Minute)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("test-key", "test-value", 5*time.Minute).SetErr(redis.Nil)

		err := adapter.Set(context.Background(), "test-key", "test-value", 5*time.Minute)

		assert.Error(t, err)
	})
}

func TestYearSummaryRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	adapter := NewRedisStoreAdapter(db)
	ctx := context.Background()

	summary := map[string]interface{}{"clientId": "MTC", "fiscalYear": 2026}
	err := adapter.SaveYearSummary(ctx, "MTC", consts.CategoryWaterBill, 2026, summary)
	require.NoError(t, err)

	data, err := adapter.GetYearSummary(ctx, "MTC", consts.CategoryWaterBill, 2026)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "MTC", decoded["clientId"])

	key := fmt.Sprintf(consts.YearDataKeyFormat, "MTC", consts.CategoryWaterBill, 2026)
	assert.True(t, srv.Exists(key))
	ttl := srv.TTL(key)
	assert.Equal(t, consts.YearDataTTL, ttl)
}

func TestInvalidateYearDataRemovesWholeKey(t *testing.T) {
	srv := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	adapter := NewRedisStoreAdapter(db)
	ctx := context.Background()

	require.NoError(t, adapter.SaveYearSummary(ctx, "AVII", consts.CategoryHOADues, 2026, "cached"))
	require.NoError(t, adapter.InvalidateYearData(ctx, "AVII", consts.CategoryHOADues, 2026))

	_, err := adapter.GetYearSummary(ctx, "AVII", consts.CategoryHOADues, 2026)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestAcquireSettlementKeyClaimsOnce(t *testing.T) {
	srv := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	adapter := NewRedisStoreAdapter(db)
	ctx := context.Background()

	acquired, err := adapter.AcquireSettlementKey(ctx, "MTC", "BNK-2026-0001")
	require.NoError(t, err)
	assert.True(t, acquired)

	again, err := adapter.AcquireSettlementKey(ctx, "MTC", "BNK-2026-0001")
	require.NoError(t, err)
	assert.False(t, again)

	// Releasing the key lets a retried settlement claim it again.
	key := fmt.Sprintf(consts.SettlementDedupeKeyFormat, "MTC", "BNK-2026-0001")
	require.NoError(t, adapter.Delete(ctx, key))

	retried, err := adapter.AcquireSettlementKey(ctx, "MTC", "BNK-2026-0001")
	require.NoError(t, err)
	assert.True(t, retried)
}

func TestExistsAndExpire(t *testing.T) {
	srv := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	adapter := NewRedisStoreAdapter(db)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", "v", 0))

	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	ok, err := adapter.Expire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := adapter.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
}
