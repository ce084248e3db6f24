package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

type mockPaymentRecorder struct{ mock.Mock }

func (m *mockPaymentRecorder) RecordPayment(ctx context.Context, clientID string,
	req *apimodels.PaymentRequest) (*models.Transaction, error) {
	args := m.Called(ctx, clientID, req)
	if txn := args.Get(0); txn != nil {
		return txn.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *mockCache) SaveYearSummary(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int, summary interface{}) error {
	return m.Called(ctx, clientID, category, fiscalYear, summary).Error(0)
}

func (m *mockCache) GetYearSummary(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) ([]byte, error) {
	args := m.Called(ctx, clientID, category, fiscalYear)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) InvalidateYearData(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) error {
	return m.Called(ctx, clientID, category, fiscalYear).Error(0)
}

func (m *mockCache) AcquireSettlementKey(ctx context.Context, clientID, reference string) (bool, error) {
	args := m.Called(ctx, clientID, reference)
	return args.Bool(0), args.Error(1)
}

func settlementPayload(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(apimodels.SettlementMessage{
		ClientID:  "MTC",
		UnitID:    "PH-101",
		Category:  "hoa_dues",
		Amount:    45000,
		Reference: "BNK-2026-0001",
		SettledAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return data
}

func TestHandleSettlementMessageRecordsPayment(t *testing.T) {
	payments := new(mockPaymentRecorder)
	cache := new(mockCache)
	svc := NewSettlementConsumerService(payments, cache)
	ctx := context.Background()

	cache.On("AcquireSettlementKey", ctx, "MTC", "BNK-2026-0001").Return(true, nil)
	payments.On("RecordPayment", ctx, "MTC", mock.MatchedBy(func(req *apimodels.PaymentRequest) bool {
		return req.UnitID == "PH-101" &&
			req.Method == string(consts.MethodSettlement) &&
			req.Reference == "BNK-2026-0001" &&
			req.Amount == 45000 && !req.UseCredit
	})).Return(&models.Transaction{ID: primitive.NewObjectID()}, nil)

	err := svc.HandleSettlementMessage(ctx, settlementPayload(t))

	require.NoError(t, err)
	payments.AssertExpectations(t)
}

func TestHandleSettlementMessageDropsDuplicate(t *testing.T) {
	payments := new(mockPaymentRecorder)
	cache := new(mockCache)
	svc := NewSettlementConsumerService(payments, cache)
	ctx := context.Background()

	cache.On("AcquireSettlementKey", ctx, "MTC", "BNK-2026-0001").Return(false, nil)

	err := svc.HandleSettlementMessage(ctx, settlementPayload(t))

	require.NoError(t, err)
	payments.AssertNotCalled(t, "RecordPayment")
}

func TestHandleSettlementMessageReleasesKeyOnFailure(t *testing.T) {
	payments := new(mockPaymentRecorder)
	cache := new(mockCache)
	svc := NewSettlementConsumerService(payments, cache)
	ctx := context.Background()

	dedupeKey := fmt.Sprintf(consts.SettlementDedupeKeyFormat, "MTC", "BNK-2026-0001")

	cache.On("AcquireSettlementKey", ctx, "MTC", "BNK-2026-0001").Return(true, nil)
	payments.On("RecordPayment", ctx, "MTC", mock.Anything).
		Return(nil, errors.New("mongo unavailable"))
	cache.On("Delete", ctx, dedupeKey).Return(nil)

	err := svc.HandleSettlementMessage(ctx, settlementPayload(t))

	assert.Error(t, err)
	cache.AssertExpectations(t)
}

func TestHandleSettlementMessageRejectsBadPayloads(t *testing.T) {
	payments := new(mockPaymentRecorder)
	cache := new(mockCache)
	svc := NewSettlementConsumerService(payments, cache)
	ctx := context.Background()

	assert.Error(t, svc.HandleSettlementMessage(ctx, []byte("{broken")))

	missing, _ := json.Marshal(apimodels.SettlementMessage{ClientID: "MTC", Amount: 100})
	assert.Error(t, svc.HandleSettlementMessage(ctx, missing))

	negative, _ := json.Marshal(apimodels.SettlementMessage{
		ClientID: "MTC", UnitID: "PH-101", Reference: "X", Amount: -5,
	})
	assert.Error(t, svc.HandleSettlementMessage(ctx, negative))

	cache.AssertNotCalled(t, "AcquireSettlementKey")
	payments.AssertNotCalled(t, "RecordPayment")
}
