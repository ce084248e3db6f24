package payments

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

type MockClientConfigRepo struct{ mock.Mock }

func (m *MockClientConfigRepo) GetClientConfig(ctx context.Context, clientID string) (*models.ClientConfig, error) {
	args := m.Called(ctx, clientID)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*models.ClientConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBillsRepo struct{ mock.Mock }

func (m *MockBillsRepo) GetByID(ctx context.Context, billID primitive.ObjectID) (*models.Bill, error) {
	args := m.Called(ctx, billID)
	if bill := args.Get(0); bill != nil {
		return bill.(*models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBillsRepo) GetByPeriod(ctx context.Context, clientID, unitID string,
	category consts.BillCategory, period string) (*models.Bill, error) {
	args := m.Called(ctx, clientID, unitID, category, period)
	if bill := args.Get(0); bill != nil {
		return bill.(*models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBillsRepo) GetUnpaidBills(ctx context.Context, clientID, unitID string,
	category consts.BillCategory) ([]models.Bill, error) {
	args := m.Called(ctx, clientID, unitID, category)
	if bills := args.Get(0); bills != nil {
		return bills.([]models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBillsRepo) ListForFiscalYear(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) ([]models.Bill, error) {
	args := m.Called(ctx, clientID, category, fiscalYear)
	if bills := args.Get(0); bills != nil {
		return bills.([]models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBillsRepo) ExistsForPeriod(ctx context.Context, clientID, unitID string,
	category consts.BillCategory, period string) (bool, error) {
	args := m.Called(ctx, clientID, unitID, category, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillsRepo) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	args := m.Called(ctx, bill)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockBillsRepo) ApplyPayment(ctx context.Context, bill *models.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *MockBillsRepo) RestoreAllocation(ctx context.Context, billID primitive.ObjectID,
	basePaid, penaltyPaid int64, status consts.BillStatus) error {
	return m.Called(ctx, billID, basePaid, penaltyPaid, status).Error(0)
}

type MockTransactionsRepo struct{ mock.Mock }

func (m *MockTransactionsRepo) CreateEntry(ctx context.Context, txn *models.Transaction) (primitive.ObjectID, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTransactionsRepo) GetByID(ctx context.Context, txnID primitive.ObjectID) (*models.Transaction, error) {
	args := m.Called(ctx, txnID)
	if txn := args.Get(0); txn != nil {
		return txn.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionsRepo) ListForFiscalYear(ctx context.Context, clientID string, fiscalYear int) ([]models.Transaction, error) {
	args := m.Called(ctx, clientID, fiscalYear)
	if txns := args.Get(0); txns != nil {
		return txns.([]models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionsRepo) MarkReversed(ctx context.Context, txnID primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, txnID, at).Error(0)
}

type MockCreditRepo struct{ mock.Mock }

func (m *MockCreditRepo) GetBalance(ctx context.Context, clientID, unitID string) (*models.CreditBalance, error) {
	args := m.Called(ctx, clientID, unitID)
	if balance := args.Get(0); balance != nil {
		return balance.(*models.CreditBalance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepo) ApplyChange(ctx context.Context, clientID, unitID string,
	delta int64, entries []models.CreditEntry) error {
	return m.Called(ctx, clientID, unitID, delta, entries).Error(0)
}

type MockRedisStore struct{ mock.Mock }

func (m *MockRedisStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockRedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRedisStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockRedisStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisStore) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockRedisStore) SaveYearSummary(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int, summary interface{}) error {
	return m.Called(ctx, clientID, category, fiscalYear, summary).Error(0)
}

func (m *MockRedisStore) GetYearSummary(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) ([]byte, error) {
	args := m.Called(ctx, clientID, category, fiscalYear)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRedisStore) InvalidateYearData(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) error {
	return m.Called(ctx, clientID, category, fiscalYear).Error(0)
}

func (m *MockRedisStore) AcquireSettlementKey(ctx context.Context, clientID, reference string) (bool, error) {
	args := m.Called(ctx, clientID, reference)
	return args.Bool(0), args.Error(1)
}

type MockPubSubPublisher struct{ mock.Mock }

func (m *MockPubSubPublisher) PublishMessage(ctx context.Context, message any) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type MockKafkaPublisher struct{ mock.Mock }

func (m *MockKafkaPublisher) Publish(ctx context.Context, msg []byte) error {
	return m.Called(ctx, msg).Error(0)
}
