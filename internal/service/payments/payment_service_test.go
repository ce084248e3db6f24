package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

type paymentFixture struct {
	cfgRepo    *MockClientConfigRepo
	billsRepo  *MockBillsRepo
	txnsRepo   *MockTransactionsRepo
	creditRepo *MockCreditRepo
	cache      *MockRedisStore
	pubsub     *MockPubSubPublisher
	kafka      *MockKafkaPublisher
	service    *PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		cfgRepo:    new(MockClientConfigRepo),
		billsRepo:  new(MockBillsRepo),
		txnsRepo:   new(MockTransactionsRepo),
		creditRepo: new(MockCreditRepo),
		cache:      new(MockRedisStore),
		pubsub:     new(MockPubSubPublisher),
		kafka:      new(MockKafkaPublisher),
	}
	f.service = NewPaymentService(&mongodb.MongoClient{},
		f.cfgRepo, f.billsRepo, f.txnsRepo, f.creditRepo,
		f.cache, f.pubsub, f.kafka)
	return f
}

func stubRunTransaction(t *testing.T) {
	t.Helper()
	oldRun := runTransaction
	runTransaction = func(ctx context.Context, mc *mongodb.MongoClient,
		cb func(ctx context.Context) (interface{}, error)) (interface{}, error) {
		return cb(ctx)
	}
	t.Cleanup(func() { runTransaction = oldRun })
}

func TestRecordPaymentAllocatesAndPersists(t *testing.T) {
	stubRunTransaction(t)
	f := newPaymentFixture()
	ctx := context.Background()

	cfg := &models.ClientConfig{ClientID: "MTC", FiscalYearStartMonth: 1, PenaltyRatePct: 0}
	bill := openBill("2026-02", 60000, 0, time.Now().AddDate(0, 1, 0))
	txnID := primitive.NewObjectID()

	f.cfgRepo.On("GetClientConfig", ctx, "MTC").Return(cfg, nil)
	f.billsRepo.On("GetUnpaidBills", ctx, "MTC", "PH-101", consts.CategoryWaterBill).
		Return([]models.Bill{bill}, nil)
	f.txnsRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.Transaction")).Return(txnID, nil)
	f.billsRepo.On("ApplyPayment", ctx, mock.AnythingOfType("*models.Bill")).Return(nil)
	f.cache.On("InvalidateYearData", ctx, "MTC", consts.CategoryWaterBill, mock.AnythingOfType("int")).Return(nil)
	f.pubsub.On("PublishMessage", ctx, mock.AnythingOfType("models.ReceiptNotification")).Return("msg-1", nil)
	f.kafka.On("Publish", ctx, mock.AnythingOfType("[]uint8")).Return(nil)

	txn, err := f.service.RecordPayment(ctx, "MTC", &apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "water_bill",
		Amount:   60000,
		Method:   "bank_transfer",
	})

	require.NoError(t, err)
	assert.Equal(t, txnID, txn.ID)
	assert.Equal(t, consts.TransactionStatusActive, txn.Status)
	require.Len(t, txn.Allocations, 1)
	assert.Equal(t, int64(60000), txn.Allocations[0].BasePaid)
	assert.Zero(t, txn.CreditUsed)
	assert.Zero(t, txn.CreditAdded)
	f.creditRepo.AssertNotCalled(t, "ApplyChange")
	f.billsRepo.AssertExpectations(t)
	f.txnsRepo.AssertExpectations(t)
}

func TestRecordPaymentOverpaymentAddsCredit(t *testing.T) {
	stubRunTransaction(t)
	f := newPaymentFixture()
	ctx := context.Background()

	cfg := &models.ClientConfig{ClientID: "AVII", FiscalYearStartMonth: 7}
	bill := openBill("2026-02", 50000, 0, time.Now().AddDate(0, 1, 0))
	txnID := primitive.NewObjectID()

	f.cfgRepo.On("GetClientConfig", ctx, "AVII").Return(cfg, nil)
	f.billsRepo.On("GetUnpaidBills", ctx, "AVII", "PH-101", consts.CategoryWaterBill).
		Return([]models.Bill{bill}, nil)
	f.txnsRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.Transaction")).Return(txnID, nil)
	f.billsRepo.On("ApplyPayment", ctx, mock.AnythingOfType("*models.Bill")).Return(nil)
	f.creditRepo.On("ApplyChange", ctx, "AVII", "PH-101", int64(30000),
		mock.AnythingOfType("[]models.CreditEntry")).Return(nil)
	f.cache.On("InvalidateYearData", ctx, "AVII", consts.CategoryWaterBill, mock.AnythingOfType("int")).Return(nil)
	f.pubsub.On("PublishMessage", ctx, mock.Anything).Return("msg-1", nil)
	f.kafka.On("Publish", ctx, mock.Anything).Return(nil)

	txn, err := f.service.RecordPayment(ctx, "AVII", &apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "water_bill",
		Amount:   80000,
		Method:   "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(30000), txn.CreditAdded)
	f.creditRepo.AssertExpectations(t)
}

func TestRecordPaymentUsesCreditWhenRequested(t *testing.T) {
	stubRunTransaction(t)
	f := newPaymentFixture()
	ctx := context.Background()

	cfg := &models.ClientConfig{ClientID: "MTC", FiscalYearStartMonth: 1}
	bill := openBill("2026-02", 80000, 0, time.Now().AddDate(0, 1, 0))
	txnID := primitive.NewObjectID()

	f.cfgRepo.On("GetClientConfig", ctx, "MTC").Return(cfg, nil)
	f.billsRepo.On("GetUnpaidBills", ctx, "MTC", "PH-101", consts.CategoryWaterBill).
		Return([]models.Bill{bill}, nil)
	f.creditRepo.On("GetBalance", ctx, "MTC", "PH-101").
		Return(&models.CreditBalance{ClientID: "MTC", UnitID: "PH-101", Balance: 40000}, nil)
	f.txnsRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.Transaction")).Return(txnID, nil)
	f.billsRepo.On("ApplyPayment", ctx, mock.AnythingOfType("*models.Bill")).Return(nil)
	f.creditRepo.On("ApplyChange", ctx, "MTC", "PH-101", int64(-30000),
		mock.AnythingOfType("[]models.CreditEntry")).Return(nil)
	f.cache.On("InvalidateYearData", ctx, "MTC", consts.CategoryWaterBill, mock.AnythingOfType("int")).Return(nil)
	f.pubsub.On("PublishMessage", ctx, mock.Anything).Return("msg-1", nil)
	f.kafka.On("Publish", ctx, mock.Anything).Return(nil)

	txn, err := f.service.RecordPayment(ctx, "MTC", &apimodels.PaymentRequest{
		UnitID:    "PH-101",
		Category:  "water_bill",
		Amount:    50000,
		Method:    "check",
		UseCredit: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(30000), txn.CreditUsed)
	assert.Zero(t, txn.CreditAdded)
	f.creditRepo.AssertExpectations(t)
}

func TestRecordPaymentTransactionFailureBubblesUp(t *testing.T) {
	oldRun := runTransaction
	runTransaction = func(ctx context.Context, mc *mongodb.MongoClient,
		cb func(ctx context.Context) (interface{}, error)) (interface{}, error) {
		return nil, errors.New("transient transaction error")
	}
	t.Cleanup(func() { runTransaction = oldRun })

	f := newPaymentFixture()
	ctx := context.Background()

	f.cfgRepo.On("GetClientConfig", ctx, "MTC").
		Return(&models.ClientConfig{ClientID: "MTC", FiscalYearStartMonth: 1}, nil)
	f.billsRepo.On("GetUnpaidBills", ctx, "MTC", "PH-101", consts.CategoryWaterBill).
		Return([]models.Bill{}, nil)

	_, err := f.service.RecordPayment(ctx, "MTC", &apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "water_bill",
		Amount:   10000,
		Method:   "cash",
	})

	assert.Error(t, err)
	f.cache.AssertNotCalled(t, "InvalidateYearData")
	f.kafka.AssertNotCalled(t, "Publish")
}

func TestRecordPaymentSideChannelFailuresDoNotFail(t *testing.T) {
	stubRunTransaction(t)
	f := newPaymentFixture()
	ctx := context.Background()

	cfg := &models.ClientConfig{ClientID: "MTC", FiscalYearStartMonth: 1}
	txnID := primitive.NewObjectID()

	f.cfgRepo.On("GetClientConfig", ctx, "MTC").Return(cfg, nil)
	f.billsRepo.On("GetUnpaidBills", ctx, "MTC", "PH-101", consts.CategoryWaterBill).
		Return([]models.Bill{}, nil)
	f.txnsRepo.On("CreateEntry", ctx, mock.AnythingOfType("*models.Transaction")).Return(txnID, nil)
	f.creditRepo.On("ApplyChange", ctx, "MTC", "PH-101", int64(25000),
		mock.AnythingOfType("[]models.CreditEntry")).Return(nil)
	f.cache.On("InvalidateYearData", ctx, "MTC", consts.CategoryWaterBill, mock.AnythingOfType("int")).
		Return(errors.New("redis down"))
	f.pubsub.On("PublishMessage", ctx, mock.Anything).Return("", errors.New("pubsub down"))
	f.kafka.On("Publish", ctx, mock.Anything).Return(errors.New("kafka down"))

	txn, err := f.service.RecordPayment(ctx, "MTC", &apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "water_bill",
		Amount:   25000,
		Method:   "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(25000), txn.CreditAdded)
}
