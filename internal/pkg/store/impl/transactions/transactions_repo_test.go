package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

type MockMongoRepo struct {
	mock.Mock
}

func (m *MockMongoRepo) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document, opts)
	if res := args.Get(0); res != nil {
		return res.(*mongo.InsertOneResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMongoRepo) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(*mongo.SingleResult)
}

func (m *MockMongoRepo) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	args := m.Called(ctx, pipeline, opts)
	return args.Get(0).(*mongo.Cursor), args.Error(1)
}

func (m *MockMongoRepo) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	if res := args.Get(0); res != nil {
		return res.(*mongo.UpdateResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMongoRepo) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockMongoRepo) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(*mongo.DeleteResult), args.Error(1)
}

func (m *MockMongoRepo) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	args := m.Called(ctx, filter, opts)
	if res := args.Get(0); res != nil {
		return res.(*mongo.Cursor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMongoRepo) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateEntryReturnsInsertedID(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	txn := &models.Transaction{
		ClientID: "MTC",
		UnitID:   "PH-101",
		Type:     consts.TransactionTypePayment,
		Status:   consts.TransactionStatusActive,
		Amount:   45000,
	}
	insertedID := primitive.NewObjectID()
	mockRepo.On("InsertOne", mock.Anything, txn, mock.Anything).
		Return(&mongo.InsertOneResult{InsertedID: insertedID}, nil)

	id, err := repo.CreateEntry(context.Background(), txn)

	require.NoError(t, err)
	assert.Equal(t, insertedID, id)
}

func TestCreateEntryUnexpectedIDType(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	txn := &models.Transaction{ClientID: "MTC"}
	mockRepo.On("InsertOne", mock.Anything, txn, mock.Anything).
		Return(&mongo.InsertOneResult{InsertedID: "not-an-object-id"}, nil)

	_, err := repo.CreateEntry(context.Background(), txn)

	assert.Error(t, err)
}

func TestGetByIDDecodesTransaction(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	txnID := primitive.NewObjectID()
	stored := models.Transaction{
		ID:       txnID,
		ClientID: "AVII",
		UnitID:   "101",
		Amount:   30000,
		Status:   consts.TransactionStatusActive,
	}
	mockRepo.On("FindOne", mock.Anything, bson.M{"_id": txnID}, mock.Anything).
		Return(mongo.NewSingleResultFromDocument(stored, nil, nil))

	txn, err := repo.GetByID(context.Background(), txnID)

	require.NoError(t, err)
	assert.Equal(t, "AVII", txn.ClientID)
	assert.Equal(t, int64(30000), txn.Amount)
}

func TestGetByIDNotFound(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	txnID := primitive.NewObjectID()
	mockRepo.On("FindOne", mock.Anything, bson.M{"_id": txnID}, mock.Anything).
		Return(mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil))

	_, err := repo.GetByID(context.Background(), txnID)

	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestMarkReversedSetsStatusAndTimestamp(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	txnID := primitive.NewObjectID()
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockRepo.On("UpdateOne", mock.Anything, bson.M{"_id": txnID},
		bson.M{"$set": bson.M{
			"status":     consts.TransactionStatusReversed,
			"reversedAt": at,
		}}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	err := repo.MarkReversed(context.Background(), txnID, at)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestListForFiscalYear(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewTransactionsRepositoryWithInterface(mockRepo)

	cursor, err := mongo.NewCursorFromDocuments([]interface{}{
		models.Transaction{ID: primitive.NewObjectID(), ClientID: "MTC", FiscalYear: 2026, Amount: 100},
		models.Transaction{ID: primitive.NewObjectID(), ClientID: "MTC", FiscalYear: 2026, Amount: 200},
	}, nil, nil)
	require.NoError(t, err)

	mockRepo.On("Find", mock.Anything, bson.M{"clientId": "MTC", "fiscalYear": 2026}, mock.Anything).
		Return(cursor, nil)

	txns, err := repo.ListForFiscalYear(context.Background(), "MTC", 2026)

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(200), txns[1].Amount)
}
