package transactions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/repository"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

type TransactionsRepository struct {
	repo *repository.MongoRepository[models.Transaction]
}

func NewTransactionsRepository(client *mongodb.MongoClient) *TransactionsRepository {
	collection := client.Database.Collection(consts.TransactionsCollection)
	return &TransactionsRepository{repo: repository.NewMongoRepository[models.Transaction](collection)}
}

func NewTransactionsRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *TransactionsRepository {
	return &TransactionsRepository{repo: repository.NewMongoRepository[models.Transaction](collection)}
}

func (r *TransactionsRepository) CreateEntry(ctx context.Context, txn *models.Transaction) (primitive.ObjectID, error) {
	result, err := r.repo.Create(ctx, txn)
	if err != nil {
		logger.CtxError(ctx, "Error creating transaction", err,
			slog.String("client_id", txn.ClientID), slog.String("unit_id", txn.UnitID))
		return primitive.NilObjectID, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type for transaction")
	}
	return id, nil
}

func (r *TransactionsRepository) GetByID(ctx context.Context, txnID primitive.ObjectID) (*models.Transaction, error) {
	txn, err := r.repo.FindOne(ctx, bson.M{"_id": txnID}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No transaction found", slog.String("txn_id", txnID.Hex()))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingTransactionDoc, err, slog.String("txn_id", txnID.Hex()))
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionsRepository) ListForFiscalYear(
	ctx context.Context,
	clientID string,
	fiscalYear int,
) ([]models.Transaction, error) {
	filter := bson.M{"clientId": clientID, "fiscalYear": fiscalYear}

	txns, err := r.repo.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingTransactionDoc, err,
			slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
		return nil, err
	}
	return txns, nil
}

// MarkReversed flips the transaction to reversed. The document stays in the
// ledger as the audit record of the original payment.
func (r *TransactionsRepository) MarkReversed(ctx context.Context, txnID primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"status":     consts.TransactionStatusReversed,
		"reversedAt": at,
	}

	if err := r.repo.UpdateOne(ctx, bson.M{"_id": txnID}, update); err != nil {
		logger.CtxError(ctx, "Error marking transaction reversed", err, slog.String("txn_id", txnID.Hex()))
		return err
	}
	return nil
}
