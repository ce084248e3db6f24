package bills

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

type BillsRepository struct {
	repo *repository.MongoRepository[models.Bill]
}

func NewBillsRepository(client *mongodb.MongoClient) *BillsRepository {
	collection := client.Database.Collection(consts.BillsCollection)
	return &BillsRepository{repo: repository.NewMongoRepository[models.Bill](collection)}
}

func NewBillsRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *BillsRepository {
	return &BillsRepository{repo: repository.NewMongoRepository[models.Bill](collection)}
}

func (r *BillsRepository) GetByID(ctx context.Context, billID primitive.ObjectID) (*models.Bill, error) {
	bill, err := r.repo.FindOne(ctx, bson.M{"_id": billID}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No bill found", slog.String("bill_id", billID.Hex()))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingBillsDocuments, err, slog.String("bill_id", billID.Hex()))
		return nil, err
	}
	return &bill, nil
}

func (r *BillsRepository) GetByPeriod(
	ctx context.Context,
	clientID, unitID string,
	category consts.BillCategory,
	period string,
) (*models.Bill, error) {
	filter := bson.M{
		"clientId": clientID,
		"unitId":   unitID,
		"category": category,
		"period":   period,
	}

	bill, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingBillsDocuments, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID), slog.String("period", period))
		return nil, err
	}
	return &bill, nil
}

// GetUnpaidBills returns open bills of a category for one unit, oldest
// period first. The cascade depends on this ordering.
func (r *BillsRepository) GetUnpaidBills(
	ctx context.Context,
	clientID, unitID string,
	category consts.BillCategory,
) ([]models.Bill, error) {
	filter := bson.M{
		"clientId": clientID,
		"unitId":   unitID,
		"category": category,
		"status":   bson.M{"$ne": consts.BillStatusPaid},
	}

	bills, err := r.repo.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "period", Value: 1}}))
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingBillsDocuments, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched unpaid bills",
		slog.String("client_id", clientID),
		slog.String("unit_id", unitID),
		slog.Int("count", len(bills)),
	)
	return bills, nil
}

func (r *BillsRepository) ListForFiscalYear(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
) ([]models.Bill, error) {
	filter := bson.M{
		"clientId":   clientID,
		"category":   category,
		"fiscalYear": fiscalYear,
	}

	bills, err := r.repo.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "unitId", Value: 1},
		{Key: "period", Value: 1},
	}))
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingBillsDocuments, err,
			slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
		return nil, err
	}
	return bills, nil
}

func (r *BillsRepository) ExistsForPeriod(
	ctx context.Context,
	clientID, unitID string,
	category consts.BillCategory,
	period string,
) (bool, error) {
	filter := bson.M{
		"clientId": clientID,
		"unitId":   unitID,
		"category": category,
		"period":   period,
	}
	count, err := r.repo.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BillsRepository) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	result, err := r.repo.Create(ctx, bill)
	if err != nil {
		logger.CtxError(ctx, "Error creating bill", err,
			slog.String("client_id", bill.ClientID),
			slog.String("unit_id", bill.UnitID),
			slog.String("period", bill.Period),
		)
		return primitive.NilObjectID, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type for bill")
	}
	return id, nil
}

// ApplyPayment persists the paid amounts, accrued penalty and status of a
// bill after the cascade ran over it.
func (r *BillsRepository) ApplyPayment(ctx context.Context, bill *models.Bill) error {
	update := bson.M{
		"basePaid":          bill.BasePaid,
		"penaltyPaid":       bill.PenaltyPaid,
		"penaltyAmount":     bill.PenaltyAmount,
		"status":            bill.Status,
		"lastPenaltyUpdate": bill.LastPenaltyUpdate,
	}

	if err := r.repo.UpdateOne(ctx, bson.M{"_id": bill.ID}, update); err != nil {
		logger.CtxError(ctx, "Error applying payment to bill", err, slog.String("bill_id", bill.ID.Hex()))
		return err
	}
	return nil
}

// RestoreAllocation backs an allocation out of a bill during reversal.
func (r *BillsRepository) RestoreAllocation(
	ctx context.Context,
	billID primitive.ObjectID,
	basePaid, penaltyPaid int64,
	status consts.BillStatus,
) error {
	update := bson.M{
		"$inc": bson.M{
			"basePaid":    -basePaid,
			"penaltyPaid": -penaltyPaid,
		},
		"$set": bson.M{
			"status":            status,
			"lastPenaltyUpdate": time.Now().UTC(),
		},
	}

	if _, err := r.repo.UpdateOneRaw(ctx, bson.M{"_id": billID}, update); err != nil {
		logger.CtxError(ctx, "Error restoring bill allocation", err, slog.String("bill_id", billID.Hex()))
		return err
	}
	return nil
}
