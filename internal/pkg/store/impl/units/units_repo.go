package units

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
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

type UnitsRepository struct {
	repo *repository.MongoRepository[models.Unit]
}

func NewUnitsRepository(client *mongodb.MongoClient) *UnitsRepository {
	collection := client.Database.Collection(consts.UnitsCollection)
	return &UnitsRepository{repo: repository.NewMongoRepository[models.Unit](collection)}
}

func NewUnitsRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *UnitsRepository {
	return &UnitsRepository{repo: repository.NewMongoRepository[models.Unit](collection)}
}

func (r *UnitsRepository) GetUnit(ctx context.Context, clientID, unitID string) (*models.Unit, error) {
	filter := bson.M{"clientId": clientID, "unitId": unitID}

	unit, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No unit found",
				slog.String("client_id", clientID), slog.String("unit_id", unitID))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingUnitDocument, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID))
		return nil, err
	}

	return &unit, nil
}

func (r *UnitsRepository) ListActiveUnits(ctx context.Context, clientID string) ([]models.Unit, error) {
	filter := bson.M{"clientId": clientID, "active": true}

	units, err := r.repo.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "unitId", Value: 1}}))
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingUnitDocument, err, slog.String("client_id", clientID))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched active units",
		slog.String("client_id", clientID), slog.Int("count", len(units)))
	return units, nil
}

// UpsertUnit creates or refreshes a unit document, used by the legacy import.
func (r *UnitsRepository) UpsertUnit(ctx context.Context, unit *models.Unit) error {
	filter := bson.M{"clientId": unit.ClientID, "unitId": unit.UnitID}
	update := bson.M{
		"$set": bson.M{
			"owner":             unit.Owner,
			"duesMonthlyAmount": unit.DuesMonthlyCents,
			"active":            unit.Active,
		},
		"$setOnInsert": bson.M{
			"createdAt": time.Now().UTC(),
		},
	}

	_, err := r.repo.UpdateOneRaw(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.CtxError(ctx, "Error upserting unit", err,
			slog.String("client_id", unit.ClientID), slog.String("unit_id", unit.UnitID))
		return err
	}
	return nil
}
