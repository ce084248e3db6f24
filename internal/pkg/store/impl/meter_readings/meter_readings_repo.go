package meter_readings

import (
	"context"
	"errors"
	"log/slog"

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

type MeterReadingsRepository struct {
	repo *repository.MongoRepository[models.MeterReading]
}

func NewMeterReadingsRepository(client *mongodb.MongoClient) *MeterReadingsRepository {
	collection := client.Database.Collection(consts.MeterReadingsCollection)
	return &MeterReadingsRepository{repo: repository.NewMongoRepository[models.MeterReading](collection)}
}

func NewMeterReadingsRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *MeterReadingsRepository {
	return &MeterReadingsRepository{repo: repository.NewMongoRepository[models.MeterReading](collection)}
}

// UpsertReading stores the reading for one unit/period. Re-sent batches
// overwrite rather than duplicate.
func (r *MeterReadingsRepository) UpsertReading(ctx context.Context, reading *models.MeterReading) error {
	filter := bson.M{
		"clientId": reading.ClientID,
		"unitId":   reading.UnitID,
		"period":   reading.Period,
	}
	update := bson.M{
		"$set": bson.M{
			"reading": reading.Reading,
			"readAt":  reading.ReadAt,
			"source":  reading.Source,
		},
	}

	_, err := r.repo.UpdateOneRaw(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.CtxError(ctx, "Error upserting meter reading", err,
			slog.String("client_id", reading.ClientID),
			slog.String("unit_id", reading.UnitID),
			slog.String("period", reading.Period),
		)
		return err
	}
	return nil
}

func (r *MeterReadingsRepository) GetUnitReading(
	ctx context.Context,
	clientID, unitID, period string,
) (*models.MeterReading, error) {
	filter := bson.M{"clientId": clientID, "unitId": unitID, "period": period}

	reading, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingMeterReading, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID))
		return nil, err
	}
	return &reading, nil
}

// LatestBefore returns the most recent reading strictly before the period,
// the prior reading a consumption delta is computed against.
func (r *MeterReadingsRepository) LatestBefore(
	ctx context.Context,
	clientID, unitID, period string,
) (*models.MeterReading, error) {
	filter := bson.M{
		"clientId": clientID,
		"unitId":   unitID,
		"period":   bson.M{"$lt": period},
	}

	reading, err := r.repo.FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: "period", Value: -1}}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingMeterReading, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID))
		return nil, err
	}
	return &reading, nil
}
