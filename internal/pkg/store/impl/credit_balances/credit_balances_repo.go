package credit_balances

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

type CreditBalancesRepository struct {
	repo *repository.MongoRepository[models.CreditBalance]
}

func NewCreditBalancesRepository(client *mongodb.MongoClient) *CreditBalancesRepository {
	collection := client.Database.Collection(consts.CreditBalancesCollection)
	return &CreditBalancesRepository{repo: repository.NewMongoRepository[models.CreditBalance](collection)}
}

func NewCreditBalancesRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *CreditBalancesRepository {
	return &CreditBalancesRepository{repo: repository.NewMongoRepository[models.CreditBalance](collection)}
}

// GetBalance returns the unit's credit document, or a zero balance when the
// unit never overpaid.
func (r *CreditBalancesRepository) GetBalance(ctx context.Context, clientID, unitID string) (*models.CreditBalance, error) {
	filter := bson.M{"clientId": clientID, "unitId": unitID}

	balance, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.CreditBalance{
				ClientID: clientID,
				UnitID:   unitID,
				Balance:  0,
			}, nil
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingCreditBalance, err,
			slog.String("client_id", clientID), slog.String("unit_id", unitID))
		return nil, err
	}
	return &balance, nil
}

// ApplyChange adjusts the balance by delta and appends history entries in a
// single upsert. A negative delta uses credit, a positive one adds it.
func (r *CreditBalancesRepository) ApplyChange(
	ctx context.Context,
	clientID, unitID string,
	delta int64,
	entries []models.CreditEntry,
) error {
	filter := bson.M{"clientId": clientID, "unitId": unitID}
	update := bson.M{
		"$inc": bson.M{"balance": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	if len(entries) > 0 {
		update["$push"] = bson.M{"history": bson.M{"$each": entries}}
	}

	_, err := r.repo.UpdateOneRaw(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.CtxError(ctx, "Error applying credit change", err,
			slog.String("client_id", clientID),
			slog.String("unit_id", unitID),
			slog.Int64("delta", delta),
		)
		return err
	}

	logger.CtxDebug(ctx, "Applied credit change",
		slog.String("client_id", clientID),
		slog.String("unit_id", unitID),
		slog.Int64("delta", delta),
	)
	return nil
}
