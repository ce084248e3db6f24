package client_configs

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

type ClientConfigRepository struct {
	repo *repository.MongoRepository[models.ClientConfig]
}

func NewClientConfigRepository(client *mongodb.MongoClient) *ClientConfigRepository {
	collection := client.Database.Collection(consts.ClientsCollection)
	return &ClientConfigRepository{repo: repository.NewMongoRepository[models.ClientConfig](collection)}
}

func NewClientConfigRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *ClientConfigRepository {
	return &ClientConfigRepository{repo: repository.NewMongoRepository[models.ClientConfig](collection)}
}

func (r *ClientConfigRepository) GetClientConfig(ctx context.Context, clientID string) (*models.ClientConfig, error) {
	filter := bson.M{"clientId": clientID}

	cfg, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No client config found", slog.String("client_id", clientID))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingClientConfig, err, slog.String("client_id", clientID))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched client config", slog.String("client_id", clientID))
	return &cfg, nil
}
