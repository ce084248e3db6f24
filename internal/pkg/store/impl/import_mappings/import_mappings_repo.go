package import_mappings

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/repository"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// ImportMappingsRepository persists the CrossRef table: legacy transaction
// sequence numbers mapped to the transaction ids created during import.
type ImportMappingsRepository struct {
	repo *repository.MongoRepository[models.ImportMapping]
}

func NewImportMappingsRepository(client *mongodb.MongoClient) *ImportMappingsRepository {
	collection := client.Database.Collection(consts.ImportMappingsCollection)
	return &ImportMappingsRepository{repo: repository.NewMongoRepository[models.ImportMapping](collection)}
}

func NewImportMappingsRepositoryWithInterface(collection interfaces.MongoRepositoryInterface) *ImportMappingsRepository {
	return &ImportMappingsRepository{repo: repository.NewMongoRepository[models.ImportMapping](collection)}
}

func (r *ImportMappingsRepository) CreateMapping(ctx context.Context, mapping *models.ImportMapping) error {
	if _, err := r.repo.Create(ctx, mapping); err != nil {
		logger.CtxError(ctx, "Error creating import mapping", err,
			slog.String("client_id", mapping.ClientID),
			slog.Int64("legacy_seq", mapping.LegacySeq),
		)
		return err
	}
	return nil
}

func (r *ImportMappingsRepository) GetByLegacySeq(
	ctx context.Context,
	clientID string,
	legacySeq int64,
) (*models.ImportMapping, error) {
	filter := bson.M{"clientId": clientID, "legacySeq": legacySeq}

	mapping, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		logger.CtxError(ctx, "Error fetching import mapping", err,
			slog.String("client_id", clientID), slog.Int64("legacy_seq", legacySeq))
		return nil, err
	}
	return &mapping, nil
}
