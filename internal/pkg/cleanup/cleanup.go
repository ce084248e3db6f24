package cleanup

import (
	"context"
	"net/http"
	"time"

	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	redisdb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/redis"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/kafka"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// CleanupResources closes every connected resource with bounded timeouts.
// Nil resources are skipped so the API and the worker can share it.
func CleanupResources(
	ctx context.Context,
	pubsubConsumer interface{ Close() error },
	pubsubPublisher interface{ Close() },
	kafkaProducer *kafka.KafkaProducer,
	kafkaConsumer kafka.KafkaConsumerInterface,
	mongoClient *mongodb.MongoClient,
	redisClient *redisdb.RedisClient,
	server *http.Server,
	gcsClient interfaces.GcsInterface,
) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupHTTPServer(server, ctx)

	if pubsubConsumer != nil {
		if err := pubsubConsumer.Close(); err != nil {
			logger.CtxError(ctx, "Failed to close PubSub consumer", err)
		} else {
			logger.CtxInfo(ctx, "PubSub consumer closed successfully")
		}
	}
	if pubsubPublisher != nil {
		pubsubPublisher.Close()
		logger.CtxInfo(ctx, "PubSub publisher closed successfully")
	}

	cleanupKafkaProducer(kafkaProducer, ctx)
	cleanupKafkaConsumer(kafkaConsumer, ctx)

	cleanupMongoResource(mongoClient, ctx)
	cleanupRedisResource(redisClient, ctx)
	cleanupGCSResource(gcsClient, ctx)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupKafkaProducer(kafkaProducer *kafka.KafkaProducer, ctx context.Context) {
	if kafkaProducer == nil {
		return
	}
	if err := kafkaProducer.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close Kafka producer", err)
	} else {
		logger.CtxInfo(ctx, "Kafka producer closed successfully")
	}
}

func cleanupKafkaConsumer(kafkaConsumer kafka.KafkaConsumerInterface, ctx context.Context) {
	if kafkaConsumer == nil {
		return
	}
	if err := kafkaConsumer.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close Kafka consumer", err)
	} else {
		logger.CtxInfo(ctx, "Kafka consumer closed successfully")
	}
}

func cleanupMongoResource(mongoClient *mongodb.MongoClient, ctx context.Context) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Client.Disconnect(mongoCtx); err != nil {
		logger.CtxError(mongoCtx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(mongoCtx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(redisClient *redisdb.RedisClient, ctx context.Context) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redisdb.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupHTTPServer(server *http.Server, ctx context.Context) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}

func cleanupGCSResource(gcsClient interfaces.GcsInterface, ctx context.Context) {
	if gcsClient == nil {
		return
	}
	gcsClient.Close(ctx)
	logger.CtxInfo(ctx, log_messages.GCSClientClosedSuccessfully)
}
