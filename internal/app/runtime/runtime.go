package runtime

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcppubsub "cloud.google.com/go/pubsub"

	"github.com/mlandesman/SAMS-sub005/internal/app/router"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/cleanup"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/config"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	redisdb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/redis"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/gcs"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/kafka"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/pubsub"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/bills"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/client_configs"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/credit_balances"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/meter_readings"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/transactions"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/units"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/repository"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/internal/service/payments"
	pubsubService "github.com/mlandesman/SAMS-sub005/internal/service/pubsub"
	"github.com/mlandesman/SAMS-sub005/internal/service/settlement"
)

var (
	connectMongoDB = mongodb.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redisdb.RedisClient, error) {
		return redisdb.ConnectToRedis(ctx, cfg, nil)
	}
	newKafkaProducer = kafka.NewKafkaProducer
	newKafkaConsumer = kafka.NewKafkaConsumer
	newGCSClient     = gcs.NewGCSClient
	newPubSubClient  = func(ctx context.Context, projectID, topicID string) (*pubsub.PubSubClient, error) {
		return pubsub.NewPubSubClient(ctx, projectID, topicID, gcppubsub.NewClient)
	}
)

// App holds the API server's resources and lifecycle.
type App struct {
	Cfg            *config.AppConfig
	MongoClient    *mongodb.MongoClient
	RedisClient    *redisdb.RedisClient
	ReceiptTopic   *pubsub.PubSubClient
	LedgerProducer *kafka.KafkaProducer
	GcsClient      interfaces.GcsInterface
	HTTPServer     *http.Server
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err)
		return nil, err
	}

	rClient, err := connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}

	receiptTopic, err := newPubSubClient(ctx, cfg.PubSub.ProjectID, cfg.PubSub.NotificationTopic)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailureInPubsubPublisherCreation, err)
		return nil, err
	}

	ledgerProducer, err := newKafkaProducer(cfg.Kafka, cfg.Kafka.LedgerTopic)
	if err != nil {
		logger.CtxError(ctx, "Failure in Kafka producer creation", err)
		return nil, err
	}

	gcsClient, err := newGCSClient(ctx, cfg.GCS.BucketName)
	if err != nil {
		logger.CtxError(ctx, "Failed to create GCS client", err)
		return nil, err
	}

	return &App{
		Cfg:            cfg,
		MongoClient:    mClient,
		RedisClient:    rClient,
		ReceiptTopic:   receiptTopic,
		LedgerProducer: ledgerProducer,
		GcsClient:      gcsClient,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	engine := router.SetupRouter(a.Cfg, a.MongoClient, a.RedisClient.Client,
		a.ReceiptTopic, a.LedgerProducer, a.GcsClient)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

func (a *App) Shutdown(ctx context.Context) {
	cleanup.CleanupResources(ctx,
		nil,
		a.ReceiptTopic,
		a.LedgerProducer,
		nil,
		a.MongoClient,
		a.RedisClient,
		a.HTTPServer,
		a.GcsClient,
	)
}

// WorkerApp holds the feed worker's resources: the Pub/Sub readings
// subscription and the Kafka settlement topic.
type WorkerApp struct {
	Cfg                *config.AppConfig
	MongoClient        *mongodb.MongoClient
	RedisClient        *redisdb.RedisClient
	PubSubConsumer     *pubsub.PubSubConsumer
	ReceiptTopic       *pubsub.PubSubClient
	LedgerProducer     *kafka.KafkaProducer
	SettlementConsumer kafka.KafkaConsumerInterface
}

func NewWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err)
		return nil, err
	}

	rClient, err := connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}

	pubsubConsumer, err := pubsub.NewPubSubConsumer(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailureInPubsubConsumerCreation, err)
		return nil, err
	}

	receiptTopic, err := newPubSubClient(ctx, cfg.PubSub.ProjectID, cfg.PubSub.NotificationTopic)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailureInPubsubPublisherCreation, err)
		return nil, err
	}

	ledgerProducer, err := newKafkaProducer(cfg.Kafka, cfg.Kafka.LedgerTopic)
	if err != nil {
		logger.CtxError(ctx, "Failure in Kafka producer creation", err)
		return nil, err
	}

	settlementConsumer, err := newKafkaConsumer(cfg.Kafka)
	if err != nil {
		logger.CtxError(ctx, "Failure in Kafka consumer creation", err)
		return nil, err
	}

	return &WorkerApp{
		Cfg:                cfg,
		MongoClient:        mClient,
		RedisClient:        rClient,
		PubSubConsumer:     pubsubConsumer,
		ReceiptTopic:       receiptTopic,
		LedgerProducer:     ledgerProducer,
		SettlementConsumer: settlementConsumer,
	}, nil
}

// Run starts the readings consumer and the settlement loop, then blocks
// until shutdown.
func (a *WorkerApp) Run(ctx context.Context) error {
	cache := repository.NewRedisStoreAdapter(a.RedisClient.Client)

	clientCfgRepo := client_configs.NewCachedClientConfigRepository(
		client_configs.NewClientConfigRepository(a.MongoClient), cache)
	unitsRepo := units.NewUnitsRepository(a.MongoClient)
	billsRepo := bills.NewBillsRepository(a.MongoClient)
	txnsRepo := transactions.NewTransactionsRepository(a.MongoClient)
	creditRepo := credit_balances.NewCreditBalancesRepository(a.MongoClient)
	readingsRepo := meter_readings.NewMeterReadingsRepository(a.MongoClient)

	waterService := billing.NewWaterBillService(clientCfgRepo, unitsRepo, billsRepo, readingsRepo, cache)
	readingsConsumer := pubsubService.NewReadingsMessageConsumer(waterService)
	go a.PubSubConsumer.StartConsumer(a.Cfg.PubSub.ReadingsSubscription, readingsConsumer.HandleReadingsMessage)

	paymentService := payments.NewPaymentService(a.MongoClient, clientCfgRepo, billsRepo, txnsRepo,
		creditRepo, cache, a.ReceiptTopic, a.LedgerProducer)
	settlementService := settlement.NewSettlementConsumerService(paymentService, cache)

	if err := a.SettlementConsumer.Subscribe(a.Cfg.Kafka.SettlementTopic); err != nil {
		logger.CtxError(ctx, "Failed to subscribe to settlement topic", err)
		return err
	}
	go settlementService.RunSettlementLoop(ctx, a.SettlementConsumer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

func (a *WorkerApp) Shutdown(ctx context.Context) {
	cleanup.CleanupResources(ctx,
		a.PubSubConsumer,
		a.ReceiptTopic,
		a.LedgerProducer,
		a.SettlementConsumer,
		a.MongoClient,
		a.RedisClient,
		nil,
		nil,
	)
}
