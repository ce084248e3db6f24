package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"

	"github.com/mlandesman/SAMS-sub005/internal/app/handlers"
	"github.com/mlandesman/SAMS-sub005/internal/app/middleware"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/config"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/sftpclient"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/bills"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/client_configs"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/credit_balances"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/import_mappings"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/meter_readings"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/transactions"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/impl/units"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/repository"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	cacheservice "github.com/mlandesman/SAMS-sub005/internal/service/cache"
	"github.com/mlandesman/SAMS-sub005/internal/service/importer"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/internal/service/payments"
	"github.com/mlandesman/SAMS-sub005/internal/service/reports"
)

// SetupRouter wires the repositories, services and handlers and registers
// the HTTP routes. The messaging clients are connected by the caller so
// tests can pass stand-ins.
func SetupRouter(
	cfg *config.AppConfig,
	mongoClient *mongodb.MongoClient,
	redisClient *redis.Client,
	receiptTopic interfaces.PubSubPublisherInterface,
	ledgerPublisher interfaces.KafkaPublisherInterface,
	gcsClient interfaces.GcsInterface,
) *gin.Engine {

	r := gin.Default()
	meter := otel.Meter(consts.ServiceName)
	r.Use(otelgin.Middleware(consts.ServiceName))
	r.Use(middleware.NewMetricMiddleware(meter))
	r.Use(middleware.AttachTraceID())

	cache := repository.NewRedisStoreAdapter(redisClient)

	clientCfgRepo := client_configs.NewCachedClientConfigRepository(
		client_configs.NewClientConfigRepository(mongoClient), cache)
	unitsRepo := units.NewUnitsRepository(mongoClient)
	billsRepo := bills.NewBillsRepository(mongoClient)
	txnsRepo := transactions.NewTransactionsRepository(mongoClient)
	creditRepo := credit_balances.NewCreditBalancesRepository(mongoClient)
	readingsRepo := meter_readings.NewMeterReadingsRepository(mongoClient)
	mappingsRepo := import_mappings.NewImportMappingsRepository(mongoClient)

	waterService := billing.NewWaterBillService(clientCfgRepo, unitsRepo, billsRepo, readingsRepo, cache)
	summaryService := cacheservice.NewYearSummaryService(clientCfgRepo, billsRepo, cache)
	paymentService := payments.NewPaymentService(mongoClient, clientCfgRepo, billsRepo, txnsRepo,
		creditRepo, cache, receiptTopic, ledgerPublisher)
	sftpClient := sftpclient.NewSftpClient(cfg.SFTP)
	importService := importer.NewImportService(mongoClient, clientCfgRepo, unitsRepo, billsRepo,
		txnsRepo, creditRepo, mappingsRepo, cache, sftpClient, ledgerPublisher)
	statementService := reports.NewStatementService(clientCfgRepo, billsRepo, txnsRepo, gcsClient)

	healthHandler := handlers.NewHealthCheckHandler()
	waterHandler := handlers.NewWaterBillsHandler(waterService, summaryService)
	duesHandler := handlers.NewDuesHandler(waterService, summaryService)
	paymentsHandler := handlers.NewPaymentsHandler(paymentService)
	transactionsHandler := handlers.NewTransactionsHandler(txnsRepo, paymentService)
	creditHandler := handlers.NewCreditHandler(creditRepo)
	importHandler := handlers.NewImportHandler(importService)
	reportsHandler := handlers.NewReportsHandler(statementService)

	r.GET("/health", healthHandler.Check)

	r.POST("/water/clients/:clientId/readings", waterHandler.RecordReadings)
	r.POST("/water/clients/:clientId/bills/generate", waterHandler.GenerateBills)
	r.GET("/water/clients/:clientId/bills/:year", waterHandler.GetYearBills)

	r.POST("/hoadues/clients/:clientId/generate/:year", duesHandler.GenerateSchedule)
	r.GET("/hoadues/clients/:clientId/bills/:year", duesHandler.GetYearBills)

	r.POST("/clients/:clientId/payments", paymentsHandler.RecordPayment)
	r.GET("/clients/:clientId/transactions/:year", transactionsHandler.ListYearTransactions)
	r.DELETE("/clients/:clientId/transactions/:txnId", transactionsHandler.ReverseTransaction)
	r.GET("/credit/:clientId/:unitId", creditHandler.GetBalance)

	r.POST("/admin/import/:clientId", importHandler.RunImport)
	r.GET("/clients/:clientId/reports/statement/:year", reportsHandler.GenerateStatement)

	return r
}
