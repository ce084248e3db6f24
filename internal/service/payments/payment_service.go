package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	mongodb "github.com/mlandesman/SAMS-sub005/internal/pkg/db/mongo"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/utils"
)

// runTransaction is an injectable hook that runs a transaction. Tests can replace
var runTransaction = func(
	ctx context.Context,
	mc *mongodb.MongoClient,
	cb func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	session, err := mc.Client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB session: %w", err)
	}
	defer session.EndSession(context.Background())

	wrapper := func(sc mongo.SessionContext) (interface{}, error) {
		return cb(sc)
	}
	return session.WithTransaction(ctx, wrapper)
}

// PaymentService records payments, allocates them across open bills and
// reverses recorded transactions.
type PaymentService struct {
	mongoClient     *mongodb.MongoClient
	clientCfgRepo   interfaces.ClientConfigRepositoryInterface
	billsRepo       interfaces.BillsRepositoryInterface
	txnsRepo        interfaces.TransactionsRepositoryInterface
	creditRepo      interfaces.CreditRepositoryInterface
	cache           interfaces.RedisStoreOperations
	receiptTopic    interfaces.PubSubPublisherInterface
	ledgerPublisher interfaces.KafkaPublisherInterface
}

func NewPaymentService(
	mongoClient *mongodb.MongoClient,
	clientCfgRepo interfaces.ClientConfigRepositoryInterface,
	billsRepo interfaces.BillsRepositoryInterface,
	txnsRepo interfaces.TransactionsRepositoryInterface,
	creditRepo interfaces.CreditRepositoryInterface,
	cache interfaces.RedisStoreOperations,
	receiptTopic interfaces.PubSubPublisherInterface,
	ledgerPublisher interfaces.KafkaPublisherInterface,
) *PaymentService {
	return &PaymentService{
		mongoClient:     mongoClient,
		clientCfgRepo:   clientCfgRepo,
		billsRepo:       billsRepo,
		txnsRepo:        txnsRepo,
		creditRepo:      creditRepo,
		cache:           cache,
		receiptTopic:    receiptTopic,
		ledgerPublisher: ledgerPublisher,
	}
}

// RecordPayment runs the cascade for one payment and persists the outcome,
// bill updates, the transaction entry and the credit movement, in a single
// MongoDB transaction. Cache invalidation and the receipt/ledger publishes
// happen after commit and only warn on failure.
func (s *PaymentService) RecordPayment(
	ctx context.Context,
	clientID string,
	req *apimodels.PaymentRequest,
) (*models.Transaction, error) {
	category := consts.BillCategory(req.Category)

	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	bills, err := s.billsRepo.GetUnpaidBills(ctx, clientID, req.UnitID, category)
	if err != nil {
		return nil, err
	}

	var creditAvailable int64
	if req.UseCredit {
		balance, err := s.creditRepo.GetBalance(ctx, clientID, req.UnitID)
		if err != nil {
			return nil, err
		}
		creditAvailable = balance.Balance
	}

	now := time.Now().UTC()
	cascade := AllocateFunds(bills, cfg, req.Amount, creditAvailable, now)

	txn := &models.Transaction{
		ClientID:    clientID,
		UnitID:      req.UnitID,
		Type:        consts.TransactionTypePayment,
		Status:      consts.TransactionStatusActive,
		Category:    category,
		Amount:      req.Amount,
		CreditUsed:  cascade.CreditUsed,
		CreditAdded: cascade.CreditAdded,
		Method:      consts.PaymentMethod(req.Method),
		Reference:   req.Reference,
		Allocations: cascade.Allocations,
		FiscalYear:  utils.FiscalYearOf(now, cfg.FiscalYearStartMonth),
		CreatedAt:   now,
	}

	_, err = runTransaction(ctx, s.mongoClient, func(txCtx context.Context) (interface{}, error) {
		txnID, err := s.txnsRepo.CreateEntry(txCtx, txn)
		if err != nil {
			return nil, err
		}
		txn.ID = txnID

		for i := range cascade.Bills {
			if err := s.billsRepo.ApplyPayment(txCtx, &cascade.Bills[i]); err != nil {
				return nil, err
			}
		}

		var entries []models.CreditEntry
		if cascade.CreditUsed > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryUsed,
				Amount:        cascade.CreditUsed,
				TransactionID: txnID,
				At:            now,
			})
		}
		if cascade.CreditAdded > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryAdded,
				Amount:        cascade.CreditAdded,
				TransactionID: txnID,
				Note:          "overpayment",
				At:            now,
			})
		}
		if len(entries) > 0 {
			delta := cascade.CreditAdded - cascade.CreditUsed
			if err := s.creditRepo.ApplyChange(txCtx, clientID, req.UnitID, delta, entries); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMongoTransactionFailed, err,
			slog.String("client_id", clientID), slog.String("unit_id", req.UnitID))
		return nil, err
	}

	s.afterCommit(ctx, txn, &cascade)

	logger.CtxInfo(ctx, log_messages.SuccessPaymentRecorded,
		slog.String("client_id", clientID),
		slog.String("unit_id", req.UnitID),
		slog.String("txn_id", txn.ID.Hex()),
		slog.Int64("amount", req.Amount),
		slog.Int64("applied", cascade.Applied),
		slog.Int64("credit_used", cascade.CreditUsed),
		slog.Int64("credit_added", cascade.CreditAdded),
	)
	return txn, nil
}

func (s *PaymentService) afterCommit(ctx context.Context, txn *models.Transaction, cascade *CascadeResult) {
	if err := s.cache.InvalidateYearData(ctx, txn.ClientID, txn.Category, txn.FiscalYear); err != nil {
		logger.CtxWarn(ctx, log_messages.ErrorInvalidatingYearDataCache,
			slog.String("client_id", txn.ClientID), slog.Int("fiscal_year", txn.FiscalYear))
	}

	receipt := apimodels.ReceiptNotification{
		ClientID:      txn.ClientID,
		UnitID:        txn.UnitID,
		TransactionID: txn.ID.Hex(),
		Amount:        utils.CentsToDisplay(txn.Amount),
		CreditAdded:   utils.CentsToDisplay(txn.CreditAdded),
		BillsCovered:  len(txn.Allocations),
		PaidThrough:   cascade.PaidThrough,
	}
	if _, err := s.receiptTopic.PublishMessage(ctx, receipt); err != nil {
		logger.CtxWarn(ctx, "Failed to publish payment receipt",
			slog.String("txn_id", txn.ID.Hex()), slog.String("error", err.Error()))
	} else {
		logger.CtxInfo(ctx, log_messages.SuccessReceiptPublished, slog.String("txn_id", txn.ID.Hex()))
	}

	s.publishLedgerEvent(ctx, apimodels.LedgerEventPayment, txn)
}

func (s *PaymentService) publishLedgerEvent(ctx context.Context, eventType string, txn *models.Transaction) {
	event := apimodels.LedgerEvent{
		EventType:     eventType,
		ClientID:      txn.ClientID,
		UnitID:        txn.UnitID,
		TransactionID: txn.ID.Hex(),
		Category:      string(txn.Category),
		Amount:        txn.Amount,
		CreditUsed:    txn.CreditUsed,
		CreditAdded:   txn.CreditAdded,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to marshal ledger event", slog.String("error", err.Error()))
		return
	}
	if err := s.ledgerPublisher.Publish(ctx, payload); err != nil {
		logger.CtxWarn(ctx, "Failed to publish ledger event",
			slog.String("txn_id", txn.ID.Hex()), slog.String("error", err.Error()))
		return
	}
	logger.CtxInfo(ctx, log_messages.SuccessLedgerEventPublished,
		slog.String("event_type", eventType), slog.String("txn_id", txn.ID.Hex()))
}
