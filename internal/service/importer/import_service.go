package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
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

// ImportResult summarizes one legacy import batch.
type ImportResult struct {
	BatchID             string `json:"batchId"`
	UnitsImported       int    `json:"unitsImported"`
	BillsCreated        int    `json:"billsCreated"`
	BillsSkipped        int    `json:"billsSkipped"`
	TransactionsCreated int    `json:"transactionsCreated"`
	TransactionsSkipped int    `json:"transactionsSkipped"`
}

// ImportService loads a legacy accounting export: units, bills and historic
// transactions. Every legacy transaction sequence number is recorded in the
// CrossRef mapping table, which doubles as the idempotency guard when a batch
// is re-run after a partial failure.
type ImportService struct {
	mongoClient     *mongodb.MongoClient
	clientCfgRepo   interfaces.ClientConfigRepositoryInterface
	unitsRepo       interfaces.UnitsRepositoryInterface
	billsRepo       interfaces.BillsRepositoryInterface
	txnsRepo        interfaces.TransactionsRepositoryInterface
	creditRepo      interfaces.CreditRepositoryInterface
	mappingsRepo    interfaces.ImportMappingsRepositoryInterface
	cache           interfaces.RedisStoreOperations
	sftp            interfaces.SFTPFileFetcher
	ledgerPublisher interfaces.KafkaPublisherInterface
}

func NewImportService(
	mongoClient *mongodb.MongoClient,
	clientCfgRepo interfaces.ClientConfigRepositoryInterface,
	unitsRepo interfaces.UnitsRepositoryInterface,
	billsRepo interfaces.BillsRepositoryInterface,
	txnsRepo interfaces.TransactionsRepositoryInterface,
	creditRepo interfaces.CreditRepositoryInterface,
	mappingsRepo interfaces.ImportMappingsRepositoryInterface,
	cache interfaces.RedisStoreOperations,
	sftp interfaces.SFTPFileFetcher,
	ledgerPublisher interfaces.KafkaPublisherInterface,
) *ImportService {
	return &ImportService{
		mongoClient:     mongoClient,
		clientCfgRepo:   clientCfgRepo,
		unitsRepo:       unitsRepo,
		billsRepo:       billsRepo,
		txnsRepo:        txnsRepo,
		creditRepo:      creditRepo,
		mappingsRepo:    mappingsRepo,
		cache:           cache,
		sftp:            sftp,
		ledgerPublisher: ledgerPublisher,
	}
}

// RunImport processes one legacy batch in three passes: units, then bills,
// then transactions. When the request names an SFTP file the payload comes
// from the drop directory instead of the request body.
func (s *ImportService) RunImport(
	ctx context.Context,
	clientID string,
	req *apimodels.ImportRequest,
) (*ImportResult, error) {
	fromSFTP := req.SFTPFile != ""
	if fromSFTP {
		data, err := s.sftp.PullImportFile(ctx, req.SFTPFile)
		if err != nil {
			return nil, err
		}
		var payload apimodels.ImportRequest
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid import file %s: %w", req.SFTPFile, err)
		}
		if err := payload.Validate(); err != nil {
			return nil, err
		}
		payload.SFTPFile = req.SFTPFile
		req = &payload
	}

	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{BatchID: uuid.NewString()}
	affectedYears := make(map[consts.BillCategory]map[int]struct{})
	touchYear := func(category consts.BillCategory, fiscalYear int) {
		if affectedYears[category] == nil {
			affectedYears[category] = make(map[int]struct{})
		}
		affectedYears[category][fiscalYear] = struct{}{}
	}

	if err := s.importUnits(ctx, clientID, req.Units, result); err != nil {
		return result, err
	}
	if err := s.importBills(ctx, clientID, cfg, req.Bills, result, touchYear); err != nil {
		return result, err
	}
	if err := s.importTransactions(ctx, clientID, cfg, req.Transactions, result, touchYear); err != nil {
		return result, err
	}

	for category, years := range affectedYears {
		for fiscalYear := range years {
			if err := s.cache.InvalidateYearData(ctx, clientID, category, fiscalYear); err != nil {
				logger.CtxWarn(ctx, log_messages.ErrorInvalidatingYearDataCache,
					slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
			}
		}
	}

	if fromSFTP {
		if err := s.sftp.ArchiveImportFile(ctx, req.SFTPFile); err != nil {
			logger.CtxWarn(ctx, "Failed to archive processed import file",
				slog.String("file", req.SFTPFile), slog.String("error", err.Error()))
		}
	}

	s.publishBatchEvent(ctx, clientID, result)

	logger.CtxInfo(ctx, log_messages.SuccessImportBatchCompleted,
		slog.String("client_id", clientID),
		slog.String("batch_id", result.BatchID),
		slog.Int("units", result.UnitsImported),
		slog.Int("bills_created", result.BillsCreated),
		slog.Int("transactions_created", result.TransactionsCreated),
		slog.Int("transactions_skipped", result.TransactionsSkipped),
	)
	return result, nil
}

func (s *ImportService) importUnits(
	ctx context.Context,
	clientID string,
	units []apimodels.LegacyUnit,
	result *ImportResult,
) error {
	for _, legacy := range units {
		unit := &models.Unit{
			ClientID:         clientID,
			UnitID:           legacy.UnitID,
			Owner:            legacy.Owner,
			DuesMonthlyCents: legacy.DuesMonthlyCents,
			Active:           true,
			CreatedAt:        time.Now().UTC(),
		}
		if err := s.unitsRepo.UpsertUnit(ctx, unit); err != nil {
			return err
		}
		result.UnitsImported++
	}
	return nil
}

func (s *ImportService) importBills(
	ctx context.Context,
	clientID string,
	cfg *models.ClientConfig,
	bills []apimodels.LegacyBill,
	result *ImportResult,
	touchYear func(consts.BillCategory, int),
) error {
	for _, legacy := range bills {
		category := consts.BillCategory(legacy.Category)

		exists, err := s.billsRepo.ExistsForPeriod(ctx, clientID, legacy.UnitID, category, legacy.Period)
		if err != nil {
			return err
		}
		if exists {
			result.BillsSkipped++
			continue
		}

		periodStart, err := utils.ParsePeriod(legacy.Period)
		if err != nil {
			return err
		}

		dueDate, err := s.legacyDueDate(legacy.DueDate, legacy.Period, cfg.DueDay)
		if err != nil {
			return err
		}

		fiscalYear := utils.FiscalYearOf(periodStart, cfg.FiscalYearStartMonth)
		bill := &models.Bill{
			ClientID:      clientID,
			UnitID:        legacy.UnitID,
			Category:      category,
			Period:        legacy.Period,
			FiscalYear:    fiscalYear,
			DueDate:       dueDate,
			BaseAmount:    legacy.BaseAmount,
			PenaltyAmount: legacy.Penalty,
			Status:        consts.BillStatusUnpaid,
			CreatedAt:     time.Now().UTC(),
		}
		if _, err := s.billsRepo.CreateBill(ctx, bill); err != nil {
			return err
		}
		touchYear(category, fiscalYear)
		result.BillsCreated++
	}
	return nil
}

func (s *ImportService) legacyDueDate(dueDate, period string, dueDay int) (time.Time, error) {
	if dueDate != "" {
		parsed, err := time.Parse(consts.StatementDateFormat, dueDate)
		if err == nil {
			return parsed, nil
		}
		logger.Warn("Unparseable legacy due date, deriving from period",
			slog.String("due_date", dueDate), slog.String("period", period))
	}
	return utils.DueDateFor(period, dueDay)
}

func (s *ImportService) importTransactions(
	ctx context.Context,
	clientID string,
	cfg *models.ClientConfig,
	txns []apimodels.LegacyTransaction,
	result *ImportResult,
	touchYear func(consts.BillCategory, int),
) error {
	for _, legacy := range txns {
		if _, err := s.mappingsRepo.GetByLegacySeq(ctx, clientID, legacy.Seq); err == nil {
			result.TransactionsSkipped++
			continue
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}

		if err := s.importOneTransaction(ctx, clientID, cfg, legacy, result.BatchID, touchYear); err != nil {
			return fmt.Errorf("legacy transaction %d: %w", legacy.Seq, err)
		}
		result.TransactionsCreated++
	}
	return nil
}

// importOneTransaction replays one legacy payment: the transaction entry, the
// CrossRef row, the bill paid-amounts and the credit movement commit together
// or not at all.
func (s *ImportService) importOneTransaction(
	ctx context.Context,
	clientID string,
	cfg *models.ClientConfig,
	legacy apimodels.LegacyTransaction,
	batchID string,
	touchYear func(consts.BillCategory, int),
) error {
	category := consts.BillCategory(legacy.Category)

	txnDate, err := time.Parse(consts.StatementDateFormat, legacy.Date)
	if err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", legacy.Date, err)
	}

	method := consts.PaymentMethod(legacy.Method)
	if method == "" {
		method = consts.MethodCash
	}

	fiscalYear := utils.FiscalYearOf(txnDate, cfg.FiscalYearStartMonth)
	txn := &models.Transaction{
		ClientID:    clientID,
		UnitID:      legacy.UnitID,
		Type:        consts.TransactionTypeImport,
		Status:      consts.TransactionStatusActive,
		Category:    category,
		Amount:      legacy.Amount,
		CreditUsed:  legacy.CreditUsed,
		CreditAdded: legacy.CreditAdded,
		Method:      method,
		Reference:   legacy.Reference,
		LegacySeq:   legacy.Seq,
		FiscalYear:  fiscalYear,
		CreatedAt:   txnDate,
	}

	_, err = runTransaction(ctx, s.mongoClient, func(txCtx context.Context) (interface{}, error) {
		for _, alloc := range legacy.Allocations {
			allocCategory := consts.BillCategory(alloc.Category)
			if allocCategory == "" {
				allocCategory = category
			}

			bill, err := s.billsRepo.GetByPeriod(txCtx, clientID, legacy.UnitID, allocCategory, alloc.Period)
			if err != nil {
				return nil, fmt.Errorf("allocation references missing bill %s/%s: %w",
					legacy.UnitID, alloc.Period, err)
			}

			bill.BasePaid += alloc.BasePaid
			bill.PenaltyPaid += alloc.PenaltyPaid
			if bill.PenaltyPaid > bill.PenaltyAmount {
				// Legacy data sometimes carries penalty payments the export
				// never stamped onto the bill.
				bill.PenaltyAmount = bill.PenaltyPaid
			}
			if bill.Outstanding() <= 0 {
				bill.Status = consts.BillStatusPaid
			} else {
				bill.Status = consts.BillStatusPartial
			}
			bill.LastPenaltyUpdate = txnDate
			if err := s.billsRepo.ApplyPayment(txCtx, bill); err != nil {
				return nil, err
			}

			txn.Allocations = append(txn.Allocations, models.Allocation{
				BillID:      bill.ID,
				Period:      bill.Period,
				Category:    allocCategory,
				BasePaid:    alloc.BasePaid,
				PenaltyPaid: alloc.PenaltyPaid,
			})
			touchYear(allocCategory, bill.FiscalYear)
		}

		txnID, err := s.txnsRepo.CreateEntry(txCtx, txn)
		if err != nil {
			return nil, err
		}
		txn.ID = txnID

		if err := s.mappingsRepo.CreateMapping(txCtx, &models.ImportMapping{
			ClientID:      clientID,
			LegacySeq:     legacy.Seq,
			TransactionID: txnID,
			BatchID:       batchID,
			ImportedAt:    time.Now().UTC(),
		}); err != nil {
			return nil, err
		}

		var entries []models.CreditEntry
		if legacy.CreditUsed > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryUsed,
				Amount:        legacy.CreditUsed,
				TransactionID: txnID,
				Note:          "legacy import",
				At:            txnDate,
			})
		}
		if legacy.CreditAdded > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryAdded,
				Amount:        legacy.CreditAdded,
				TransactionID: txnID,
				Note:          "legacy import",
				At:            txnDate,
			})
		}
		if len(entries) > 0 {
			delta := legacy.CreditAdded - legacy.CreditUsed
			if err := s.creditRepo.ApplyChange(txCtx, clientID, legacy.UnitID, delta, entries); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMongoTransactionFailed, err,
			slog.String("client_id", clientID), slog.Int64("legacy_seq", legacy.Seq))
		return err
	}

	touchYear(category, fiscalYear)
	return nil
}

func (s *ImportService) publishBatchEvent(ctx context.Context, clientID string, result *ImportResult) {
	event := apimodels.LedgerEvent{
		EventType:     apimodels.LedgerEventImport,
		ClientID:      clientID,
		TransactionID: result.BatchID,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to marshal import batch event", slog.String("error", err.Error()))
		return
	}
	if err := s.ledgerPublisher.Publish(ctx, payload); err != nil {
		logger.CtxWarn(ctx, "Failed to publish import batch event",
			slog.String("batch_id", result.BatchID), slog.String("error", err.Error()))
		return
	}
	logger.CtxInfo(ctx, log_messages.SuccessLedgerEventPublished,
		slog.String("event_type", apimodels.LedgerEventImport), slog.String("batch_id", result.BatchID))
}
