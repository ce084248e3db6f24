package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

var (
	ErrAlreadyReversed     = errors.New("transaction already reversed")
	ErrTransactionMismatch = errors.New("transaction does not belong to client")
)

// ReverseTransaction backs a recorded transaction out of the ledger. Bill
// allocations are restored, credit that the payment used comes back, credit
// it added is removed, and the transaction itself is marked reversed. The
// document is never deleted.
func (s *PaymentService) ReverseTransaction(
	ctx context.Context,
	clientID string,
	txnID primitive.ObjectID,
) (*models.Transaction, error) {
	txn, err := s.txnsRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn.ClientID != clientID {
		return nil, ErrTransactionMismatch
	}
	if txn.Status == consts.TransactionStatusReversed {
		return nil, ErrAlreadyReversed
	}

	now := time.Now().UTC()

	_, err = runTransaction(ctx, s.mongoClient, func(txCtx context.Context) (interface{}, error) {
		for _, alloc := range txn.Allocations {
			bill, err := s.billsRepo.GetByID(txCtx, alloc.BillID)
			if err != nil {
				return nil, err
			}

			restoredBasePaid := bill.BasePaid - alloc.BasePaid
			restoredPenaltyPaid := bill.PenaltyPaid - alloc.PenaltyPaid

			var status consts.BillStatus
			switch {
			case restoredBasePaid == 0 && restoredPenaltyPaid == 0:
				status = consts.BillStatusUnpaid
			case restoredBasePaid >= bill.BaseAmount && restoredPenaltyPaid >= bill.PenaltyAmount:
				status = consts.BillStatusPaid
			default:
				status = consts.BillStatusPartial
			}

			if err := s.billsRepo.RestoreAllocation(txCtx, alloc.BillID,
				alloc.BasePaid, alloc.PenaltyPaid, status); err != nil {
				return nil, err
			}
		}

		var entries []models.CreditEntry
		if txn.CreditAdded > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryUsed,
				Amount:        txn.CreditAdded,
				TransactionID: txn.ID,
				Note:          "reversal removed overpayment credit",
				At:            now,
			})
		}
		if txn.CreditUsed > 0 {
			entries = append(entries, models.CreditEntry{
				Type:          consts.CreditEntryRestored,
				Amount:        txn.CreditUsed,
				TransactionID: txn.ID,
				Note:          "reversal restored credit",
				At:            now,
			})
		}
		if len(entries) > 0 {
			delta := txn.CreditUsed - txn.CreditAdded
			if err := s.creditRepo.ApplyChange(txCtx, txn.ClientID, txn.UnitID, delta, entries); err != nil {
				return nil, err
			}
		}

		return nil, s.txnsRepo.MarkReversed(txCtx, txn.ID, now)
	})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMongoTransactionFailed, err,
			slog.String("client_id", clientID), slog.String("txn_id", txnID.Hex()))
		return nil, err
	}

	txn.Status = consts.TransactionStatusReversed
	txn.ReversedAt = now

	if err := s.cache.InvalidateYearData(ctx, txn.ClientID, txn.Category, txn.FiscalYear); err != nil {
		logger.CtxWarn(ctx, log_messages.ErrorInvalidatingYearDataCache,
			slog.String("client_id", txn.ClientID), slog.Int("fiscal_year", txn.FiscalYear))
	}
	s.publishLedgerEvent(ctx, apimodels.LedgerEventReversal, txn)

	logger.CtxInfo(ctx, log_messages.SuccessTransactionReversed,
		slog.String("client_id", clientID),
		slog.String("txn_id", txnID.Hex()),
		slog.Int64("credit_restored", txn.CreditUsed),
		slog.Int64("credit_removed", txn.CreditAdded),
	)
	return txn, nil
}
