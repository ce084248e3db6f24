package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	kafkapkg "github.com/mlandesman/SAMS-sub005/internal/pkg/kafka"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// PaymentRecorder is the slice of the payment service the settlement feed
// needs.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, clientID string, req *apimodels.PaymentRequest) (*models.Transaction, error)
}

// SettlementConsumerService turns bank settlement records from the Kafka
// feed into recorded payments. The bank reference doubles as the
// idempotency key: a Redis SetNX guard drops records already applied.
type SettlementConsumerService struct {
	payments PaymentRecorder
	cache    interfaces.RedisStoreOperations
}

func NewSettlementConsumerService(
	payments PaymentRecorder,
	cache interfaces.RedisStoreOperations,
) *SettlementConsumerService {
	return &SettlementConsumerService{payments: payments, cache: cache}
}

// HandleSettlementMessage applies one settlement record. Duplicates are
// acknowledged without effect.
func (s *SettlementConsumerService) HandleSettlementMessage(ctx context.Context, msg []byte) error {
	var settlement apimodels.SettlementMessage
	if err := json.Unmarshal(msg, &settlement); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUnmarshalingKafkaMessage, err)
		return err
	}
	if settlement.ClientID == "" || settlement.UnitID == "" || settlement.Reference == "" {
		return fmt.Errorf("settlement record missing clientId, unitId or reference")
	}
	if settlement.Amount <= 0 {
		return fmt.Errorf("settlement record has non-positive amount %d", settlement.Amount)
	}

	acquired, err := s.cache.AcquireSettlementKey(ctx, settlement.ClientID, settlement.Reference)
	if err != nil {
		return err
	}
	if !acquired {
		logger.CtxInfo(ctx, "Duplicate settlement record dropped",
			slog.String("client_id", settlement.ClientID),
			slog.String("reference", settlement.Reference),
		)
		return nil
	}

	category := settlement.Category
	if category == "" {
		category = string(consts.CategoryHOADues)
	}

	req := &apimodels.PaymentRequest{
		UnitID:    settlement.UnitID,
		Category:  category,
		Amount:    settlement.Amount,
		Method:    string(consts.MethodSettlement),
		Reference: settlement.Reference,
		UseCredit: false,
	}

	txn, err := s.payments.RecordPayment(ctx, settlement.ClientID, req)
	if err != nil {
		// Release the dedupe key so a redelivery can retry the record.
		dedupeKey := fmt.Sprintf(consts.SettlementDedupeKeyFormat, settlement.ClientID, settlement.Reference)
		if delErr := s.cache.Delete(ctx, dedupeKey); delErr != nil {
			logger.CtxWarn(ctx, "Failed to release settlement dedupe key",
				slog.String("key", dedupeKey), slog.String("error", delErr.Error()))
		}
		return err
	}

	logger.CtxInfo(ctx, "Settlement record applied",
		slog.String("client_id", settlement.ClientID),
		slog.String("unit_id", settlement.UnitID),
		slog.String("reference", settlement.Reference),
		slog.String("txn_id", txn.ID.Hex()),
	)
	return nil
}

// RunSettlementLoop consumes the settlement topic until the context ends.
// Failed records are logged and the loop moves on; the broker redelivers on
// the next rebalance.
func (s *SettlementConsumerService) RunSettlementLoop(ctx context.Context, consumer kafkapkg.KafkaConsumerInterface) {
	for {
		select {
		case <-ctx.Done():
			logger.CtxInfo(ctx, "Settlement consumer loop exiting")
			return
		default:
		}

		msg, err := consumer.Consume()
		if err != nil {
			logger.CtxError(ctx, log_messages.KafkaErrorConsuming, err)
			continue
		}

		if err := s.HandleSettlementMessage(ctx, msg.Value); err != nil {
			logger.CtxError(ctx, "Failed to process settlement record", err)
		}
	}
}
