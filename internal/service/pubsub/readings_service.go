package pubsub_service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
)

var validate *validator.Validate = validator.New()

// MessageIgnoreError is a special error type that signals the PubSub consumer
// to neither ACK nor NACK the message, effectively letting it be redelivered
// after the redelivery timeout
type MessageIgnoreError struct {
	Err error
}

func (e *MessageIgnoreError) Error() string {
	return fmt.Sprintf("message ignored for redelivery: %v", e.Err)
}

// ReadingsBatchService consumes meter-reading batches published by the field
// capture app. Batches marked complete also trigger bill generation for the
// period.
type ReadingsBatchService interface {
	RecordReadings(ctx context.Context, clientID string, req *models.ReadingsRequest) (int, error)
	GenerateBills(ctx context.Context, clientID, period string) (*billing.GenerationSummary, error)
}

type ReadingsMessageConsumer struct {
	BillingService ReadingsBatchService
}

func NewReadingsMessageConsumer(billingService ReadingsBatchService) *ReadingsMessageConsumer {
	return &ReadingsMessageConsumer{BillingService: billingService}
}

// HandleReadingsMessage processes one Pub/Sub readings batch. A malformed
// payload is dropped with a NACK-able error; a failure after the readings
// were stored returns MessageIgnoreError so redelivery retries only the
// idempotent bill generation.
func (c *ReadingsMessageConsumer) HandleReadingsMessage(ctx context.Context, msg []byte) error {
	var payload models.ReadingsMessage
	if err := json.Unmarshal(msg, &payload); err != nil {
		logger.CtxError(ctx, "Failed to unmarshal readings message", err)
		return err
	}
	if payload.ClientID == "" {
		return fmt.Errorf("readings message missing clientId")
	}

	req := &models.ReadingsRequest{
		Period:   payload.Period,
		Source:   payload.Source,
		Readings: payload.Readings,
	}
	if err := validate.Struct(req); err != nil {
		logger.CtxError(ctx, "Invalid readings message payload", err,
			slog.String("client_id", payload.ClientID))
		return err
	}

	if _, err := c.BillingService.RecordReadings(ctx, payload.ClientID, req); err != nil {
		return err
	}

	if payload.Complete {
		if _, err := c.BillingService.GenerateBills(ctx, payload.ClientID, payload.Period); err != nil {
			logger.CtxWarn(ctx, "Bill generation after readings batch failed, leaving for redelivery",
				slog.String("client_id", payload.ClientID),
				slog.String("period", payload.Period),
			)
			return &MessageIgnoreError{Err: err}
		}
	}
	return nil
}
