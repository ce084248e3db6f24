package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

// PaymentRecorder applies a payment through the allocation cascade.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, clientID string, req *apimodels.PaymentRequest) (*models.Transaction, error)
}

type PaymentsHandler struct {
	service PaymentRecorder
}

func NewPaymentsHandler(service PaymentRecorder) *PaymentsHandler {
	return &PaymentsHandler{service: service}
}

// RecordPayment allocates a payment across the unit's unpaid bills, oldest
// period first, and returns the recorded transaction.
func (h *PaymentsHandler) RecordPayment(c *gin.Context) {
	clientID := c.Param("clientId")

	var req apimodels.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.service.RecordPayment(c.Request.Context(), clientID, &req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, paymentResponse(txn))
}

func paymentResponse(txn *models.Transaction) gin.H {
	return gin.H{
		"transactionId": txn.ID.Hex(),
		"status":        txn.Status,
		"amount":        txn.Amount,
		"creditUsed":    txn.CreditUsed,
		"creditAdded":   txn.CreditAdded,
		"allocations":   len(txn.Allocations),
		"fiscalYear":    txn.FiscalYear,
	}
}
