package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/internal/service/payments"
)

// TransactionReverser undoes a recorded payment without deleting it.
type TransactionReverser interface {
	ReverseTransaction(ctx context.Context, clientID string, txnID primitive.ObjectID) (*models.Transaction, error)
}

type TransactionsHandler struct {
	txnsRepo interfaces.TransactionsRepositoryInterface
	reverser TransactionReverser
}

func NewTransactionsHandler(
	txnsRepo interfaces.TransactionsRepositoryInterface,
	reverser TransactionReverser,
) *TransactionsHandler {
	return &TransactionsHandler{txnsRepo: txnsRepo, reverser: reverser}
}

// ListYearTransactions returns every transaction of one fiscal year.
func (h *TransactionsHandler) ListYearTransactions(c *gin.Context) {
	clientID := c.Param("clientId")
	fiscalYear, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	txns, err := h.txnsRepo.ListForFiscalYear(c.Request.Context(), clientID, fiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]gin.H, 0, len(txns))
	for i := range txns {
		rows = append(rows, transactionRow(&txns[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"clientId":     clientID,
		"fiscalYear":   fiscalYear,
		"transactions": rows,
	})
}

// ReverseTransaction restores the bills and credit a payment touched and
// marks the transaction reversed. The record itself is kept.
func (h *TransactionsHandler) ReverseTransaction(c *gin.Context) {
	clientID := c.Param("clientId")
	txnID, err := primitive.ObjectIDFromHex(c.Param("txnId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	txn, err := h.reverser.ReverseTransaction(c.Request.Context(), clientID, txnID)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, payments.ErrTransactionMismatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, payments.ErrAlreadyReversed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, transactionRow(txn))
}

func transactionRow(txn *models.Transaction) gin.H {
	return gin.H{
		"transactionId": txn.ID.Hex(),
		"unitId":        txn.UnitID,
		"type":          txn.Type,
		"status":        txn.Status,
		"category":      txn.Category,
		"amount":        txn.Amount,
		"creditUsed":    txn.CreditUsed,
		"creditAdded":   txn.CreditAdded,
		"method":        txn.Method,
		"reference":     txn.Reference,
		"fiscalYear":    txn.FiscalYear,
		"createdAt":     txn.CreatedAt,
		"reversedAt":    reversedAt(txn),
	}
}

func reversedAt(txn *models.Transaction) interface{} {
	if txn.Status != consts.TransactionStatusReversed {
		return nil
	}
	return txn.ReversedAt
}
