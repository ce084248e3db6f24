package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

type CreditHandler struct {
	creditRepo interfaces.CreditRepositoryInterface
}

func NewCreditHandler(creditRepo interfaces.CreditRepositoryInterface) *CreditHandler {
	return &CreditHandler{creditRepo: creditRepo}
}

// GetBalance returns a unit's credit balance with its entry history. A unit
// that never accumulated credit reads as a zero balance.
func (h *CreditHandler) GetBalance(c *gin.Context) {
	clientID := c.Param("clientId")
	unitID := c.Param("unitId")

	balance, err := h.creditRepo.GetBalance(c.Request.Context(), clientID, unitID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, gin.H{
				"clientId": clientID,
				"unitId":   unitID,
				"balance":  0,
				"history":  []gin.H{},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history := make([]gin.H, 0, len(balance.History))
	for _, entry := range balance.History {
		row := gin.H{
			"type":   entry.Type,
			"amount": entry.Amount,
			"at":     entry.At,
			"note":   entry.Note,
		}
		if !entry.TransactionID.IsZero() {
			row["transactionId"] = entry.TransactionID.Hex()
		}
		history = append(history, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"clientId":  clientID,
		"unitId":    unitID,
		"balance":   balance.Balance,
		"history":   history,
		"updatedAt": balance.UpdatedAt,
	})
}
