package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlandesman/SAMS-sub005/internal/service/reports"
)

// StatementGenerator renders and stores a fiscal-year account statement.
type StatementGenerator interface {
	GenerateYearStatement(ctx context.Context, clientID string, fiscalYear int) (*reports.StatementResult, error)
}

type ReportsHandler struct {
	service StatementGenerator
}

func NewReportsHandler(service StatementGenerator) *ReportsHandler {
	return &ReportsHandler{service: service}
}

// GenerateStatement builds the CSV statement for one fiscal year and uploads
// it to the reports bucket. The response carries the object name.
func (h *ReportsHandler) GenerateStatement(c *gin.Context) {
	clientID := c.Param("clientId")
	fiscalYear, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	result, err := h.service.GenerateYearStatement(c.Request.Context(), clientID, fiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
