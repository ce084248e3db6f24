package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
)

// DuesScheduleService generates the dues bills for a full fiscal year.
type DuesScheduleService interface {
	GenerateDuesSchedule(ctx context.Context, clientID string, fiscalYear int) (*billing.GenerationSummary, error)
}

type DuesHandler struct {
	service   DuesScheduleService
	summaries YearSummaryProvider
}

func NewDuesHandler(service DuesScheduleService, summaries YearSummaryProvider) *DuesHandler {
	return &DuesHandler{service: service, summaries: summaries}
}

// GenerateSchedule creates one dues bill per active unit per fiscal period.
// Periods that already carry a bill are skipped.
func (h *DuesHandler) GenerateSchedule(c *gin.Context) {
	clientID := c.Param("clientId")
	fiscalYear, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	summary, err := h.service.GenerateDuesSchedule(c.Request.Context(), clientID, fiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetYearBills returns the dues year summary for one fiscal year.
func (h *DuesHandler) GetYearBills(c *gin.Context) {
	clientID := c.Param("clientId")
	fiscalYear, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	summary, fromCache, err := h.summaries.GetYearSummary(
		c.Request.Context(), clientID, consts.CategoryHOADues, fiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Cache", cacheHeader(fromCache))
	c.JSON(http.StatusOK, summary)
}
