package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	cacheservice "github.com/mlandesman/SAMS-sub005/internal/service/cache"
)

// WaterBillingService covers the meter-to-bill operations exposed over HTTP.
type WaterBillingService interface {
	RecordReadings(ctx context.Context, clientID string, req *apimodels.ReadingsRequest) (int, error)
	GenerateBills(ctx context.Context, clientID, period string) (*billing.GenerationSummary, error)
}

// YearSummaryProvider serves the cached per-year bill aggregate.
type YearSummaryProvider interface {
	GetYearSummary(ctx context.Context, clientID string, category consts.BillCategory,
		fiscalYear int) (*cacheservice.YearSummary, bool, error)
}

type WaterBillsHandler struct {
	service   WaterBillingService
	summaries YearSummaryProvider
}

func NewWaterBillsHandler(service WaterBillingService, summaries YearSummaryProvider) *WaterBillsHandler {
	return &WaterBillsHandler{service: service, summaries: summaries}
}

// RecordReadings stores a batch of meter readings for one period.
func (h *WaterBillsHandler) RecordReadings(c *gin.Context) {
	clientID := c.Param("clientId")

	var req apimodels.ReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.service.RecordReadings(c.Request.Context(), clientID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientId": clientID, "period": req.Period, "stored": stored})
}

// GenerateBills creates the water bills for a billing period from the stored
// readings. Units already billed for the period are skipped.
func (h *WaterBillsHandler) GenerateBills(c *gin.Context) {
	clientID := c.Param("clientId")

	var req apimodels.GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.GenerateBills(c.Request.Context(), clientID, req.Period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetYearBills returns the water year summary for one fiscal year.
func (h *WaterBillsHandler) GetYearBills(c *gin.Context) {
	clientID := c.Param("clientId")
	fiscalYear, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	summary, fromCache, err := h.summaries.GetYearSummary(
		c.Request.Context(), clientID, consts.CategoryWaterBill, fiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Cache", cacheHeader(fromCache))
	c.JSON(http.StatusOK, summary)
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
