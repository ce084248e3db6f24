package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// UnitYearSummary aggregates one unit's bills within a fiscal year.
type UnitYearSummary struct {
	UnitID      string `json:"unitId"`
	Billed      int64  `json:"billed"`
	PenaltyDue  int64  `json:"penaltyDue"`
	Paid        int64  `json:"paid"`
	Outstanding int64  `json:"outstanding"`
	OpenBills   int    `json:"openBills"`
}

// YearSummary is the read model served to dashboards: all bills of one
// client, category and fiscal year rolled up per unit. It is built directly
// from the bill documents on every cache miss; there is no maintained
// aggregate document to drift out of sync.
type YearSummary struct {
	ClientID    string              `json:"clientId"`
	Category    consts.BillCategory `json:"category"`
	FiscalYear  int                 `json:"fiscalYear"`
	Units       []UnitYearSummary   `json:"units"`
	Bills       []models.Bill       `json:"bills"`
	Totals      UnitYearSummary     `json:"totals"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

type YearSummaryService struct {
	clientCfgRepo interfaces.ClientConfigRepositoryInterface
	billsRepo     interfaces.BillsRepositoryInterface
	cache         interfaces.RedisStoreOperations
}

func NewYearSummaryService(
	clientCfgRepo interfaces.ClientConfigRepositoryInterface,
	billsRepo interfaces.BillsRepositoryInterface,
	cache interfaces.RedisStoreOperations,
) *YearSummaryService {
	return &YearSummaryService{
		clientCfgRepo: clientCfgRepo,
		billsRepo:     billsRepo,
		cache:         cache,
	}
}

// GetYearSummary returns the year read model, from Redis when a cached copy
// exists, otherwise rebuilt from MongoDB and cached. The second return value
// reports a cache hit.
func (s *YearSummaryService) GetYearSummary(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
) (*YearSummary, bool, error) {
	if data, err := s.cache.GetYearSummary(ctx, clientID, category, fiscalYear); err == nil && len(data) > 0 {
		var summary YearSummary
		if err := json.Unmarshal(data, &summary); err == nil {
			return &summary, true, nil
		}
		logger.CtxWarn(ctx, "Discarding unreadable cached year summary",
			slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
	}

	summary, err := s.buildYearSummary(ctx, clientID, category, fiscalYear)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.SaveYearSummary(ctx, clientID, category, fiscalYear, summary); err != nil {
		logger.CtxWarn(ctx, "Failed to cache year summary",
			slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
	}
	return summary, false, nil
}

func (s *YearSummaryService) buildYearSummary(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
) (*YearSummary, error) {
	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	bills, err := s.billsRepo.ListForFiscalYear(ctx, clientID, category, fiscalYear)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &YearSummary{
		ClientID:    clientID,
		Category:    category,
		FiscalYear:  fiscalYear,
		GeneratedAt: now,
	}

	perUnit := make(map[string]*UnitYearSummary)
	var order []string
	for i := range bills {
		// Display-only accrual; the stored penalty is only stamped when a
		// payment runs over the bill.
		billing.RefreshPenalty(&bills[i], cfg, now)
		bill := bills[i]

		unit, ok := perUnit[bill.UnitID]
		if !ok {
			unit = &UnitYearSummary{UnitID: bill.UnitID}
			perUnit[bill.UnitID] = unit
			order = append(order, bill.UnitID)
		}

		unit.Billed += bill.BaseAmount
		unit.PenaltyDue += bill.PenaltyAmount
		unit.Paid += bill.BasePaid + bill.PenaltyPaid
		unit.Outstanding += bill.Outstanding()
		if bill.Status != consts.BillStatusPaid {
			unit.OpenBills++
		}
	}

	for _, unitID := range order {
		unit := perUnit[unitID]
		summary.Units = append(summary.Units, *unit)
		summary.Totals.Billed += unit.Billed
		summary.Totals.PenaltyDue += unit.PenaltyDue
		summary.Totals.Paid += unit.Paid
		summary.Totals.Outstanding += unit.Outstanding
		summary.Totals.OpenBills += unit.OpenBills
	}
	summary.Bills = bills
	return summary, nil
}
