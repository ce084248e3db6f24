package billing

import (
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/utils"
)

// AccruePenalty computes the penalty a bill should carry as of a point in
// time. The result is derived from whole months overdue and the current
// outstanding base, never from the previously stored penalty, so repeated
// recalculation converges instead of compounding on itself.
func AccruePenalty(bill *models.Bill, cfg *models.ClientConfig, asOf time.Time) int64 {
	if bill.Status == consts.BillStatusPaid {
		return bill.PenaltyAmount
	}
	if bill.Category == consts.CategoryHOADues && !cfg.PenaltyOnDues {
		return bill.PenaltyPaid
	}
	if cfg.PenaltyRatePct <= 0 {
		return bill.PenaltyPaid
	}

	baseOutstanding := bill.BaseOutstanding()
	if baseOutstanding <= 0 {
		return bill.PenaltyPaid
	}

	months := utils.WholeMonthsSince(bill.DueDate, asOf)
	if months == 0 {
		return bill.PenaltyPaid
	}

	var accrued int64
	if cfg.PenaltyCompounds {
		for i := 0; i < months; i++ {
			accrued += utils.PercentOfCents(baseOutstanding+accrued, cfg.PenaltyRatePct)
		}
	} else {
		accrued = int64(months) * utils.PercentOfCents(baseOutstanding, cfg.PenaltyRatePct)
	}

	// Never drop below what was already collected against the penalty.
	if accrued < bill.PenaltyPaid {
		return bill.PenaltyPaid
	}
	return accrued
}

// RefreshPenalty stamps the recalculated penalty onto the bill.
func RefreshPenalty(bill *models.Bill, cfg *models.ClientConfig, asOf time.Time) {
	bill.PenaltyAmount = AccruePenalty(bill, cfg, asOf)
	bill.LastPenaltyUpdate = asOf
}
