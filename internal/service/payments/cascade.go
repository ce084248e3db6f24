package payments

import (
	"sort"
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
)

// CascadeResult is the outcome of allocating one payment across open bills.
type CascadeResult struct {
	Allocations []models.Allocation
	// Bills holds the bills the cascade touched, with their paid amounts,
	// refreshed penalties and recomputed status ready to persist.
	Bills       []models.Bill
	Applied     int64
	CreditUsed  int64
	CreditAdded int64
	// PaidThrough is the latest period the cascade settled in full.
	PaidThrough string
}

// AllocateFunds runs the payment cascade: the payment amount plus any
// available credit is applied to bills oldest period first, paying each
// bill's base before its penalty, splitting across as many bills as the
// funds cover. Whatever remains after the last open bill becomes credit.
//
// The function is pure. Callers persist the returned bills, allocations and
// credit movement inside one transaction.
func AllocateFunds(
	bills []models.Bill,
	cfg *models.ClientConfig,
	amount, creditAvailable int64,
	asOf time.Time,
) CascadeResult {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Period < bills[j].Period
	})

	funds := amount + creditAvailable
	result := CascadeResult{}

	for i := range bills {
		if funds <= 0 {
			break
		}
		bill := bills[i]
		billing.RefreshPenalty(&bill, cfg, asOf)

		payBase := min64(funds, bill.BaseOutstanding())
		funds -= payBase
		bill.BasePaid += payBase

		payPenalty := min64(funds, bill.PenaltyOutstanding())
		funds -= payPenalty
		bill.PenaltyPaid += payPenalty

		if payBase == 0 && payPenalty == 0 {
			continue
		}

		if bill.Outstanding() == 0 {
			bill.Status = consts.BillStatusPaid
			result.PaidThrough = bill.Period
		} else {
			bill.Status = consts.BillStatusPartial
		}

		result.Allocations = append(result.Allocations, models.Allocation{
			BillID:      bill.ID,
			Period:      bill.Period,
			Category:    bill.Category,
			BasePaid:    payBase,
			PenaltyPaid: payPenalty,
		})
		result.Bills = append(result.Bills, bill)
		result.Applied += payBase + payPenalty
	}

	if result.Applied > amount {
		result.CreditUsed = result.Applied - amount
	} else {
		result.CreditAdded = amount - result.Applied
	}
	return result
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
