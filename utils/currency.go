package utils

import (
	"fmt"
	"math"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

// All monetary amounts in the system are int64 centavos. The helpers below
// exist only at the display/percentage boundaries.

// PercentOfCents applies a percentage to an amount in centavos, rounding
// half away from zero.
func PercentOfCents(amount int64, pct float64) int64 {
	return int64(math.Round(float64(amount) * pct / 100.0))
}

// CentsToDisplay renders centavos as a two-decimal currency string.
func CentsToDisplay(amount int64) string {
	return fmt.Sprintf(consts.FloatTwoDecimalFormat, float64(amount)/100.0)
}
