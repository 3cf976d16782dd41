package output

import (
	"strconv"
	"time"

	"github.com/chaitu5981/money-lender/pkg/dateutil"
	pkgdecimal "github.com/chaitu5981/money-lender/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount in whole rupees with Indian digit grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return pkgdecimal.NewMoneyFromDecimal(amount).FormatINR()
}

// FormatAmount renders an amount with two decimals and no symbol, for exports.
func FormatAmount(amount decimal.Decimal) string { return amount.StringFixed(2) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatDate renders a calendar date, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dateutil.FormatDate(t)
}

func intToString(i int) string { return strconv.Itoa(i) }
