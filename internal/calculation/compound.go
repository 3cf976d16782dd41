package calculation

import (
	"time"

	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// DayCountBasis is the 360-day year used for simple interest.
const DayCountBasis = 360

// interestDivisor turns percent × days into a fraction of a 360-day year.
var interestDivisor = decimal.NewFromInt(100 * DayCountBasis)

// PeriodInterest is the outcome of accruing one principal over a date range.
type PeriodInterest struct {
	// Interest includes every accrued day, including a trailing partial year.
	Interest decimal.Decimal
	// FinalPrincipal is the principal after the last compounding anniversary.
	// It never includes the trailing partial year's interest.
	FinalPrincipal decimal.Decimal
	// Days is the total number of days that accrued interest.
	Days int
	// Compoundings counts anniversaries crossed inside the range.
	Compoundings int
}

// SimpleInterest is principal × rate × days / (100 × 360).
func SimpleInterest(principal, ratePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() || !ratePercent.IsPositive() {
		return decimal.Zero
	}
	return principal.Mul(ratePercent).Mul(decimal.NewFromInt(int64(days))).Div(interestDivisor)
}

// Compound accrues simple interest from start to end, compounding at each
// anniversary of start. Anniversaries are counted from this call's start, not
// from the loan's first transaction. After compounding, accrual resumes on
// the day after the anniversary.
//
// Non-positive principal or rate, or an empty range, yields zero interest and
// the principal unchanged.
func Compound(principal, ratePercent decimal.Decimal, startDate, endDate time.Time) PeriodInterest {
	result := PeriodInterest{Interest: decimal.Zero, FinalPrincipal: principal}
	if !principal.IsPositive() || !ratePercent.IsPositive() {
		return result
	}
	start := dateutil.StartOfDay(startDate)
	end := dateutil.StartOfDay(endDate)
	if dateutil.DiffDaysExclusive(start, end) <= 0 {
		return result
	}

	current := start
	for year := 1; dateutil.Before(current, end); year++ {
		anniversary := dateutil.AddCalendarYears(start, year)
		if dateutil.Before(anniversary, current) {
			continue
		}
		periodEnd := anniversary
		reachedAnniversary := true
		if dateutil.Before(end, anniversary) {
			periodEnd = end
			reachedAnniversary = false
		}

		days := dateutil.DiffDaysExclusive(current, periodEnd)
		if days <= 0 {
			break
		}
		interest := SimpleInterest(result.FinalPrincipal, ratePercent, days)
		result.Interest = result.Interest.Add(interest)
		result.Days += days

		if !reachedAnniversary {
			break
		}
		result.FinalPrincipal = result.FinalPrincipal.Add(interest)
		result.Compoundings++
		current = dateutil.AddDays(anniversary, 1)
	}
	return result
}
