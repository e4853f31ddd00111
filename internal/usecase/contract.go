package usecase

import (
	"fmt"
	"strings"
	"time"

	"biasbuster-backend/internal/domain"
)

// NSE index futures expire on the last Thursday of the contract month. We
// roll to the next month one day before expiry to stay off the illiquid
// final session.

// lastThursday returns the date of the last Thursday of the given month.
func lastThursday(year int, month time.Month, loc *time.Location) time.Time {
	// Walk back from the last day of the month.
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	for d.Weekday() != time.Thursday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// ActiveContract resolves the front-month contract for the given instrument
// as of now, already rolled when within one day of expiry.
func ActiveContract(spec domain.InstrumentSpec, now time.Time) *domain.ContractInfo {
	if !spec.DynamicContract {
		return nil
	}

	loc := istLocation()
	now = now.In(loc)

	year, month := now.Year(), now.Month()
	expiry := lastThursday(year, month, loc)
	rollDate := expiry.AddDate(0, 0, -1)
	if !now.Before(rollDate) {
		next := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
		year, month = next.Year(), next.Month()
		expiry = lastThursday(year, month, loc)
	}

	days := int(expiry.Sub(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)).Hours() / 24)

	label := fmt.Sprintf("%s %02d", strings.ToUpper(month.String()[:3]), year%100)
	return &domain.ContractInfo{
		Contract:      label,
		Expiry:        expiry.Format("02-Jan-2006"),
		DaysToExpiry:  days,
		TradingSymbol: tradingSymbol(spec, expiry),
	}
}

// tradingSymbol builds the exchange-style symbol, e.g. NIFTY26JANFUT.
func tradingSymbol(spec domain.InstrumentSpec, expiry time.Time) string {
	base := "NIFTY"
	if strings.Contains(strings.ToLower(spec.Name), "bank") {
		base = "BANKNIFTY"
	}
	return fmt.Sprintf("%s%02d%sFUT", base, expiry.Year()%100, strings.ToUpper(expiry.Month().String()[:3]))
}
