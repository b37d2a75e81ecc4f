// Package billing holds the plan-change money math. Nothing here performs I/O.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reasons reported on a quote
const (
	ReasonNotImmediate = "not_immediate"
	ReasonNotUpgrade   = "not_upgrade"
	ReasonCycleEnded   = "cycle_ended"
	ReasonZeroAmount   = "zero_amount"
	ReasonCharge       = "charge"
)

// currency precision
const amountPlaces = 2

// ProRataInput is everything the calculation depends on.
type ProRataInput struct {
	CurrentValue     decimal.Decimal
	NewValue         decimal.Decimal
	NextDueDate      time.Time
	ApplyImmediately bool
	Today            time.Time
}

// ProRataQuote is the outcome of ProRata. Amount is zero unless Chargeable.
type ProRataQuote struct {
	DaysInMonth   int             `json:"daysInMonth"`
	RemainingDays int             `json:"remainingDays"`
	Amount        decimal.Decimal `json:"amount"`
	Chargeable    bool            `json:"chargeable"`
	Reason        string          `json:"reason"`
}

// ProRata decides whether an upgrade owes a one-time charge for the rest of
// the current cycle and how much. It is a pure function of its input.
//
//	amount = (new - current) * remainingDays / daysInMonth, rounded to cents
func ProRata(in ProRataInput) ProRataQuote {
	q := ProRataQuote{Amount: decimal.Zero}

	if !in.ApplyImmediately {
		q.Reason = ReasonNotImmediate
		return q
	}
	if in.NewValue.LessThanOrEqual(in.CurrentValue) {
		q.Reason = ReasonNotUpgrade
		return q
	}

	q.DaysInMonth = DaysInMonth(in.Today)
	q.RemainingDays = RemainingDays(in.Today, in.NextDueDate)
	if q.RemainingDays == 0 {
		q.Reason = ReasonCycleEnded
		return q
	}

	amount := in.NewValue.Sub(in.CurrentValue).
		Mul(decimal.NewFromInt(int64(q.RemainingDays))).
		Div(decimal.NewFromInt(int64(q.DaysInMonth))).
		Round(amountPlaces)
	if !amount.IsPositive() {
		q.Reason = ReasonZeroAmount
		return q
	}

	q.Amount = amount
	q.Chargeable = true
	q.Reason = ReasonCharge
	return q
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	// day 0 of next month is the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// RemainingDays counts whole calendar days from today until due, never
// negative. due is a calendar date: its own year, month and day are used as-is.
func RemainingDays(today, due time.Time) int {
	loc := today.Location()
	start := truncateDay(today, loc)
	end := truncateDay(due, loc)
	if !end.After(start) {
		return 0
	}
	// round so a DST hour never drops a day
	return int((end.Sub(start) + 12*time.Hour) / (24 * time.Hour))
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
