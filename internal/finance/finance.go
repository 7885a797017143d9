// Package finance holds the pure aggregations the dashboard renders:
// monthly revenue/expense summaries, the yearly trend bars and the
// inventory stock value. Everything here is stateless over the live
// snapshots; nothing writes.
package finance

import (
	"time"

	"github.com/dkrauss/inkwell/internal/models"
)

// MonthSummary is the revenue/expense/net roll-up for one month.
type MonthSummary struct {
	Year     int
	Month    time.Month
	Revenue  float64
	Expenses float64
	Net      float64
}

// Summarize computes the roll-up for one month. Revenue counts only
// completed bookings dated inside the month; input order is irrelevant.
// An empty month is all zeros, not an error.
func Summarize(bookings []models.Booking, expenses []models.Expense, year int, month time.Month) MonthSummary {
	s := MonthSummary{Year: year, Month: month}
	for _, b := range bookings {
		if b.Status != models.BookingCompleted {
			continue
		}
		if b.BookingDate.Year() == year && b.BookingDate.Month() == month {
			s.Revenue += b.TotalCost
		}
	}
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			s.Expenses += e.Amount
		}
	}
	s.Net = s.Revenue - s.Expenses
	return s
}

// YearTrend carries twelve monthly summaries plus the denominator used
// to scale trend bars.
type YearTrend struct {
	Year   int
	Months [12]MonthSummary
	// Scale is max(|net|) across the year, floored at 1 so an all-zero
	// year still renders bars at a defined zero height.
	Scale float64
}

func Trend(bookings []models.Booking, expenses []models.Expense, year int) YearTrend {
	t := YearTrend{Year: year, Scale: 1}
	for i := 0; i < 12; i++ {
		m := Summarize(bookings, expenses, year, time.Month(i+1))
		t.Months[i] = m
		abs := m.Net
		if abs < 0 {
			abs = -abs
		}
		if abs > t.Scale {
			t.Scale = abs
		}
	}
	return t
}

// BarHeight maps one month's net onto 0..100 for the trend bars.
func (t YearTrend) BarHeight(month time.Month) float64 {
	net := t.Months[int(month)-1].Net
	if net < 0 {
		net = -net
	}
	return net / t.Scale * 100
}

// StockValue is the total replacement value of the inventory on hand.
func StockValue(items []models.InventoryItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Cost * it.Quantity
	}
	return total
}
