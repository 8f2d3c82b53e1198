package advisor

import (
	"time"

	"github.com/locksum/locksum/internal/model"
)

// DefaultWindowDays is the trailing window used when the caller does not
// specify one.
const DefaultWindowDays = 30

// dayTotals accumulates per-day spend while remembering first-seen order so
// that peak-day ties resolve deterministically.
type dayTotals struct {
	totals map[string]float64
	order  []string
}

func (d *dayTotals) add(day string, amount float64) {
	if _, ok := d.totals[day]; !ok {
		d.order = append(d.order, day)
	}
	d.totals[day] += amount
}

// Aggregate reduces a window of transactions into per-category and per-day
// totals, a headline total, and the peak spending day. The caller is
// responsible for restricting transactions to the window; ordering of the
// input is irrelevant except that category and peak-day output order follows
// first appearance. Budgets are left for the caller to merge in.
//
// Money values are rounded to 2 decimal places at this boundary only;
// accumulation uses full precision.
func Aggregate(transactions []model.Transaction, windowDays int) SpendingStats {
	byCategory := NewCategoryTotals()
	byDay := &dayTotals{totals: make(map[string]float64)}

	var total float64
	for _, txn := range transactions {
		total += txn.Amount
		category := txn.Category
		if category == "" {
			category = model.DefaultCategory
		}
		byCategory.Add(category, txn.Amount)
		byDay.add(txn.Date.Format("2006-01-02"), txn.Amount)
	}

	var avgPerDay float64
	if windowDays > 0 {
		avgPerDay = total / float64(windowDays)
	}

	stats := SpendingStats{
		WindowDays:       windowDays,
		TotalSpent:       round2(total),
		AvgPerDay:        round2(avgPerDay),
		SpendByCategory:  byCategory.Rounded(),
		Budgets:          map[string]float64{},
		TransactionCount: len(transactions),
	}

	// Peak day: highest single-day total, earliest-seen day wins ties.
	var peakDay string
	var peakAmount float64
	for _, day := range byDay.order {
		if amount := byDay.totals[day]; peakDay == "" || amount > peakAmount {
			peakDay, peakAmount = day, amount
		}
	}
	if peakDay != "" {
		parsed, err := time.Parse("2006-01-02", peakDay)
		if err == nil {
			d := ISODate(parsed)
			stats.PeakDay = &d
			stats.PeakDayAmount = round2(peakAmount)
		}
	}

	return stats
}
