package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/sales/quotations"
)

// TopProductsLimit is how many products a report ranks.
const TopProductsLimit = 5

var hundred = decimal.NewFromInt(100)

// IsRealized reports whether q counts as revenue.
func IsRealized(q quotations.Quotation) bool {
	return q.Status.Realized()
}

// Realized returns the realized subset of quotes, preserving order.
func Realized(quotes []quotations.Quotation) []quotations.Quotation {
	var out []quotations.Quotation
	for _, q := range quotes {
		if IsRealized(q) {
			out = append(out, q)
		}
	}
	return out
}

// SumTotals adds the totals of quotes.
func SumTotals(quotes []quotations.Quotation) decimal.Decimal {
	sum := decimal.Zero
	for _, q := range quotes {
		sum = sum.Add(q.Total)
	}
	return sum
}

// AverageTicket is revenue divided by count, zero when count is zero.
func AverageTicket(revenue decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(int64(count))).Round(2)
}

// Percentage is part over whole times 100, zero when whole is zero.
func Percentage(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(2)
}

// TopProducts sums item quantities by name over quotes, sorts by quantity descending
// and keeps the first limit entries. Ties keep the order names were first seen.
func TopProducts(quotes []quotations.Quotation, limit int) []ProductRanking {
	index := map[string]int{}
	var ranking []ProductRanking
	for _, q := range quotes {
		for _, item := range q.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(ranking)
				index[item.Name] = i
				ranking = append(ranking, ProductRanking{Name: item.Name, Quantity: decimal.Zero})
			}
			ranking[i].Quantity = ranking[i].Quantity.Add(item.Quantity)
		}
	}
	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].Quantity.GreaterThan(ranking[b].Quantity)
	})
	if limit >= 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// StatusDistribution counts quotes per status. Every known status is listed in
// lifecycle order; unknown statuses follow in first-seen order.
func StatusDistribution(quotes []quotations.Quotation) []StatusShare {
	counts := map[quotations.Status]int{}
	var extra []quotations.Status
	for _, q := range quotes {
		if _, seen := counts[q.Status]; !seen && !q.Status.Valid() {
			extra = append(extra, q.Status)
		}
		counts[q.Status]++
	}
	order := append(append([]quotations.Status(nil), quotations.Statuses...), extra...)
	shares := make([]StatusShare, 0, len(order))
	for _, status := range order {
		shares = append(shares, StatusShare{
			Status:     status,
			Count:      counts[status],
			Percentage: Percentage(counts[status], len(quotes)),
		})
	}
	return shares
}

// FilterByDate keeps quotes whose date lies in [from, to].
func FilterByDate(quotes []quotations.Quotation, from, to string) []quotations.Quotation {
	var out []quotations.Quotation
	for _, q := range quotes {
		if q.Date >= from && q.Date <= to {
			out = append(out, q)
		}
	}
	return out
}
