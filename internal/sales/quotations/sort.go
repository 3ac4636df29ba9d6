package quotations

import "sort"

// SortNewestFirst orders by date descending, then by id descending.
func SortNewestFirst(list []Quotation) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].ID > list[j].ID
	})
}
