// Package export renders reports as CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/quotebook/quotebook/internal/analytics"
)

// WriteReportCSV writes the summary, top products and status distribution as
// three blocks separated by blank lines.
func WriteReportCSV(w io.Writer, report analytics.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.WriteAll(summaryRows(report)); err != nil {
		return err
	}
	if err := writer.Write(nil); err != nil {
		return err
	}
	if err := writer.WriteAll(topProductRows(report)); err != nil {
		return err
	}
	if err := writer.Write(nil); err != nil {
		return err
	}
	if err := writer.WriteAll(statusRows(report)); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func summaryRows(report analytics.Report) [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"From", report.From},
		{"To", report.To},
		{"Quotes This Month", strconv.Itoa(report.MonthQuotes)},
		{"Realized Quotes", strconv.Itoa(report.RealizedCount)},
		{"Monthly Revenue", report.MonthlyRevenue.StringFixed(2)},
		{"Weekly Revenue", report.WeeklyRevenue.StringFixed(2)},
		{"Average Ticket", report.AverageTicket.StringFixed(2)},
		{"Conversion Rate (%)", report.ConversionRate.StringFixed(2)},
	}
}

func topProductRows(report analytics.Report) [][]string {
	rows := [][]string{{"Product", "Quantity"}}
	for _, p := range report.TopProducts {
		rows = append(rows, []string{p.Name, p.Quantity.String()})
	}
	return rows
}

func statusRows(report analytics.Report) [][]string {
	rows := [][]string{{"Status", "Count", "Percentage"}}
	for _, s := range report.StatusDistribution {
		rows = append(rows, []string{string(s.Status), strconv.Itoa(s.Count), s.Percentage.StringFixed(2)})
	}
	return rows
}
