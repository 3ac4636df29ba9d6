package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/calendar"
	"github.com/quotebook/quotebook/internal/sales/quotations"
)

// DashboardStats is the summary shown on the home screen.
type DashboardStats struct {
	Today          string          `json:"today"`
	CustomersCount int             `json:"customersCount"`
	ProductsCount  int             `json:"productsCount"`
	QuotesCount    int             `json:"quotesCount"`
	ApprovedCount  int             `json:"approvedCount"`
	WeeklyRevenue  decimal.Decimal `json:"weeklyRevenue"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
}

// AlertKind classifies an alert.
type AlertKind string

const (
	AlertQuoteExpiring AlertKind = "quote"
	AlertBirthday      AlertKind = "birthday"
)

// Alert is an upcoming event within the alert window.
type Alert struct {
	Kind         AlertKind `json:"kind"`
	QuotationID  int64     `json:"quotationId,omitempty"`
	CustomerID   int64     `json:"customerId,omitempty"`
	CustomerName string    `json:"customerName"`
	Date         string    `json:"date"`
}

// CalendarDay holds everything scheduled on one date.
type CalendarDay struct {
	Date       string                 `json:"date"`
	Quotations []quotations.Quotation `json:"quotations"`
	Note       *calendar.Note         `json:"note,omitempty"`
}

// CalendarMonth groups deliveries and notes of one month by exact date. Days without
// either are absent from Days.
type CalendarMonth struct {
	Year  int                     `json:"year"`
	Month int                     `json:"month"`
	From  string                  `json:"from"`
	To    string                  `json:"to"`
	Days  map[string]*CalendarDay `json:"days"`
}

// ProductRanking is a product name with the quantity sold.
type ProductRanking struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// StatusShare is the count and percentage of quotations in one status.
type StatusShare struct {
	Status     quotations.Status `json:"status"`
	Count      int               `json:"count"`
	Percentage decimal.Decimal   `json:"percentage"`
}

// Report is the monthly performance summary.
type Report struct {
	From               string           `json:"from"`
	To                 string           `json:"to"`
	MonthQuotes        int              `json:"monthQuotes"`
	RealizedCount      int              `json:"realizedCount"`
	MonthlyRevenue     decimal.Decimal  `json:"monthlyRevenue"`
	WeeklyRevenue      decimal.Decimal  `json:"weeklyRevenue"`
	AverageTicket      decimal.Decimal  `json:"averageTicket"`
	ConversionRate     decimal.Decimal  `json:"conversionRate"`
	TopProducts        []ProductRanking `json:"topProducts"`
	StatusDistribution []StatusShare    `json:"statusDistribution"`
}
