// Package analytics derives dashboard, alert, calendar and report figures from the
// repositories. Nothing is cached; every call re-reads the data it needs.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quotebook/quotebook/internal/calendar"
	"github.com/quotebook/quotebook/internal/sales/customers"
	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

// Window lengths in days.
const (
	WeekDays  = 7
	AlertDays = 7
)

// QuotationSource is the read side of the quotation repository.
type QuotationSource interface {
	List(ctx context.Context) ([]quotations.Quotation, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]quotations.Quotation, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

// CustomerSource is the read side of the customer repository.
type CustomerSource interface {
	List(ctx context.Context) ([]customers.Customer, error)
	Count(ctx context.Context) (int, error)
}

// Counter counts rows of an entity.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// NoteSource lists calendar notes in a date range.
type NoteSource interface {
	ListBetween(ctx context.Context, from, to string) ([]calendar.Note, error)
}

// Service computes aggregates.
type Service struct {
	quotes    QuotationSource
	customers CustomerSource
	products  Counter
	notes     NoteSource
	clock     shared.Clock
}

// NewService constructs an aggregation service.
func NewService(quotes QuotationSource, customers CustomerSource, products Counter, notes NoteSource, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Service{quotes: quotes, customers: customers, products: products, notes: notes, clock: clock}
}

type windows struct {
	now        time.Time
	today      string
	weekStart  string
	monthStart string
	monthEnd   string
	alertEnd   string
}

func (s *Service) windows() windows {
	now := s.clock.Now()
	first, last := shared.MonthRange(now)
	return windows{
		now:        now,
		today:      shared.FormatDate(now),
		weekStart:  shared.FormatDate(now.AddDate(0, 0, -WeekDays)),
		monthStart: first,
		monthEnd:   last,
		alertEnd:   shared.FormatDate(now.AddDate(0, 0, AlertDays)),
	}
}

// Dashboard returns entity counts and realized revenue for the last 7 days and the
// current month to date.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	w := s.windows()
	stats := DashboardStats{Today: w.today}

	from := w.weekStart
	if w.monthStart < from {
		from = w.monthStart
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.customers.Count(ctx)
		if err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		stats.CustomersCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.products.Count(ctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		stats.ProductsCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.quotes.Count(ctx)
		if err != nil {
			return fmt.Errorf("count quotations: %w", err)
		}
		stats.QuotesCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.quotes.CountWhere(ctx, store.Equals("status", string(quotations.StatusApproved)))
		if err != nil {
			return fmt.Errorf("count approved quotations: %w", err)
		}
		stats.ApprovedCount = n
		return nil
	})
	g.Go(func() error {
		recent, err := s.quotes.ListWhere(ctx, store.Between("quote_date", from, w.today))
		if err != nil {
			return fmt.Errorf("list recent quotations: %w", err)
		}
		realized := Realized(recent)
		stats.WeeklyRevenue = SumTotals(FilterByDate(realized, w.weekStart, w.today))
		stats.MonthlyRevenue = SumTotals(FilterByDate(realized, w.monthStart, w.today))
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// Alerts lists pending quotations expiring within the next 7 days and customer
// birthdays in the same window, both bounds inclusive, ordered by date.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	w := s.windows()

	var (
		pending []quotations.Quotation
		people  []customers.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = s.quotes.ListWhere(gctx, store.Equals("status", string(quotations.StatusPending)))
		if err != nil {
			return fmt.Errorf("list pending quotations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		people, err = s.customers.List(gctx)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, q := range pending {
		if shared.InRange(q.Validity, w.today, w.alertEnd) {
			alerts = append(alerts, Alert{
				Kind:         AlertQuoteExpiring,
				QuotationID:  q.ID,
				CustomerID:   q.CustomerID,
				CustomerName: q.CustomerName,
				Date:         q.Validity,
			})
		}
	}
	alerts = append(alerts, birthdayAlerts(people, w.now)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Date < alerts[j].Date
	})
	return alerts, nil
}

func birthdayAlerts(people []customers.Customer, now time.Time) []Alert {
	upcoming := make(map[string]string, AlertDays+1)
	for d := 0; d <= AlertDays; d++ {
		day := now.AddDate(0, 0, d)
		date := shared.FormatDate(day)
		upcoming[date[5:]] = date
		// Feb 29 birthdays are celebrated on Feb 28 outside leap years.
		if date[5:] == "02-28" && !isLeap(day.Year()) {
			upcoming["02-29"] = date
		}
	}
	var alerts []Alert
	for _, c := range people {
		if c.Birthday == nil || !shared.ValidDate(*c.Birthday) {
			continue
		}
		if date, ok := upcoming[(*c.Birthday)[5:]]; ok {
			alerts = append(alerts, Alert{
				Kind:         AlertBirthday,
				CustomerID:   c.ID,
				CustomerName: c.Name,
				Date:         date,
			})
		}
	}
	return alerts
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Calendar groups the quotations delivered and the notes written in one month by date.
func (s *Service) Calendar(ctx context.Context, year, month int) (CalendarMonth, error) {
	if month < 1 || month > 12 {
		return CalendarMonth{}, shared.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return CalendarMonth{}, shared.NewValidationError("year", "must be between 1 and 9999")
	}
	from, to := shared.MonthRange(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))

	var (
		deliveries []quotations.Quotation
		notes      []calendar.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deliveries, err = s.quotes.ListWhere(gctx, store.Between("delivery_date", from, to))
		if err != nil {
			return fmt.Errorf("list deliveries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		notes, err = s.notes.ListBetween(gctx, from, to)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return CalendarMonth{}, err
	}

	cm := CalendarMonth{Year: year, Month: month, From: from, To: to, Days: map[string]*CalendarDay{}}
	day := func(date string) *CalendarDay {
		d, ok := cm.Days[date]
		if !ok {
			d = &CalendarDay{Date: date, Quotations: []quotations.Quotation{}}
			cm.Days[date] = d
		}
		return d
	}
	for _, q := range deliveries {
		if q.DeliveryDate == nil {
			continue
		}
		d := day(*q.DeliveryDate)
		d.Quotations = append(d.Quotations, q)
	}
	for i := range notes {
		day(notes[i].Date).Note = &notes[i]
	}
	return cm, nil
}

// Report summarises the current calendar month: realized revenue, average ticket,
// conversion rate, best selling products and the status distribution of all quotes.
func (s *Service) Report(ctx context.Context) (Report, error) {
	w := s.windows()
	all, err := s.quotes.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list quotations: %w", err)
	}

	month := FilterByDate(all, w.monthStart, w.monthEnd)
	realized := Realized(month)
	revenue := SumTotals(realized)

	return Report{
		From:               w.monthStart,
		To:                 w.monthEnd,
		MonthQuotes:        len(month),
		RealizedCount:      len(realized),
		MonthlyRevenue:     revenue,
		WeeklyRevenue:      SumTotals(FilterByDate(Realized(all), w.weekStart, w.today)),
		AverageTicket:      AverageTicket(revenue, len(realized)),
		ConversionRate:     Percentage(len(realized), len(month)),
		TopProducts:        TopProducts(realized, TopProductsLimit),
		StatusDistribution: StatusDistribution(all),
	}, nil
}
