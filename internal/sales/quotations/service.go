package quotations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/masterdata/products"
	"github.com/quotebook/quotebook/internal/sales/customers"
	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

// DefaultValidityDays is how long a new quote stays valid.
const DefaultValidityDays = 7

// CustomerDirectory resolves the customer a quote is addressed to.
type CustomerDirectory interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// Catalog resolves products added to a quote.
type Catalog interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

// Preferences supplies company defaults used by the editor.
type Preferences interface {
	DefaultObservations(ctx context.Context) (string, error)
	ShippingRatePerKm(ctx context.Context) (decimal.Decimal, error)
}

// SaveOptions tunes Save. RequireItems is set by the editor flow.
type SaveOptions struct {
	RequireItems bool
}

// Filter narrows ListRecent.
type Filter struct {
	Status Status
	Search string
}

// Service implements the quote lifecycle.
type Service struct {
	repo      Repository
	customers CustomerDirectory
	catalog   Catalog
	prefs     Preferences
	clock     shared.Clock
	validate  *validator.Validate
}

// NewService constructs a quotation service.
func NewService(repo Repository, customers CustomerDirectory, catalog Catalog, prefs Preferences, clock shared.Clock) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		catalog:   catalog,
		prefs:     prefs,
		clock:     clock,
		validate:  shared.NewValidator(),
	}
}

// Draft returns an unsaved quote dated today with the default validity and observations.
func (s *Service) Draft(ctx context.Context) (*Quotation, error) {
	today := shared.Today(s.clock)
	validity, err := shared.AddDays(today, DefaultValidityDays)
	if err != nil {
		return nil, err
	}
	q := &Quotation{
		Date:     today,
		Validity: validity,
		Items:    []Item{},
		Status:   StatusPending,
	}
	if s.prefs != nil {
		obs, err := s.prefs.DefaultObservations(ctx)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		q.Observations = obs
	}
	q.Recompute()
	return q, nil
}

// Save inserts q when it has no id and updates it otherwise. Totals are always
// recomputed from the items before writing.
func (s *Service) Save(ctx context.Context, q Quotation, opts SaveOptions) (*Quotation, error) {
	if q.CustomerID <= 0 {
		return nil, shared.NewValidationError("customerId", "customer required")
	}
	if opts.RequireItems && len(q.Items) == 0 {
		return nil, shared.NewValidationError("items", "items required")
	}
	if err := s.normalize(&q); err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.CustomerName) == "" {
		if err := s.snapshotCustomer(ctx, &q); err != nil {
			return nil, err
		}
	}
	q.Recompute()

	id := q.ID
	if id == 0 {
		newID, err := s.repo.Add(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("create quotation: %w", err)
		}
		id = newID
	} else if err := s.repo.Update(ctx, id, FullPatch(q)); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) snapshotCustomer(ctx context.Context, q *Quotation) error {
	c, err := s.customers.Get(ctx, q.CustomerID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("customerId", "customer not found")
	}
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	q.CustomerName = c.Name
	return nil
}

func (s *Service) normalize(q *Quotation) error {
	if q.Date == "" {
		q.Date = shared.Today(s.clock)
	}
	if !shared.ValidDate(q.Date) {
		return shared.NewValidationError("date", "must be a date in YYYY-MM-DD form")
	}
	if q.Validity == "" {
		validity, err := shared.AddDays(q.Date, DefaultValidityDays)
		if err != nil {
			return err
		}
		q.Validity = validity
	}
	if !shared.ValidDate(q.Validity) {
		return shared.NewValidationError("validity", "must be a date in YYYY-MM-DD form")
	}
	if q.DeliveryDate != nil {
		if *q.DeliveryDate == "" {
			q.DeliveryDate = nil
		} else if !shared.ValidDate(*q.DeliveryDate) {
			return shared.NewValidationError("deliveryDate", "must be a date in YYYY-MM-DD form")
		}
	}
	if q.Status == "" {
		q.Status = StatusPending
	}
	if !q.Status.Valid() {
		return shared.NewValidationError("status", "unknown status "+strconv.Quote(string(q.Status)))
	}
	if q.Discount.IsNegative() {
		return shared.NewValidationError("discount", "must be greater than or equal to 0")
	}
	if q.ShippingFee.IsNegative() {
		return shared.NewValidationError("shippingFee", "must be greater than or equal to 0")
	}
	if q.Items == nil {
		q.Items = []Item{}
	}
	for i, item := range q.Items {
		if strings.TrimSpace(item.Name) == "" {
			return shared.NewValidationError(fmt.Sprintf("items[%d].name", i), "is required")
		}
		if !item.Quantity.IsPositive() {
			return shared.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("items[%d].unitPrice", i), "must be greater than or equal to 0")
		}
	}
	return nil
}

// Update merges patch into quote id. Totals are recomputed when items, discount
// or shipping fee change.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Quotation, error) {
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	patch.Total = nil
	return s.mutate(ctx, id, func(q *Quotation) error {
		q.Apply(patch)
		if q.CustomerID <= 0 {
			return shared.NewValidationError("customerId", "customer required")
		}
		if patch.CustomerID != nil && patch.CustomerName == nil {
			if err := s.snapshotCustomer(ctx, q); err != nil {
				return err
			}
		}
		return s.normalize(q)
	})
}

// UpdateStatus sets the status without consulting any transition policy.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Quotation, error) {
	if !status.Valid() {
		return nil, shared.NewValidationError("status", "unknown status "+strconv.Quote(string(status)))
	}
	if err := s.repo.Update(ctx, id, Patch{Status: &status}); err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// AddProduct appends one unit of a catalog product to quote id.
func (s *Service) AddProduct(ctx context.Context, id, productID int64) (*Quotation, error) {
	p, err := s.catalog.Get(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("productId", "product not found")
	}
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(q *Quotation) error {
		q.AddItem(*p)
		return nil
	})
}

// UpdateItem edits line index of quote id.
func (s *Service) UpdateItem(ctx context.Context, id int64, index int, patch ItemPatch) (*Quotation, error) {
	return s.mutate(ctx, id, func(q *Quotation) error {
		return q.UpdateItem(index, patch)
	})
}

// RemoveItem drops line index of quote id.
func (s *Service) RemoveItem(ctx context.Context, id int64, index int) (*Quotation, error) {
	return s.mutate(ctx, id, func(q *Quotation) error {
		return q.RemoveItem(index)
	})
}

// SetShippingDistance derives the shipping fee of quote id from the configured per-km rate.
func (s *Service) SetShippingDistance(ctx context.Context, id int64, km decimal.Decimal) (*Quotation, error) {
	if s.prefs == nil {
		return nil, shared.NewValidationError("shippingRatePerKm", "is not configured")
	}
	rate, err := s.prefs.ShippingRatePerKm(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(q *Quotation) error {
		return q.SetShippingDistance(km, rate)
	})
}

func (s *Service) mutate(ctx context.Context, id int64, fn func(*Quotation) error) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	q.Recompute()
	if err := s.repo.Update(ctx, id, FullPatch(*q)); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Quotation, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListWhere(ctx context.Context, pred store.Predicate) ([]Quotation, error) {
	return s.repo.ListWhere(ctx, pred)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return s.repo.CountWhere(ctx, pred)
}

// ListRecent returns quotes newest first, optionally narrowed by status and by a
// search term matched against the customer name or the quote number.
func (s *Service) ListRecent(ctx context.Context, f Filter) ([]Quotation, error) {
	var (
		list []Quotation
		err  error
	)
	if f.Status != "" {
		list, err = s.repo.ListWhere(ctx, store.Equals("status", string(f.Status)))
	} else {
		list, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	term := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(f.Search), "#"))
	out := make([]Quotation, 0, len(list))
	for _, q := range list {
		if term == "" || shared.MatchesFold(q.CustomerName, term) || strings.Contains(strconv.FormatInt(q.ID, 10), term) {
			out = append(out, q)
		}
	}
	SortNewestFirst(out)
	return out, nil
}
