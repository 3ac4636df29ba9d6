package quotations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebook/quotebook/internal/masterdata/products"
	"github.com/quotebook/quotebook/internal/sales/customers"
	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

type mockRepository struct {
	quotes map[int64]Quotation
	nextID int64

	addError    error
	updateError error
	adds        int
}

func newMockRepository() *mockRepository {
	return &mockRepository{quotes: make(map[int64]Quotation), nextID: 1}
}

func (m *mockRepository) Add(ctx context.Context, q Quotation) (int64, error) {
	if m.addError != nil {
		return 0, m.addError
	}
	m.adds++
	q.ID = m.nextID
	m.nextID++
	m.quotes[q.ID] = q
	return q.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, patch Patch) error {
	if m.updateError != nil {
		return m.updateError
	}
	q, ok := m.quotes[id]
	if !ok {
		return fmt.Errorf("quotations %d: %w", id, shared.ErrNotFound)
	}
	q.Apply(patch)
	m.quotes[id] = q
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	delete(m.quotes, id)
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, fmt.Errorf("quotations %d: %w", id, shared.ErrNotFound)
	}
	q.Items = append([]Item(nil), q.Items...)
	return &q, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Quotation, error) {
	var out []Quotation
	for id := int64(1); id < m.nextID; id++ {
		if q, ok := m.quotes[id]; ok {
			out = append(out, q)
		}
	}
	SortNewestFirst(out)
	return out, nil
}

func (m *mockRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Quotation, error) {
	if err := pred.Validate(store.Default, store.TableQuotations); err != nil {
		return nil, err
	}
	all, _ := m.List(ctx)
	var out []Quotation
	for _, q := range all {
		var v any
		switch pred.Field {
		case "id":
			v = q.ID
		case "customer_id":
			v = q.CustomerID
		case "quote_date":
			v = q.Date
		case "status":
			v = string(q.Status)
		case "delivery_date":
			if q.DeliveryDate != nil {
				v = *q.DeliveryDate
			}
		}
		if pred.Match(v) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) { return len(m.quotes), nil }

func (m *mockRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	out, err := m.ListWhere(ctx, pred)
	return len(out), err
}

type stubCustomers map[int64]customers.Customer

func (s stubCustomers) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	c, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("customers %d: %w", id, shared.ErrNotFound)
	}
	return &c, nil
}

type stubCatalog map[int64]products.Product

func (s stubCatalog) Get(ctx context.Context, id int64) (*products.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("products %d: %w", id, shared.ErrNotFound)
	}
	return &p, nil
}

type stubPrefs struct {
	observations string
	rate         decimal.Decimal
	err          error
}

func (s stubPrefs) DefaultObservations(ctx context.Context) (string, error) {
	return s.observations, s.err
}

func (s stubPrefs) ShippingRatePerKm(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

var today = time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepository) *Service {
	return NewService(
		repo,
		stubCustomers{1: {ID: 1, Name: "Ana", Phone: "11999990000"}, 2: {ID: 2, Name: "Bia", Phone: "2"}},
		stubCatalog{10: {ID: 10, Name: "Bolo", Price: d("50"), Unit: "un", Active: true}},
		stubPrefs{observations: "Orçamento válido por 7 dias.", rate: d("2")},
		shared.FixedClock(today),
	)
}

func TestDraftDefaults(t *testing.T) {
	svc := newTestService(newMockRepository())
	draft, err := svc.Draft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", draft.Date)
	assert.Equal(t, "2025-01-15", draft.Validity)
	assert.Equal(t, StatusPending, draft.Status)
	assert.Equal(t, "Orçamento válido por 7 dias.", draft.Observations)
	assert.True(t, draft.Total.IsZero())
}

func TestDraftWithoutSettings(t *testing.T) {
	svc := NewService(newMockRepository(), stubCustomers{}, stubCatalog{}, stubPrefs{err: shared.ErrNotFound}, shared.FixedClock(today))
	draft, err := svc.Draft(context.Background())
	require.NoError(t, err)
	assert.Empty(t, draft.Observations)
}

func TestSaveRequiresCustomer(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), Quotation{}, SaveOptions{})
	var vErr *shared.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "customer required", vErr.Message)
	assert.Zero(t, repo.adds)
}

func TestSaveRequiresItemsInEditorFlow(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), Quotation{CustomerID: 1}, SaveOptions{RequireItems: true})
	var vErr *shared.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "items required", vErr.Message)
	assert.Zero(t, repo.adds)

	saved, err := svc.Save(context.Background(), Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
}

func TestSaveSnapshotsCustomerNameAndRecomputes(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	q := Quotation{
		CustomerID: 1,
		Items:      []Item{{Name: "Bolo", Quantity: d("3"), UnitPrice: d("50"), Subtotal: d("1"), Unit: "un"}},
		Discount:   d("10"),
		Total:      d("999"),
	}
	saved, err := svc.Save(context.Background(), q, SaveOptions{RequireItems: true})
	require.NoError(t, err)
	assert.Equal(t, "Ana", saved.CustomerName)
	assert.Equal(t, "2025-01-08", saved.Date)
	assert.Equal(t, "2025-01-15", saved.Validity)
	assert.Equal(t, StatusPending, saved.Status)
	assert.True(t, saved.Items[0].Subtotal.Equal(d("150")))
	assert.True(t, saved.Total.Equal(d("140")), saved.Total.String())
}

func TestSaveKeepsNameSnapshotAfterRename(t *testing.T) {
	repo := newMockRepository()
	dir := stubCustomers{1: {ID: 1, Name: "Ana"}}
	svc := NewService(repo, dir, stubCatalog{}, nil, shared.FixedClock(today))

	saved, err := svc.Save(context.Background(), Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)
	dir[1] = customers.Customer{ID: 1, Name: "Ana Paula"}

	again, err := svc.Save(context.Background(), *saved, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.CustomerName)
}

func TestSaveUpdatesExisting(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	saved, err := svc.Save(context.Background(), Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)

	saved.Observations = "Entrega no sábado"
	updated, err := svc.Save(context.Background(), *saved, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Entrega no sábado", updated.Observations)
	assert.Equal(t, 1, repo.adds)

	_, err = svc.Save(context.Background(), Quotation{ID: 77, CustomerID: 1}, SaveOptions{})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc := newTestService(newMockRepository())
	ctx := context.Background()
	cases := []Quotation{
		{CustomerID: 1, Date: "08/01/2025"},
		{CustomerID: 1, Status: "Arquivado"},
		{CustomerID: 1, Discount: d("-1")},
		{CustomerID: 1, Items: []Item{{Name: "Bolo", Quantity: d("0"), UnitPrice: d("1")}}},
		{CustomerID: 99},
	}
	for i, q := range cases {
		_, err := svc.Save(ctx, q, SaveOptions{})
		assert.True(t, errors.Is(err, shared.ErrValidation), "case %d: %v", i, err)
	}
}

func TestSavePropagatesStorageFailure(t *testing.T) {
	repo := newMockRepository()
	repo.addError = &shared.IOError{Op: "add quotation", Err: errors.New("serialization")}
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), Quotation{CustomerID: 1}, SaveOptions{})
	assert.True(t, errors.Is(err, shared.ErrIO))
	assert.Empty(t, repo.quotes)
}

func TestPersistedItemEditing(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	saved, err := svc.Save(ctx, Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)

	q, err := svc.AddProduct(ctx, saved.ID, 10)
	require.NoError(t, err)
	require.Len(t, q.Items, 1)

	q, err = svc.UpdateItem(ctx, saved.ID, 0, ItemPatch{Quantity: dp("3")})
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(d("150")))

	q, err = svc.SetShippingDistance(ctx, saved.ID, d("5"))
	require.NoError(t, err)
	assert.True(t, q.ShippingFee.Equal(d("10")))
	assert.True(t, q.Total.Equal(d("160")))

	q, err = svc.RemoveItem(ctx, saved.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, q.Items)
	assert.True(t, q.Total.Equal(d("10")))

	_, err = svc.AddProduct(ctx, saved.ID, 404)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdateRecomputesAndResnapshots(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	saved, err := svc.Save(ctx, Quotation{
		CustomerID: 1,
		Items:      []Item{{Name: "Bolo", Quantity: d("2"), UnitPrice: d("50"), Unit: "un"}},
	}, SaveOptions{})
	require.NoError(t, err)

	bia := int64(2)
	fee := d("15")
	updated, err := svc.Update(ctx, saved.ID, Patch{CustomerID: &bia, ShippingFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, "Bia", updated.CustomerName)
	assert.True(t, updated.Total.Equal(d("115")))
}

func TestUpdateStatusAcceptsAnyKnownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	saved, err := svc.Save(ctx, Quotation{CustomerID: 1, Status: StatusDelivered}, SaveOptions{})
	require.NoError(t, err)

	q, err := svc.UpdateStatus(ctx, saved.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, q.Status)

	_, err = svc.UpdateStatus(ctx, saved.ID, "Arquivado")
	assert.True(t, errors.Is(err, shared.ErrValidation))
	_, err = svc.UpdateStatus(ctx, 500, StatusApproved)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestListRecent(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	for _, q := range []Quotation{
		{CustomerID: 1, Date: "2025-01-02"},
		{CustomerID: 2, Date: "2025-01-05", Status: StatusApproved},
		{CustomerID: 1, Date: "2025-01-05"},
	} {
		_, err := svc.Save(ctx, q, SaveOptions{})
		require.NoError(t, err)
	}

	all, err := svc.ListRecent(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID})

	approved, err := svc.ListRecent(ctx, Filter{Status: StatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Bia", approved[0].CustomerName)

	byName, err := svc.ListRecent(ctx, Filter{Search: "ANA"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byID, err := svc.ListRecent(ctx, Filter{Search: "#2"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, int64(2), byID[0].ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := newTestService(newMockRepository())
	require.NoError(t, svc.Delete(context.Background(), 3))
	require.NoError(t, svc.Delete(context.Background(), 3))
}

func TestClearingDeliveryDate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	date := "2025-01-20"
	saved, err := svc.Save(ctx, Quotation{CustomerID: 1, DeliveryDate: &date}, SaveOptions{})
	require.NoError(t, err)
	require.NotNil(t, saved.DeliveryDate)

	empty := ""
	updated, err := svc.Update(ctx, saved.ID, Patch{DeliveryDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.DeliveryDate)

	inRange, err := svc.ListWhere(ctx, store.Between("delivery_date", "2025-01-01", "2025-01-31"))
	require.NoError(t, err)
	assert.Empty(t, inRange)

	_, err = svc.Save(ctx, Quotation{ID: saved.ID, CustomerID: 1, DeliveryDate: &date}, SaveOptions{})
	require.NoError(t, err)
	resaved, err := svc.Save(ctx, Quotation{ID: saved.ID, CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)
	assert.Nil(t, resaved.DeliveryDate)
	assert.Nil(t, repo.quotes[saved.ID].DeliveryDate)

	bad := "20/01/2025"
	_, err = svc.Update(ctx, saved.ID, Patch{DeliveryDate: &bad})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestFeeOnlyUpdateDropsShippingDistance(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	saved, err := svc.Save(ctx, Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)

	q, err := svc.SetShippingDistance(ctx, saved.ID, d("10"))
	require.NoError(t, err)
	require.NotNil(t, q.ShippingDistance)

	fee := d("5")
	q, err = svc.Update(ctx, saved.ID, Patch{ShippingFee: &fee})
	require.NoError(t, err)
	assert.True(t, q.ShippingFee.Equal(d("5")))
	assert.Nil(t, q.ShippingDistance)
	assert.True(t, q.Total.Equal(d("5")))
}

func TestSaveClearsShippingDistance(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	saved, err := svc.Save(ctx, Quotation{CustomerID: 1}, SaveOptions{})
	require.NoError(t, err)
	_, err = svc.SetShippingDistance(ctx, saved.ID, d("10"))
	require.NoError(t, err)

	q, err := svc.Save(ctx, Quotation{ID: saved.ID, CustomerID: 1, ShippingFee: d("7")}, SaveOptions{})
	require.NoError(t, err)
	assert.Nil(t, q.ShippingDistance)
	assert.True(t, q.ShippingFee.Equal(d("7")))
}
