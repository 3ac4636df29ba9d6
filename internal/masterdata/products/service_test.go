package products

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdshared "github.com/quotebook/quotebook/internal/masterdata/shared"
	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

type mockRepository struct {
	products map[int64]Product
	nextID   int64

	updateError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[int64]Product), nextID: 1}
}

func (m *mockRepository) Add(ctx context.Context, p Product) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, patch Patch) error {
	if m.updateError != nil {
		return m.updateError
	}
	p, ok := m.products[id]
	if !ok {
		return fmt.Errorf("products %d: %w", id, shared.ErrNotFound)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CostPrice != nil {
		p.CostPrice = patch.CostPrice
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	if patch.CategoryID != nil {
		p.CategoryID = patch.CategoryID
	}
	m.products[id] = p
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	delete(m.products, id)
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("products %d: %w", id, shared.ErrNotFound)
	}
	return &p, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Product, error) {
	var out []Product
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Product, error) {
	if err := pred.Validate(store.Default, store.TableProducts); err != nil {
		return nil, err
	}
	all, _ := m.List(ctx)
	var out []Product
	for _, p := range all {
		var v any
		switch pred.Field {
		case "id":
			v = p.ID
		case "name":
			v = p.Name
		case "active":
			v = p.Active
		case "category_id":
			v = p.CategoryID
		}
		if pred.Match(v) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) { return len(m.products), nil }

func (m *mockRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	out, err := m.ListWhere(ctx, pred)
	return len(out), err
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestAddDefaults(t *testing.T) {
	svc := NewService(newMockRepository())
	p, err := svc.Add(context.Background(), CreateRequest{Name: "Bolo", Price: dec("50")})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Equal(t, mdshared.DefaultUnit, p.Unit)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(50)))
}

func TestAddValidation(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, CreateRequest{Price: dec("1")})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.Add(ctx, CreateRequest{Name: "Bolo"})
	var vErr *shared.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "price", vErr.Field)

	_, err = svc.Add(ctx, CreateRequest{Name: "Bolo", Price: dec("-1")})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.Add(ctx, CreateRequest{Name: "Bolo", Price: dec("1"), CostPrice: dec("-0.5")})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "costPrice", vErr.Field)
}

func TestMargin(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(50), CostPrice: dec("20")}
	m, ok := p.Margin()
	require.True(t, ok)
	assert.True(t, m.Equal(decimal.RequireFromString("0.6")), m.String())

	_, ok = Product{Price: decimal.NewFromInt(50)}.Margin()
	assert.False(t, ok)
	_, ok = Product{Price: decimal.NewFromInt(50), CostPrice: dec("0")}.Margin()
	assert.False(t, ok)
}

func TestCategoryLabelToleratesDanglingID(t *testing.T) {
	names := map[int64]string{1: "Bolos"}
	one, seven := int64(1), int64(7)

	assert.Equal(t, "Bolos", Product{CategoryID: &one}.CategoryLabel(names))
	assert.Equal(t, mdshared.Uncategorized, Product{CategoryID: &seven}.CategoryLabel(names))
	assert.Equal(t, mdshared.Uncategorized, Product{}.CategoryLabel(names))
}

func TestToggleActiveAndListActive(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	bolo, err := svc.Add(ctx, CreateRequest{Name: "Bolo", Price: dec("50")})
	require.NoError(t, err)
	_, err = svc.Add(ctx, CreateRequest{Name: "Torta", Price: dec("80")})
	require.NoError(t, err)

	toggled, err := svc.ToggleActive(ctx, bolo.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Torta", active[0].Name)

	_, err = svc.ToggleActive(ctx, 99)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestToggleActivePropagatesWriteFailure(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	p, err := svc.Add(context.Background(), CreateRequest{Name: "Bolo", Price: dec("50")})
	require.NoError(t, err)

	repo.updateError = &shared.IOError{Op: "update products", Err: errors.New("quota")}
	_, err = svc.ToggleActive(context.Background(), p.ID)
	assert.True(t, errors.Is(err, shared.ErrIO))
	assert.True(t, repo.products[p.ID].Active)
}

func TestSearch(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	_, err := svc.Add(ctx, CreateRequest{Name: "Pão de Mel", Price: dec("5")})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Add(ctx, CreateRequest{Name: "Pão Francês", Price: dec("1"), Active: &inactive})
	require.NoError(t, err)

	found, err := svc.Search(ctx, "pao", false)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.Search(ctx, "PAO", true)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pão de Mel", found[0].Name)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := NewService(newMockRepository())
	require.NoError(t, svc.Delete(context.Background(), 5))
	require.NoError(t, svc.Delete(context.Background(), 5))
}
