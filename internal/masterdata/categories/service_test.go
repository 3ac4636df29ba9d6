package categories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

type memRepository struct {
	rows   map[int64]Category
	nextID int64
}

func newMemRepository() *memRepository {
	return &memRepository{rows: make(map[int64]Category), nextID: 1}
}

func (m *memRepository) Add(ctx context.Context, c Category) (int64, error) {
	c.ID = m.nextID
	m.nextID++
	m.rows[c.ID] = c
	return c.ID, nil
}

func (m *memRepository) Update(ctx context.Context, id int64, patch Patch) error {
	c, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("categories %d: %w", id, shared.ErrNotFound)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	m.rows[id] = c
	return nil
}

func (m *memRepository) Delete(ctx context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memRepository) Get(ctx context.Context, id int64) (*Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("categories %d: %w", id, shared.ErrNotFound)
	}
	return &c, nil
}

func (m *memRepository) List(ctx context.Context) ([]Category, error) {
	var out []Category
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Category, error) {
	if err := pred.Validate(store.Default, store.TableCategories); err != nil {
		return nil, err
	}
	all, _ := m.List(ctx)
	var out []Category
	for _, c := range all {
		v := any(c.Name)
		if pred.Field == "id" {
			v = c.ID
		}
		if pred.Match(v) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepository) Count(ctx context.Context) (int, error) { return len(m.rows), nil }

func (m *memRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	out, err := m.ListWhere(ctx, pred)
	return len(out), err
}

func TestAddRequiresName(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Add(context.Background(), Category{Name: " "})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestDuplicateNamesAllowed(t *testing.T) {
	svc := NewService(newMemRepository())
	ctx := context.Background()
	_, err := svc.Add(ctx, Category{Name: "Doces"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, Category{Name: "Doces"})
	require.NoError(t, err)

	same, err := svc.ListWhere(ctx, store.Equals("name", "Doces"))
	require.NoError(t, err)
	assert.Len(t, same, 2)
}

func TestNames(t *testing.T) {
	svc := NewService(newMemRepository())
	ctx := context.Background()
	c, err := svc.Add(ctx, Category{Name: "Bolos"})
	require.NoError(t, err)

	names, err := svc.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{c.ID: "Bolos"}, names)
}

func newTestRouter() (*chi.Mux, *memRepository) {
	repo := newMemRepository()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, repo
}

func TestHandlerCreateAndDelete(t *testing.T) {
	router, repo := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Salgados"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Salgados"`)
	require.Len(t, repo.rows, 1)

	for i := 0; i < 2; i++ {
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/categories/1", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
	assert.Empty(t, repo.rows)
}

func TestHandlerMapsErrors(t *testing.T) {
	router, _ := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":""}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories/9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/categories/9", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
