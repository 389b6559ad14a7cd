package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konamall/storefront/internal/domain"
)

type fakeCatalog struct {
	list    domain.ProductList
	listErr error
	product *domain.Product
	getErr  error

	listCalls int
	getCalls  int
}

func (f *fakeCatalog) ListProducts(ctx context.Context, _ domain.ProductFilter) (domain.ProductList, error) {
	f.listCalls++
	return f.list, f.listErr
}

func (f *fakeCatalog) GetProduct(ctx context.Context, _ int64) (*domain.Product, error) {
	f.getCalls++
	return f.product, f.getErr
}

func (f *fakeCatalog) List(ctx context.Context, _ domain.ProductFilter) (domain.ProductList, error) {
	f.listCalls++
	return f.list, f.listErr
}

func (f *fakeCatalog) Get(ctx context.Context, _ int64) (*domain.Product, error) {
	f.getCalls++
	return f.product, f.getErr
}

type fixedProbe bool

func (p fixedProbe) Available(ctx context.Context) bool { return bool(p) }

func TestProductListSourceSelection(t *testing.T) {
	backendList := domain.ProductList{Items: []domain.Product{{ID: 1, Title: "from backend"}}, Total: 1}
	fallbackList := domain.ProductList{Items: []domain.Product{{ID: 2, Title: "from demo"}}, Total: 1}

	t.Run("backend when probe says available", func(t *testing.T) {
		uc := &ProductUC{
			Backend:  &fakeCatalog{list: backendList},
			Fallback: &fakeCatalog{list: fallbackList},
			Probe:    fixedProbe(true),
		}
		got, err := uc.List(context.Background(), domain.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, "from backend", got.Items[0].Title)
	})

	t.Run("fallback when probe says unavailable", func(t *testing.T) {
		backend := &fakeCatalog{list: backendList}
		uc := &ProductUC{Backend: backend, Fallback: &fakeCatalog{list: fallbackList}, Probe: fixedProbe(false)}
		got, err := uc.List(context.Background(), domain.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, "from demo", got.Items[0].Title)
		assert.Equal(t, 0, backend.listCalls)
	})

	t.Run("backend error degrades to fallback", func(t *testing.T) {
		uc := &ProductUC{
			Backend:  &fakeCatalog{listErr: errors.New("boom")},
			Fallback: &fakeCatalog{list: fallbackList},
			Probe:    fixedProbe(true),
		}
		got, err := uc.List(context.Background(), domain.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, "from demo", got.Items[0].Title)
	})

	t.Run("empty backend result degrades to fallback", func(t *testing.T) {
		uc := &ProductUC{
			Backend:  &fakeCatalog{},
			Fallback: &fakeCatalog{list: fallbackList},
			Probe:    fixedProbe(true),
		}
		got, err := uc.List(context.Background(), domain.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, "from demo", got.Items[0].Title)
	})
}

func TestProductGet(t *testing.T) {
	t.Run("backend not-found is final", func(t *testing.T) {
		fallback := &fakeCatalog{product: &domain.Product{ID: 1}}
		uc := &ProductUC{
			Backend:  &fakeCatalog{getErr: domain.ErrNotFound},
			Fallback: fallback,
			Probe:    fixedProbe(true),
		}
		_, err := uc.Get(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 0, fallback.getCalls)
	})

	t.Run("other backend errors fall back", func(t *testing.T) {
		uc := &ProductUC{
			Backend:  &fakeCatalog{getErr: errors.New("timeout")},
			Fallback: &fakeCatalog{product: &domain.Product{ID: 1, Title: "demo"}},
			Probe:    fixedProbe(true),
		}
		p, err := uc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "demo", p.Title)
	})

	t.Run("invalid id short-circuits", func(t *testing.T) {
		uc := &ProductUC{}
		_, err := uc.Get(context.Background(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCategoriesAreStatic(t *testing.T) {
	uc := &ProductUC{}
	cats := uc.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "fashion", cats[0].Slug)
}
