package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/konamall/storefront/internal/domain"
)

type backendCatalog interface {
	ListProducts(ctx context.Context, f domain.ProductFilter) (domain.ProductList, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type fallbackCatalog interface {
	List(ctx context.Context, f domain.ProductFilter) (domain.ProductList, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type availability interface {
	Available(ctx context.Context) bool
}

// ProductUC picks the catalog source per request: the backend when the
// availability probe says it is reachable, the demo catalog otherwise. A
// backend error mid-session also degrades to the demo catalog rather than
// blanking the page.
type ProductUC struct {
	Backend  backendCatalog
	Fallback fallbackCatalog
	Probe    availability
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) (domain.ProductList, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if uc.Probe != nil && uc.Probe.Available(ctx) && uc.Backend != nil {
		list, err := uc.Backend.ListProducts(ctx, f)
		if err == nil && len(list.Items) > 0 {
			return list, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("backend product list, using fallback")
		}
	}
	if uc.Fallback == nil {
		return domain.ProductList{}, errors.New("no catalog source configured")
	}
	return uc.Fallback.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	if uc.Probe != nil && uc.Probe.Available(ctx) && uc.Backend != nil {
		p, err := uc.Backend.GetProduct(ctx, id)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		log.Warn().Err(err).Int64("id", id).Msg("backend product detail, using fallback")
	}
	if uc.Fallback == nil {
		return nil, domain.ErrNotFound
	}
	return uc.Fallback.Get(ctx, id)
}

// Categories is the static taxonomy; it never touches the network.
func (uc *ProductUC) Categories() []domain.Category {
	return domain.Categories
}
