package usecase

import (
	"context"

	"github.com/konamall/storefront/internal/domain"
)

type backendAdmin interface {
	AdminListUsers(ctx context.Context) ([]domain.User, error)
	AdminListOrders(ctx context.Context) ([]domain.Order, error)
	AdminListProducts(ctx context.Context) ([]domain.Product, error)
	AdminStats(ctx context.Context) (map[string]any, error)
}

// AdminUC is a thin pass-through to the backend's admin endpoints. The
// backend enforces the admin role on its side; the handlers only gate who
// can reach these pages.
type AdminUC struct {
	Backend backendAdmin
}

func (uc *AdminUC) Stats(ctx context.Context) (map[string]any, error) {
	return uc.Backend.AdminStats(ctx)
}

func (uc *AdminUC) Users(ctx context.Context) ([]domain.User, error) {
	return uc.Backend.AdminListUsers(ctx)
}

func (uc *AdminUC) Orders(ctx context.Context) ([]domain.Order, error) {
	return uc.Backend.AdminListOrders(ctx)
}

func (uc *AdminUC) Products(ctx context.Context) ([]domain.Product, error) {
	return uc.Backend.AdminListProducts(ctx)
}
