package usecase

import (
	"context"
	"errors"

	"github.com/konamall/storefront/internal/domain"
)

type backendOrders interface {
	CreateOrder(ctx context.Context, addressID int64, paymentMethod, note string) (domain.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	ListAddresses(ctx context.Context) ([]domain.Address, error)
	CreateAddress(ctx context.Context, a domain.Address) (domain.Address, error)
	PreparePayment(ctx context.Context, orderID int64, gateway string) (map[string]any, error)
	ApprovePayment(ctx context.Context, orderID int64, paymentID, pgToken, gateway string) (map[string]any, error)
}

type cartForCheckout interface {
	TotalItemCount() int
	ClearCart()
}

// OrderUC drives checkout and order history. Unlike cart mirroring, these
// calls are awaited and their errors go back to the user.
type OrderUC struct {
	Backend backendOrders
	Cart    cartForCheckout
}

// Checkout places an order from the server-side cart. The backend builds the
// order off its own cart copy; on success the local cart is emptied too.
func (uc *OrderUC) Checkout(ctx context.Context, addressID int64, paymentMethod, note string) (domain.Order, error) {
	if uc.Cart != nil && uc.Cart.TotalItemCount() == 0 {
		return domain.Order{}, errors.New("cart is empty")
	}
	if addressID <= 0 {
		return domain.Order{}, errors.New("shipping address required")
	}
	o, err := uc.Backend.CreateOrder(ctx, addressID, paymentMethod, note)
	if err != nil {
		return domain.Order{}, err
	}
	if uc.Cart != nil {
		uc.Cart.ClearCart()
	}
	return o, nil
}

func (uc *OrderUC) List(ctx context.Context, page, limit int) ([]domain.Order, error) {
	return uc.Backend.ListOrders(ctx, page, limit)
}

func (uc *OrderUC) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	return uc.Backend.GetOrder(ctx, id)
}

func (uc *OrderUC) Cancel(ctx context.Context, id int64) error {
	o, err := uc.Backend.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !o.Cancellable() {
		return errors.New("order can no longer be cancelled")
	}
	return uc.Backend.CancelOrder(ctx, id)
}

func (uc *OrderUC) Addresses(ctx context.Context) ([]domain.Address, error) {
	return uc.Backend.ListAddresses(ctx)
}

func (uc *OrderUC) AddAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	if a.RecipientName == "" || a.Phone == "" || a.Address1 == "" {
		return domain.Address{}, errors.New("recipient, phone and address required")
	}
	return uc.Backend.CreateAddress(ctx, a)
}

func (uc *OrderUC) PreparePayment(ctx context.Context, orderID int64, gateway string) (map[string]any, error) {
	return uc.Backend.PreparePayment(ctx, orderID, gateway)
}

func (uc *OrderUC) ApprovePayment(ctx context.Context, orderID int64, paymentID, pgToken, gateway string) (map[string]any, error) {
	return uc.Backend.ApprovePayment(ctx, orderID, paymentID, pgToken, gateway)
}
