package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konamall/storefront/internal/domain"
)

type fakeOrderBackend struct {
	order     domain.Order
	createErr error
	getOrder  *domain.Order
	getErr    error
	cancelled []int64
}

func (f *fakeOrderBackend) CreateOrder(ctx context.Context, addressID int64, paymentMethod, note string) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}
	return f.order, nil
}

func (f *fakeOrderBackend) ListOrders(ctx context.Context, page, limit int) ([]domain.Order, error) {
	return []domain.Order{f.order}, nil
}

func (f *fakeOrderBackend) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return f.getOrder, f.getErr
}

func (f *fakeOrderBackend) CancelOrder(ctx context.Context, id int64) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeOrderBackend) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	return nil, nil
}

func (f *fakeOrderBackend) CreateAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	a.ID = 1
	return a, nil
}

func (f *fakeOrderBackend) PreparePayment(ctx context.Context, orderID int64, gateway string) (map[string]any, error) {
	return map[string]any{"redirect_url": "https://pay"}, nil
}

func (f *fakeOrderBackend) ApprovePayment(ctx context.Context, orderID int64, paymentID, pgToken, gateway string) (map[string]any, error) {
	return map[string]any{"status": "approved"}, nil
}

type fakeCheckoutCart struct {
	count   int
	cleared bool
}

func (c *fakeCheckoutCart) TotalItemCount() int { return c.count }
func (c *fakeCheckoutCart) ClearCart()          { c.cleared = true }

func TestCheckout(t *testing.T) {
	t.Run("clears local cart on success", func(t *testing.T) {
		cart := &fakeCheckoutCart{count: 2}
		uc := &OrderUC{Backend: &fakeOrderBackend{order: domain.Order{ID: 7}}, Cart: cart}

		o, err := uc.Checkout(context.Background(), 1, "kakao_pay", "")
		require.NoError(t, err)
		assert.Equal(t, int64(7), o.ID)
		assert.True(t, cart.cleared)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		uc := &OrderUC{Backend: &fakeOrderBackend{}, Cart: &fakeCheckoutCart{count: 0}}
		_, err := uc.Checkout(context.Background(), 1, "card", "")
		assert.Error(t, err)
	})

	t.Run("missing address is rejected", func(t *testing.T) {
		uc := &OrderUC{Backend: &fakeOrderBackend{}, Cart: &fakeCheckoutCart{count: 1}}
		_, err := uc.Checkout(context.Background(), 0, "card", "")
		assert.Error(t, err)
	})

	t.Run("backend failure keeps the local cart", func(t *testing.T) {
		cart := &fakeCheckoutCart{count: 2}
		uc := &OrderUC{Backend: &fakeOrderBackend{createErr: errors.New("payment declined")}, Cart: cart}

		_, err := uc.Checkout(context.Background(), 1, "card", "")
		require.Error(t, err)
		assert.False(t, cart.cleared)
	})
}

func TestCancel(t *testing.T) {
	t.Run("pending order cancels", func(t *testing.T) {
		backend := &fakeOrderBackend{getOrder: &domain.Order{ID: 5, Status: domain.OrderStatusPending}}
		uc := &OrderUC{Backend: backend}
		require.NoError(t, uc.Cancel(context.Background(), 5))
		assert.Equal(t, []int64{5}, backend.cancelled)
	})

	t.Run("shipped order does not", func(t *testing.T) {
		backend := &fakeOrderBackend{getOrder: &domain.Order{ID: 5, Status: domain.OrderStatusShipped}}
		uc := &OrderUC{Backend: backend}
		assert.Error(t, uc.Cancel(context.Background(), 5))
		assert.Empty(t, backend.cancelled)
	})
}

func TestAddAddressValidation(t *testing.T) {
	uc := &OrderUC{Backend: &fakeOrderBackend{}}

	_, err := uc.AddAddress(context.Background(), domain.Address{RecipientName: "A"})
	assert.Error(t, err)

	a, err := uc.AddAddress(context.Background(), domain.Address{RecipientName: "A", Phone: "010", Address1: "Seoul"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
}
