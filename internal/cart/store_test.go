package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konamall/storefront/internal/domain"
)

type fakeRemote struct {
	mu         sync.Mutex
	fetchLines []domain.CartLine
	fetchErr   error
	addErr     error

	fetchCalls  int
	addCalls    []domain.CartLine
	updateCalls []domain.CartLine
	removeCalls int
	clearCalls  int
}

func (f *fakeRemote) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]domain.CartLine, len(f.fetchLines))
	copy(out, f.fetchLines)
	return out, nil
}

func (f *fakeRemote) AddItem(ctx context.Context, productID int64, variantID *int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.addCalls = append(f.addCalls, domain.CartLine{ProductID: productID, VariantID: variantID, Quantity: quantity})
	return nil
}

func (f *fakeRemote) UpdateItem(ctx context.Context, productID int64, variantID *int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, domain.CartLine{ProductID: productID, VariantID: variantID, Quantity: quantity})
	return nil
}

func (f *fakeRemote) RemoveItem(ctx context.Context, productID int64, variantID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	return nil
}

func (f *fakeRemote) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return nil
}

func (f *fakeRemote) added() []domain.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.CartLine, len(f.addCalls))
	copy(out, f.addCalls)
	return out
}

type memRepo struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func (r *memRepo) Load(ctx context.Context) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CartLine, len(r.lines))
	copy(out, r.lines)
	return out, nil
}

func (r *memRepo) Replace(ctx context.Context, lines []domain.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = make([]domain.CartLine, len(lines))
	copy(r.lines, lines)
	return nil
}

// signIn flips the flag without spawning the background sync, so tests drive
// SyncWithServer themselves.
func signIn(s *Store) {
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
}

func variantID(v int64) *int64 { return &v }

func line(product int64, variant *int64, qty int, price int64) domain.CartLine {
	return domain.CartLine{ProductID: product, VariantID: variant, Quantity: qty, PriceKRW: price, Name: "item"}
}

func TestAddItemMerging(t *testing.T) {
	s := NewStore(nil, nil)

	t.Run("same product and variant merges quantities", func(t *testing.T) {
		s.AddItem(line(1, nil, 2, 1000))
		s.AddItem(line(1, nil, 3, 1000))
		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
		assert.NotEmpty(t, lines[0].LocalID)
	})

	t.Run("different variant of the same product is a separate line", func(t *testing.T) {
		s.AddItem(line(1, variantID(7), 1, 1200))
		require.Len(t, s.Lines(), 2)
	})

	t.Run("variant identity matches by value", func(t *testing.T) {
		s.AddItem(line(1, variantID(7), 2, 1200))
		lines := s.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 3, lines[1].Quantity)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		s.AddItem(line(2, nil, 0, 500))
		assert.Len(t, s.Lines(), 2)
	})

	t.Run("lines keep insertion order", func(t *testing.T) {
		s.AddItem(line(9, nil, 1, 100))
		lines := s.Lines()
		assert.Equal(t, int64(1), lines[0].ProductID)
		assert.Equal(t, int64(9), lines[2].ProductID)
	})
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(line(1, nil, 2, 1000))
	id := s.Lines()[0].LocalID

	s.UpdateQuantity(id, 7)
	assert.Equal(t, 7, s.Lines()[0].Quantity)

	t.Run("below one is a no-op", func(t *testing.T) {
		s.UpdateQuantity(id, 0)
		assert.Equal(t, 7, s.Lines()[0].Quantity)
		s.UpdateQuantity(id, -3)
		assert.Equal(t, 7, s.Lines()[0].Quantity)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s.UpdateQuantity("nope", 3)
		assert.Equal(t, 7, s.Lines()[0].Quantity)
	})
}

func TestRemoveItem(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(line(1, nil, 1, 1000))
	s.AddItem(line(2, nil, 1, 2000))
	id := s.Lines()[0].LocalID

	s.RemoveItem(id)
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)

	s.RemoveItem("unknown")
	assert.Len(t, s.Lines(), 1)
}

func TestTotals(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(line(1, nil, 2, 1000))
	s.AddItem(line(2, nil, 3, 500))

	assert.Equal(t, int64(3500), s.TotalAmount())
	assert.Equal(t, 5, s.TotalItemCount())

	s.ClearCart()
	assert.Empty(t, s.Lines())
	assert.Equal(t, int64(0), s.TotalAmount())
	assert.Equal(t, 0, s.TotalItemCount())
}

func TestMirrorOnlyWhenSignedIn(t *testing.T) {
	remote := &fakeRemote{}
	s := NewStore(nil, remote)

	s.AddItem(line(1, nil, 1, 1000))
	s.Wait()
	assert.Empty(t, remote.added())

	signIn(s)
	s.AddItem(line(2, nil, 4, 500))
	s.Wait()
	added := remote.added()
	require.Len(t, added, 1)
	assert.Equal(t, int64(2), added[0].ProductID)
	assert.Equal(t, 4, added[0].Quantity)
}

func TestMirrorFailureKeepsLocalState(t *testing.T) {
	remote := &fakeRemote{addErr: errors.New("boom")}
	s := NewStore(nil, remote)
	signIn(s)

	s.AddItem(line(1, nil, 2, 1000))
	s.Wait()
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestSyncMaxMerge(t *testing.T) {
	remote := &fakeRemote{
		fetchLines: []domain.CartLine{
			{ProductID: 1, Quantity: 5, PriceKRW: 1000},
			{ProductID: 3, Quantity: 1, PriceKRW: 700, Name: "server only"},
		},
	}
	s := NewStore(nil, remote)
	signIn(s)
	s.AddItem(line(1, nil, 2, 1000))
	s.AddItem(line(2, nil, 1, 2000))
	s.Wait()

	require.NoError(t, s.SyncWithServer(context.Background()))
	s.Wait()

	lines := s.Lines()
	require.Len(t, lines, 3)

	t.Run("shared line takes the larger quantity", func(t *testing.T) {
		assert.Equal(t, int64(1), lines[0].ProductID)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("local-only line survives and is pushed", func(t *testing.T) {
		assert.Equal(t, int64(2), lines[1].ProductID)
		pushes := 0
		for _, a := range remote.added() {
			if a.ProductID == 2 {
				pushes++
			}
		}
		// once from the add-time mirror, once from the sync push
		assert.GreaterOrEqual(t, pushes, 2)
	})

	t.Run("server-only line is adopted with a fresh local id", func(t *testing.T) {
		assert.Equal(t, int64(3), lines[2].ProductID)
		assert.NotEmpty(t, lines[2].LocalID)
	})

	t.Run("second sync is idempotent", func(t *testing.T) {
		require.NoError(t, s.SyncWithServer(context.Background()))
		s.Wait()
		again := s.Lines()
		require.Len(t, again, 3)
		assert.Equal(t, 5, again[0].Quantity)
	})
}

func TestSyncEmptyServerPushesLocal(t *testing.T) {
	remote := &fakeRemote{}
	s := NewStore(nil, remote)
	signIn(s)
	s.AddItem(line(1, nil, 2, 1000))
	s.AddItem(line(2, variantID(4), 1, 500))
	s.Wait()
	before := len(remote.added())

	require.NoError(t, s.SyncWithServer(context.Background()))
	s.Wait()

	assert.Len(t, s.Lines(), 2)
	assert.Len(t, remote.added(), before+2)
}

func TestSyncFetchErrorLeavesLocalUntouched(t *testing.T) {
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	s := NewStore(nil, remote)
	signIn(s)
	s.AddItem(line(1, nil, 2, 1000))
	s.Wait()

	require.NoError(t, s.SyncWithServer(context.Background()))
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSyncSkippedWhenSignedOut(t *testing.T) {
	remote := &fakeRemote{fetchLines: []domain.CartLine{{ProductID: 1, Quantity: 1}}}
	s := NewStore(nil, remote)

	require.NoError(t, s.SyncWithServer(context.Background()))
	assert.Empty(t, s.Lines())
	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, 0, remote.fetchCalls)
}

func TestPersistenceRoundTrip(t *testing.T) {
	repo := &memRepo{}
	s := NewStore(repo, nil)
	s.AddItem(line(1, nil, 2, 1000))
	s.AddItem(line(2, variantID(9), 1, 500))

	reborn := NewStore(repo, nil)
	lines := reborn.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, int64(2), lines[1].ProductID)

	t.Run("positions keep advancing after rehydrate", func(t *testing.T) {
		reborn.AddItem(line(3, nil, 1, 100))
		got := reborn.Lines()
		assert.Equal(t, int64(3), got[2].ProductID)
		assert.Greater(t, got[2].Position, got[1].Position)
	})
}
