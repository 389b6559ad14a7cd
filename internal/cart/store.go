package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konamall/storefront/internal/domain"
)

// RemoteCart is the slice of the backend API the store mirrors into. All
// calls are best-effort; the store never surfaces their errors.
type RemoteCart interface {
	// FetchCart returns the server-side lines. A malformed or missing body
	// counts as an empty cart, not an error; errors mean the backend could
	// not be reached.
	FetchCart(ctx context.Context) ([]domain.CartLine, error)
	AddItem(ctx context.Context, productID int64, variantID *int64, quantity int) error
	UpdateItem(ctx context.Context, productID int64, variantID *int64, quantity int) error
	RemoveItem(ctx context.Context, productID int64, variantID *int64) error
	Clear(ctx context.Context) error
}

// Store is the single source of truth for the shopping cart. Local mutations
// commit synchronously and persist to the local repo; when a user is signed
// in they are additionally mirrored to the backend as detached calls whose
// failures are only logged. Local and remote can therefore diverge until the
// next SyncWithServer reconciles them.
type Store struct {
	mu            sync.Mutex
	lines         []domain.CartLine
	authenticated bool
	loading       bool
	nextPos       int

	repo   domain.CartRepo
	remote RemoteCart

	subMu sync.Mutex
	subs  []func()

	mirrorTimeout time.Duration
	mirrorWG      sync.WaitGroup
}

func NewStore(repo domain.CartRepo, remote RemoteCart) *Store {
	s := &Store{repo: repo, remote: remote, mirrorTimeout: 10 * time.Second}
	if repo != nil {
		lines, err := repo.Load(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("cart: load persisted lines")
		} else {
			s.lines = lines
			for _, l := range lines {
				if l.Position >= s.nextPos {
					s.nextPos = l.Position + 1
				}
			}
		}
	}
	return s
}

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// AddItem merges the candidate into an existing line with the same
// (product, variant) by summing quantities, or appends a new line with a
// fresh local id. The candidate's LocalID and Position are ignored.
func (s *Store) AddItem(candidate domain.CartLine) {
	if candidate.Quantity < 1 {
		return
	}
	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].SameProduct(candidate.ProductID, candidate.VariantID) {
			s.lines[i].Quantity += candidate.Quantity
			merged = true
			break
		}
	}
	if !merged {
		candidate.LocalID = uuid.NewString()
		candidate.Position = s.nextPos
		s.nextPos++
		s.lines = append(s.lines, candidate)
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirror("add item", func(ctx context.Context) error {
		return s.remote.AddItem(ctx, candidate.ProductID, candidate.VariantID, candidate.Quantity)
	})
	s.notify()
}

// RemoveItem drops the line with the given local id. Removing an unknown id
// is a no-op. If the remote removal later fails, the server keeps the line
// and the next sync adopts it back; that is the known cost of the detached
// mirror.
func (s *Store) RemoveItem(localID string) {
	s.mu.Lock()
	var removed *domain.CartLine
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.LocalID == localID {
			rl := l
			removed = &rl
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	if removed != nil {
		s.persistLocked()
	}
	s.mu.Unlock()
	if removed == nil {
		return
	}

	s.mirror("remove item", func(ctx context.Context) error {
		return s.remote.RemoveItem(ctx, removed.ProductID, removed.VariantID)
	})
	s.notify()
}

// UpdateQuantity sets the line's quantity. Values below 1 are ignored:
// removal is always an explicit action, never a side effect of a quantity
// change.
func (s *Store) UpdateQuantity(localID string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	var changed *domain.CartLine
	for i := range s.lines {
		if s.lines[i].LocalID == localID {
			s.lines[i].Quantity = quantity
			cl := s.lines[i]
			changed = &cl
			break
		}
	}
	if changed != nil {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed == nil {
		return
	}

	s.mirror("update quantity", func(ctx context.Context) error {
		return s.remote.UpdateItem(ctx, changed.ProductID, changed.VariantID, quantity)
	})
	s.notify()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.lines = nil
	s.persistLocked()
	s.mu.Unlock()

	s.mirror("clear cart", func(ctx context.Context) error {
		return s.remote.Clear(ctx)
	})
	s.notify()
}

// TotalAmount is the settlement total: sum of PriceKRW × Quantity.
func (s *Store) TotalAmount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the line sequence in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetAuthenticated flips the mirroring flag. The transition to true kicks off
// a reconciliation in the background; the caller never blocks on it.
func (s *Store) SetAuthenticated(flag bool) {
	s.mu.Lock()
	wasAuth := s.authenticated
	s.authenticated = flag
	s.mu.Unlock()
	if flag && !wasAuth {
		go func() {
			if err := s.SyncWithServer(context.Background()); err != nil {
				log.Warn().Err(err).Msg("cart: sync after sign-in")
			}
		}()
	}
}

// SyncWithServer reconciles the local cart against the backend cart.
//
// Backend has lines: lines on both sides take the maximum of the two
// quantities (idempotent retries over additive drift), backend-only lines
// are adopted verbatim, local-only lines are kept and pushed remotely. The
// merged set replaces local state. Backend empty, local not: every local
// line is pushed and local state stands. Both empty: nothing to do.
//
// Failures are logged and leave local state untouched.
func (s *Store) SyncWithServer(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated || s.remote == nil {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	serverLines, err := s.remote.FetchCart(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cart: fetch server cart")
		return nil
	}

	s.mu.Lock()
	local := make([]domain.CartLine, len(s.lines))
	copy(local, s.lines)
	s.mu.Unlock()

	if len(serverLines) == 0 {
		if len(local) == 0 {
			return nil
		}
		s.SaveToServer(ctx)
		return nil
	}

	merged := make([]domain.CartLine, 0, len(local)+len(serverLines))
	used := make([]bool, len(serverLines))
	var localOnly []domain.CartLine
	for _, l := range local {
		matched := false
		for i, sv := range serverLines {
			if used[i] || !l.SameProduct(sv.ProductID, sv.VariantID) {
				continue
			}
			if sv.Quantity > l.Quantity {
				l.Quantity = sv.Quantity
			}
			used[i] = true
			matched = true
			break
		}
		if !matched {
			localOnly = append(localOnly, l)
		}
		merged = append(merged, l)
	}
	for i, sv := range serverLines {
		if used[i] {
			continue
		}
		sv.LocalID = uuid.NewString()
		merged = append(merged, sv)
	}

	s.mu.Lock()
	for i := range merged {
		merged[i].Position = i
	}
	s.nextPos = len(merged)
	s.lines = merged
	s.persistLocked()
	s.mu.Unlock()
	s.notify()

	for _, l := range localOnly {
		line := l
		s.mirror("push local-only line", func(ctx context.Context) error {
			return s.remote.AddItem(ctx, line.ProductID, line.VariantID, line.Quantity)
		})
	}
	return nil
}

// SaveToServer pushes every local line as an individual remote add. A failed
// line is logged and the rest are still attempted.
func (s *Store) SaveToServer(ctx context.Context) {
	if s.remote == nil {
		return
	}
	for _, l := range s.Lines() {
		if err := s.remote.AddItem(ctx, l.ProductID, l.VariantID, l.Quantity); err != nil {
			log.Warn().Err(err).Int64("product_id", l.ProductID).Msg("cart: push line")
		}
	}
}

// Wait blocks until in-flight mirror calls finish. Test and shutdown hook.
func (s *Store) Wait() { s.mirrorWG.Wait() }

// persistLocked writes the current line sequence to local storage. Callers
// hold s.mu. A write failure costs at most the latest mutation.
func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	if err := s.repo.Replace(context.Background(), lines); err != nil {
		log.Warn().Err(err).Msg("cart: persist lines")
	}
}

// mirror runs op as a detached backend call when signed in. The outcome is
// never joined back into local state.
func (s *Store) mirror(what string, op func(ctx context.Context) error) {
	s.mu.Lock()
	ok := s.authenticated && s.remote != nil
	s.mu.Unlock()
	if !ok {
		return
	}
	s.mirrorWG.Add(1)
	go func() {
		defer s.mirrorWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
		defer cancel()
		if err := op(ctx); err != nil {
			log.Warn().Err(err).Str("op", what).Msg("cart: mirror call failed")
		}
	}()
}
