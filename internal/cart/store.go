// Package cart holds the shopping cart state container.
package cart

import (
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Listener is called with a fresh snapshot after every change to the cart.
type Listener func(domain.CartSnapshot)

// Store keeps the line items a user intends to buy. Mutations go through its
// methods only; readers get copies. None of the operations fail or block on
// anything other than the internal mutex.
type Store struct {
	mu      sync.RWMutex
	items   []domain.LineItem // insertion order
	version uint64

	subMu     sync.Mutex
	listeners map[int]Listener
	nextID    int

	deliverMu sync.Mutex
	delivered uint64

	log zerolog.Logger
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{
		listeners: make(map[int]Listener),
		log:       log.With().Str("component", "cart").Logger(),
	}
}

// Add puts one unit of the product in the cart, merging with an existing
// line item of the same id.
func (s *Store) Add(p domain.Product) {
	s.mu.Lock()
	if i := s.find(p.ID); i >= 0 {
		s.items[i].Quantity++
		s.log.Debug().Str("product_id", p.ID).Int("quantity", s.items[i].Quantity).Msg("quantity incremented")
	} else {
		s.items = append(s.items, domain.LineItem{Product: p.Clone(), Quantity: 1})
		s.log.Debug().Str("product_id", p.ID).Msg("item added")
	}
	s.publishLocked()
}

// Remove deletes the line item with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	if !s.removeLocked(id) {
		s.mu.Unlock()
		return
	}
	s.publishLocked()
}

// SetQuantity replaces the quantity of an existing line item. A quantity
// below one removes the item.
func (s *Store) SetQuantity(id string, quantity int) {
	if quantity < 1 {
		s.Remove(id)
		return
	}

	s.mu.Lock()
	i := s.find(id)
	if i < 0 || s.items[i].Quantity == quantity {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity = quantity
	s.publishLocked()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.log.Debug().Msg("cart cleared")
	s.publishLocked()
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id) >= 0
}

// TotalItems is the sum of quantities, not the number of distinct items.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.items)
}

// TotalPrice is the exact sum of unit price times quantity. Use
// domain.FormatPrice to round for display.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

// TotalSavings sums the discount against the original price over all items.
func (s *Store) TotalSavings() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalSavings(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications and returns a func that
// removes it again. Listeners may read the store but must not mutate it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

// publishLocked versions the current state, releases s.mu and hands the
// snapshot to the listeners. Must be called with s.mu held.
func (s *Store) publishLocked() {
	s.version++
	v := s.version
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.deliver(v, snap)
}

// deliver runs outside s.mu so listeners may read the store. A snapshot older
// than one already delivered is dropped, so listeners never go back in time.
func (s *Store) deliver(v uint64, snap domain.CartSnapshot) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if v <= s.delivered {
		return
	}
	s.delivered = v
	s.notify(snap)
}

func (s *Store) notify(snap domain.CartSnapshot) {
	s.subMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) find(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(id string) bool {
	i := s.find(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.log.Debug().Str("product_id", id).Msg("item removed")
	return true
}

func (s *Store) snapshotLocked() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items:        cloneItems(s.items),
		TotalItems:   totalItems(s.items),
		TotalPrice:   totalPrice(s.items),
		TotalSavings: totalSavings(s.items),
	}
}

func totalItems(items []domain.LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func totalPrice(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func totalSavings(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Discount().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = domain.LineItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}
