package cart

import (
	"errors"
	"sync"

	"github.com/veronavoice/concierge/backend/internal/model/catalog"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotInCart   = errors.New("item not in cart")
)

// Item is a catalog product plus the quantity held in the cart.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Service is the in-memory shopping cart. Adding an existing product
// increments its quantity; order of first insertion is preserved.
type Service struct {
	mu      sync.RWMutex
	catalog *catalog.Store
	items   []Item
}

// NewService bootstraps an empty cart backed by the supplied catalog.
func NewService(store *catalog.Store) *Service {
	return &Service{catalog: store}
}

// Add puts quantity units of a product into the cart. Quantities below one
// default to one.
func (s *Service) Add(productID string, quantity int) error {
	product, ok := s.catalog.FindProduct(productID)
	if !ok {
		return ErrProductNotFound
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity += quantity
			return nil
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: quantity})
	return nil
}

// HasItem reports whether the product is currently in the cart.
func (s *Service) HasItem(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// SetQuantity overwrites an item's quantity; zero or less removes it.
func (s *Service) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotInCart
}

// Remove deletes an item from the cart regardless of quantity.
func (s *Service) Remove(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotInCart
}

// Items returns a copy of the cart contents in insertion order.
func (s *Service) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]Item, len(s.items))
	copy(copied, s.items)
	return copied
}

// Count returns the total number of units across all items.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}
