package wishlist

import (
	"sync"

	"github.com/noah-isme/storefront/internal/catalog"
)

// Service holds the wishlist: a set of products keyed by id. Unlike the cart
// it carries no quantities and no invariants beyond membership.
type Service struct {
	mu       sync.Mutex
	order    []string
	products map[string]catalog.Product
}

// NewService constructs an empty wishlist.
func NewService() *Service {
	return &Service{products: make(map[string]catalog.Product)}
}

// Add inserts the product. Adding an existing id is a no-op.
func (s *Service) Add(p catalog.Product) {
	if p.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return
	}
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
}

// Remove deletes the product with the given id, if present.
func (s *Service) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return
	}
	delete(s.products, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains reports membership.
func (s *Service) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[productID]
	return ok
}

// List returns wishlist products in insertion order.
func (s *Service) List() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}
