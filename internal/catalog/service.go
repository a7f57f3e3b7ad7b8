package catalog

import (
	"errors"
	"strings"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// Service provides read-only access to the product catalog.
type Service struct {
	products []Product
	byID     map[string]int
}

// ServiceConfig groups Service dependencies. With a nil Products slice the
// compiled-in fixtures are used.
type ServiceConfig struct {
	Products []Product
}

// NewService constructs a catalog service and indexes products by id.
func NewService(cfg ServiceConfig) (*Service, error) {
	products := cfg.Products
	if products == nil {
		products = Products()
	}
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, errors.New("catalog: product without id")
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.New("catalog: duplicate product id " + p.ID)
		}
		byID[p.ID] = i
	}
	return &Service{products: products, byID: byID}, nil
}

// ListParams captures filters for product listing.
type ListParams struct {
	Category string
	Query    string
	InStock  bool
}

// List returns products matching the provided filters, in catalog order.
func (s *Service) List(params ListParams) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if params.Category != "" && params.Category != "All" && p.Category != params.Category {
			continue
		}
		if params.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Query)) {
			continue
		}
		if params.InStock && !p.InStock() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the product with the given id.
func (s *Service) Get(id string) (Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return s.products[idx], nil
}

// Categories returns the category labels.
func (s *Service) Categories() []string {
	return Categories()
}
