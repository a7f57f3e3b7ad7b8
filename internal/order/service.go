package order

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/storefront/internal/pricing"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order: not found")

// ErrNotCancellable is returned when cancelling an order that already left
// the Processing state.
var ErrNotCancellable = errors.New("order: not cancellable")

// Status enumerates the order lifecycle.
type Status string

const (
	StatusProcessing     Status = "Processing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// Item is one purchased line, denormalized at placement time.
type Item struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Price     pricing.Money `json:"price"`
	Quantity  int           `json:"quantity"`
	Image     string        `json:"image,omitempty"`
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	Pin   string `json:"pin"`
}

// Order is a placed (or fixture) order.
type Order struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Status     Status          `json:"status"`
	TrackingID string          `json:"trackingId,omitempty"`
	Courier    string          `json:"courier,omitempty"`
	ETA        string          `json:"eta,omitempty"`
	Address    *Address        `json:"address,omitempty"`
	Pricing    pricing.Summary `json:"pricing"`
	Items      []Item          `json:"items"`
}

// Service keeps order history in memory: seeded fixtures plus orders placed
// through checkout, newest first.
type Service struct {
	Now func() time.Time

	mu     sync.Mutex
	orders []Order
}

// NewService constructs the service seeded with fixture history.
func NewService() *Service {
	return &Service{orders: fixtureOrders()}
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NewID mints an order identifier in the storefront's IT- format.
func NewID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "IT-" + raw[:6]
}

// Place records a new order and returns it with id, date, and status set.
func (s *Service) Place(o Order) Order {
	o.ID = NewID()
	o.Date = s.now()
	o.Status = StatusProcessing
	s.mu.Lock()
	s.orders = append([]Order{o}, s.orders...)
	s.mu.Unlock()
	return o
}

// List returns all orders, newest first.
func (s *Service) List() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get returns the order with the given id.
func (s *Service) Get(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

// Cancel marks a Processing order as Cancelled.
func (s *Service) Cancel(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if o.Status != StatusProcessing {
			return Order{}, ErrNotCancellable
		}
		o.Status = StatusCancelled
		s.orders[i] = o
		return o, nil
	}
	return Order{}, ErrNotFound
}
