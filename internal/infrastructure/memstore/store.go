package memstore

import (
	"sync"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
)

// Store is the volatile ledger store: products, orders and session
// carts behind per-entity locks. Every operation is atomic with
// respect to a single key; there are no cross-key transactions.
type Store struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	orders   map[string]*domain.Order
	byRef    map[string]string // payment reference -> order id
	carts    map[string]*domain.Cart
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]*domain.Product),
		orders:   make(map[string]*domain.Order),
		byRef:    make(map[string]string),
		carts:    make(map[string]*domain.Cart),
	}
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Variants = append([]string(nil), p.Variants...)
	return &cp
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Snapshot.Lines = append([]domain.SnapshotLine(nil), o.Snapshot.Lines...)
	return &cp
}

func (s *Store) GetProduct(productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (s *Store) ListProducts() ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (s *Store) SaveProduct(product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = copyProduct(product)
	return nil
}

// AdjustStock applies delta under the store lock and clamps at zero.
func (s *Store) AdjustStock(productID string, delta int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	return copyProduct(p), nil
}

func (s *Store) CreateOrder(order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = copyOrder(order)
	s.byRef[order.PaymentReference] = order.ID
	return nil
}

func (s *Store) GetOrderByID(orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) GetOrderByPaymentReference(paymentReference string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byRef[paymentReference]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(s.orders[id]), nil
}

// TransitionStatus is the compare-and-set that makes duplicate webhook
// deliveries pick exactly one winner.
func (s *Store) TransitionStatus(orderID string, from, to domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	// Terminal states are final; a CAS out of one never succeeds.
	if o.Status != from || from.Terminal() {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) GetCart(sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (s *Store) SaveCart(cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	cp.UpdatedAt = time.Now()
	s.carts[cart.SessionID] = &cp
	return nil
}

func (s *Store) DeleteCart(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
