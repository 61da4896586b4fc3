// Package memory keeps customers and orders in process memory. Nothing
// survives a restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
)

type Store struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
	orders    []domain.Order
	now       func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		customers: make(map[string]domain.Customer),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) FindCustomer(_ context.Context, code string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) UpsertCustomer(_ context.Context, code, name, contact string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.customers[code]
	if !ok {
		c = domain.Customer{Code: code}
	}
	c.Name = name
	c.Contact = contact
	c.Registered = true
	c.LastVisit = &now
	if c.FirstVisit == nil {
		c.FirstVisit = &now
	}
	if c.RegistrationDate == nil {
		c.RegistrationDate = &now
	}
	s.customers[code] = c
	return &c, nil
}

func (s *Store) TouchVisit(_ context.Context, code string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[code]
	if !ok {
		return nil, nil
	}
	now := s.now()
	c.LastVisit = &now
	if c.FirstVisit == nil {
		c.FirstVisit = &now
	}
	s.customers[code] = c
	return &c, nil
}

func (s *Store) RegisterName(_ context.Context, code, name string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[code]
	if !ok {
		return nil, nil
	}
	now := s.now()
	c.Name = name
	c.Registered = true
	c.LastVisit = &now
	if c.FirstVisit == nil {
		c.FirstVisit = &now
	}
	if c.RegistrationDate == nil {
		c.RegistrationDate = &now
	}
	s.customers[code] = c
	return &c, nil
}

func (s *Store) IssueCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[code]; ok {
		return store.ErrCodeTaken
	}
	s.customers[code] = domain.Customer{Code: code}
	return nil
}

func (s *Store) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.customers[code]
	return ok, nil
}

func (s *Store) ListCodes(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := make([]string, 0, len(s.customers))
	for code := range s.customers {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes, nil
}

func (s *Store) AppendOrder(_ context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return domain.ErrNoItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.New().String()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}

	stored := *order
	stored.Items = slices.Clone(order.Items)
	s.orders = append(s.orders, stored)
	return nil
}

func (s *Store) ListOrders(_ context.Context, customerCode string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []domain.Order{}
	// walk backwards so equal timestamps keep newest-first order after the stable sort
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if o.CustomerCode != customerCode {
			continue
		}
		o.Items = slices.Clone(o.Items)
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		s.orders[i].Status = status
		o := s.orders[i]
		o.Items = slices.Clone(o.Items)
		return &o, nil
	}
	return nil, nil
}

func (s *Store) Close() error {
	return nil
}
