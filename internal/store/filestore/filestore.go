// Package filestore persists customers in a JSON document and orders in a CSV
// file. A single mutex serializes every read-modify-write of either file, so
// it is only safe within one process.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
)

const (
	CustomersFile = "customers.json"
	OrdersFile    = "orders.csv"
)

type Store struct {
	mu            sync.Mutex
	customersPath string
	ordersPath    string
	logger        *slog.Logger
	now           func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		customersPath: filepath.Join(dir, CustomersFile),
		ordersPath:    filepath.Join(dir, OrdersFile),
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) FindCustomer(_ context.Context, code string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return nil, err
	}
	rec, ok := customers[code]
	if !ok {
		return nil, nil
	}
	return s.toCustomer(code, rec), nil
}

func (s *Store) UpsertCustomer(_ context.Context, code, name, contact string) (*domain.Customer, error) {
	return s.mutateCustomer(code, true, func(rec *customerRecord, now string) {
		rec.Name = name
		rec.Contact = contact
		rec.Registered = true
		rec.LastVisit = now
		if rec.FirstVisit == "" {
			rec.FirstVisit = now
		}
		if rec.RegistrationDate == "" {
			rec.RegistrationDate = now
		}
	})
}

func (s *Store) TouchVisit(_ context.Context, code string) (*domain.Customer, error) {
	return s.mutateCustomer(code, false, func(rec *customerRecord, now string) {
		rec.LastVisit = now
		if rec.FirstVisit == "" {
			rec.FirstVisit = now
		}
	})
}

func (s *Store) RegisterName(_ context.Context, code, name string) (*domain.Customer, error) {
	return s.mutateCustomer(code, false, func(rec *customerRecord, now string) {
		rec.Name = name
		rec.Registered = true
		rec.LastVisit = now
		if rec.FirstVisit == "" {
			rec.FirstVisit = now
		}
		if rec.RegistrationDate == "" {
			rec.RegistrationDate = now
		}
	})
}

// mutateCustomer runs one read-modify-write cycle on the customers file. When
// create is false an absent customer yields (nil, nil) and nothing is written.
func (s *Store) mutateCustomer(code string, create bool, mutate func(rec *customerRecord, now string)) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return nil, err
	}
	rec, ok := customers[code]
	if !ok && !create {
		return nil, nil
	}

	mutate(&rec, storageTime(s.now()))
	customers[code] = rec

	if err := s.saveCustomers(customers); err != nil {
		return nil, err
	}
	return s.toCustomer(code, rec), nil
}

func (s *Store) IssueCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return err
	}
	if _, ok := customers[code]; ok {
		return store.ErrCodeTaken
	}
	customers[code] = customerRecord{}
	return s.saveCustomers(customers)
}

func (s *Store) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return false, err
	}
	_, ok := customers[code]
	return ok, nil
}

func (s *Store) ListCodes(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(customers))
	for code := range customers {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes, nil
}

func (s *Store) AppendOrder(_ context.Context, order *domain.Order) error {
	details, err := domain.EncodeItems(order.Items)
	if err != nil {
		return err
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

	rows, skipped, err := s.loadOrderRows()
	if err != nil {
		return err
	}
	rows = append(rows, orderRow{
		ID:           order.ID,
		CustomerCode: order.CustomerCode,
		Details:      details,
		Status:       string(order.Status),
		OrderDate:    storageTime(order.CreatedAt),
	})
	return s.rewriteOrderRows(rows, skipped)
}

func (s *Store) ListOrders(_ context.Context, customerCode string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, _, err := s.loadOrderRows()
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{}
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].CustomerCode != customerCode {
			continue
		}
		orders = append(orders, s.toOrder(rows[i]))
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, skipped, err := s.loadOrderRows()
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		rows[i].Status = string(status)
		if err := s.rewriteOrderRows(rows, skipped); err != nil {
			return nil, err
		}
		order := s.toOrder(rows[i])
		return &order, nil
	}
	return nil, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) toOrder(row orderRow) domain.Order {
	items, err := domain.DecodeItems(row.Details)
	if err != nil {
		s.logger.Warn("unreadable order details", "error", err, "order_id", row.ID)
	}
	return domain.Order{
		ID:           row.ID,
		CustomerCode: row.CustomerCode,
		Items:        items,
		Status:       domain.OrderStatus(row.Status),
		CreatedAt:    s.parseTime(row.OrderDate, "order_id", row.ID),
	}
}

func (s *Store) toCustomer(code string, rec customerRecord) *domain.Customer {
	return &domain.Customer{
		Code:             code,
		Name:             rec.Name,
		Contact:          rec.Contact,
		Registered:       rec.Registered,
		FirstVisit:       s.parseOptionalTime(rec.FirstVisit, code),
		LastVisit:        s.parseOptionalTime(rec.LastVisit, code),
		RegistrationDate: s.parseOptionalTime(rec.RegistrationDate, code),
	}
}
