// Package store defines the persistence contract shared by every backend.
package store

import (
	"context"
	"errors"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
)

var (
	ErrCodeTaken      = errors.New("customer code already issued")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// CustomerStore lookups return (nil, nil) when the customer does not exist.
type CustomerStore interface {
	FindCustomer(ctx context.Context, code string) (*domain.Customer, error)
	// UpsertCustomer creates a registered customer or refreshes name, contact
	// and last visit of an existing one. First visit and registration date are
	// kept once set.
	UpsertCustomer(ctx context.Context, code, name, contact string) (*domain.Customer, error)
	TouchVisit(ctx context.Context, code string) (*domain.Customer, error)
	RegisterName(ctx context.Context, code, name string) (*domain.Customer, error)
	// IssueCode stores an unregistered customer so the code can be printed.
	IssueCode(ctx context.Context, code string) error
	CodeExists(ctx context.Context, code string) (bool, error)
	ListCodes(ctx context.Context) ([]string, error)
}

type OrderStore interface {
	// AppendOrder assigns ID, CreatedAt and the default status when unset.
	AppendOrder(ctx context.Context, order *domain.Order) error
	// ListOrders returns the customer's orders, most recent first.
	ListOrders(ctx context.Context, customerCode string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type Store interface {
	CustomerStore
	OrderStore
	Close() error
}
