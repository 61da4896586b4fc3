package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
)

func (s *Store) AppendOrder(ctx context.Context, order *domain.Order) error {
	details, err := domain.EncodeItems(order.Items)
	if err != nil {
		return err
	}

	order.ID = uuid.New().String()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_code, order_details, status, order_date)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.CustomerCode, details, order.Status, order.CreatedAt)
	return err
}

func (s *Store) ListOrders(ctx context.Context, customerCode string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_code, order_details, status, order_date
		FROM orders
		WHERE customer_code = $1
		ORDER BY order_date DESC
	`, customerCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := s.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2
		RETURNING id, customer_code, order_details, status, order_date
	`, status, id)

	order, err := s.scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOrder(row scanner) (*domain.Order, error) {
	var (
		order   domain.Order
		details string
	)
	if err := row.Scan(&order.ID, &order.CustomerCode, &details, &order.Status, &order.CreatedAt); err != nil {
		return nil, err
	}
	order.CreatedAt = order.CreatedAt.UTC()

	items, err := domain.DecodeItems(details)
	if err != nil {
		s.logger.Warn("unreadable order details", "error", err, "order_id", order.ID)
	}
	order.Items = items
	return &order, nil
}
