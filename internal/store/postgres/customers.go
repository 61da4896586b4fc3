package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
)

const uniqueViolation = "23505"

const customerColumns = `code, name, contact, registered, first_visit, last_visit, registration_date`

func (s *Store) FindCustomer(ctx context.Context, code string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE code = $1
	`, code)
	return scanCustomer(row)
}

func (s *Store) UpsertCustomer(ctx context.Context, code, name, contact string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (code, name, contact, registered, first_visit, last_visit, registration_date)
		VALUES ($1, $2, $3, TRUE, $4, $4, $4)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			contact = EXCLUDED.contact,
			registered = TRUE,
			last_visit = EXCLUDED.last_visit,
			first_visit = COALESCE(customers.first_visit, EXCLUDED.first_visit),
			registration_date = COALESCE(customers.registration_date, EXCLUDED.registration_date)
		RETURNING `+customerColumns+`
	`, code, name, contact, s.now())
	return scanCustomer(row)
}

func (s *Store) TouchVisit(ctx context.Context, code string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE customers
		SET last_visit = $2, first_visit = COALESCE(first_visit, $2)
		WHERE code = $1
		RETURNING `+customerColumns+`
	`, code, s.now())
	return scanCustomer(row)
}

func (s *Store) RegisterName(ctx context.Context, code, name string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE customers
		SET name = $2,
			registered = TRUE,
			last_visit = $3,
			first_visit = COALESCE(first_visit, $3),
			registration_date = COALESCE(registration_date, $3)
		WHERE code = $1
		RETURNING `+customerColumns+`
	`, code, name, s.now())
	return scanCustomer(row)
}

func (s *Store) IssueCode(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO customers (code) VALUES ($1)`, code)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return store.ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE code = $1)
	`, code).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM customers ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

func scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var c domain.Customer
	var firstVisit, lastVisit, registrationDate sql.NullTime
	err := row.Scan(&c.Code, &c.Name, &c.Contact, &c.Registered, &firstVisit, &lastVisit, &registrationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.FirstVisit = optionalTime(firstVisit)
	c.LastVisit = optionalTime(lastVisit)
	c.RegistrationDate = optionalTime(registrationDate)
	return &c, nil
}

func optionalTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
