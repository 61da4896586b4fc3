package filestore

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joao-fontenele/aurana-storefront/internal/datefmt"
)

// customerRecord is the value stored under each code in customers.json.
type customerRecord struct {
	Name             string `json:"name"`
	Contact          string `json:"contact"`
	Registered       bool   `json:"registered"`
	FirstVisit       string `json:"first_visit,omitempty"`
	LastVisit        string `json:"last_visit,omitempty"`
	RegistrationDate string `json:"registration_date,omitempty"`
}

type orderRow struct {
	ID           string
	CustomerCode string
	Details      string
	Status       string
	OrderDate    string
}

var ordersHeader = []string{"id", "customer_code", "order_details", "status", "order_date"}

func (r orderRow) record() []string {
	return []string{r.ID, r.CustomerCode, r.Details, r.Status, r.OrderDate}
}

// loadCustomers reads the whole customers file. A missing file is created
// empty; a corrupt one is moved aside and replaced by an empty document.
func (s *Store) loadCustomers() (map[string]customerRecord, error) {
	data, err := os.ReadFile(s.customersPath)
	if errors.Is(err, fs.ErrNotExist) {
		customers := map[string]customerRecord{}
		return customers, s.saveCustomers(customers)
	}
	if err != nil {
		return nil, fmt.Errorf("read customers: %w", err)
	}

	customers := map[string]customerRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return customers, nil
	}
	if err := json.Unmarshal(data, &customers); err != nil {
		s.logger.Error("corrupt customers file, starting empty", "error", err, "path", s.customersPath)
		if err := s.quarantine(s.customersPath); err != nil {
			return nil, err
		}
		customers = map[string]customerRecord{}
		return customers, s.saveCustomers(customers)
	}
	return customers, nil
}

func (s *Store) saveCustomers(customers map[string]customerRecord) error {
	data, err := json.MarshalIndent(customers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode customers: %w", err)
	}
	return writeFileAtomic(s.customersPath, data)
}

// loadOrderRows reads every order row. Rows that cannot be parsed are logged,
// counted in skipped and left out so one bad line does not hide the rest of
// the history.
func (s *Store) loadOrderRows() (rows []orderRow, skipped int, err error) {
	f, err := os.Open(s.ordersPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, s.saveOrderRows(nil)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open orders: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for line := 0; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.logger.Warn("skipping unreadable order row", "error", err, "path", s.ordersPath)
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("read orders: %w", err)
		}
		if line == 0 && len(rec) > 0 && rec[0] == ordersHeader[0] {
			continue
		}
		if len(rec) != len(ordersHeader) {
			s.logger.Warn("skipping order row with wrong field count", "fields", len(rec), "path", s.ordersPath)
			skipped++
			continue
		}
		rows = append(rows, orderRow{
			ID:           rec[0],
			CustomerCode: rec[1],
			Details:      rec[2],
			Status:       rec[3],
			OrderDate:    rec[4],
		})
	}
	return rows, skipped, nil
}

func (s *Store) saveOrderRows(rows []orderRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ordersHeader); err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.record()); err != nil {
			return fmt.Errorf("encode orders: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	return writeFileAtomic(s.ordersPath, buf.Bytes())
}

// rewriteOrderRows replaces the orders file with rows. When the file held
// unreadable rows a copy of it is kept aside first.
func (s *Store) rewriteOrderRows(rows []orderRow, skipped int) error {
	if skipped > 0 {
		if err := s.preserve(s.ordersPath); err != nil {
			return err
		}
	}
	return s.saveOrderRows(rows)
}

func (s *Store) quarantine(path string) error {
	target := fmt.Sprintf("%s.corrupt-%d", path, s.now().UnixNano())
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("move corrupt file aside: %w", err)
	}
	return nil
}

// preserve copies path next to itself before a rewrite drops unreadable data.
func (s *Store) preserve(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	target := fmt.Sprintf("%s.corrupt-%d", path, s.now().UnixNano())
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("keep copy of %s: %w", filepath.Base(path), err)
	}
	s.logger.Warn("kept copy of orders file with unreadable rows", "path", target)
	return nil
}

func (s *Store) parseTime(raw string, attrs ...any) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := datefmt.Parse(raw)
	if err != nil {
		s.logger.Warn("unreadable timestamp", append([]any{"error", err, "value", raw}, attrs...)...)
		return time.Time{}
	}
	return t
}

func (s *Store) parseOptionalTime(raw, code string) *time.Time {
	t := s.parseTime(raw, "code", code)
	if t.IsZero() {
		return nil
	}
	return &t
}

func storageTime(t time.Time) string {
	return datefmt.Storage(t)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
