// Package notify tells the shop owner about new orders and marks them
// confirmed once the message is delivered.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joao-fontenele/aurana-storefront/internal/datefmt"
	"github.com/joao-fontenele/aurana-storefront/internal/domain"
)

type Config struct {
	WebhookURL string
	// StorefrontURL and AdminToken enable the status update after delivery.
	StorefrontURL string
	AdminToken    string
	// Location is the zone the order date is shown in; nil means UTC.
	Location *time.Location
}

type Notifier struct {
	cfg        Config
	dates      datefmt.Formatter
	httpClient *http.Client
	logger     *slog.Logger
}

func NewNotifier(cfg Config, client *http.Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:        cfg,
		dates:      datefmt.NewFormatter(cfg.Location),
		httpClient: client,
		logger:     logger,
	}
}

// HandleOrderPlaced returns an error when the webhook fails so the event is
// retried. A failed status update is only logged.
func (n *Notifier) HandleOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	n.logger.Info("processing order placed event", "order_id", event.OrderID, "customer_code", event.CustomerCode)

	if err := n.postJSON(ctx, http.MethodPost, n.cfg.WebhookURL, nil, map[string]string{"text": Message(event, n.dates)}); err != nil {
		n.logger.Error("failed to notify shop owner", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send notification: %w", err)
	}

	if n.cfg.StorefrontURL != "" && n.cfg.AdminToken != "" {
		if err := n.confirm(ctx, event.OrderID); err != nil {
			n.logger.Error("failed to confirm order", "error", err, "order_id", event.OrderID)
		}
	}

	n.logger.Info("order notification sent", "order_id", event.OrderID)
	return nil
}

func (n *Notifier) confirm(ctx context.Context, orderID string) error {
	endpoint := strings.TrimRight(n.cfg.StorefrontURL, "/") + "/orders/" + url.PathEscape(orderID) + "/status"
	headers := map[string]string{"Authorization": "Bearer " + n.cfg.AdminToken}
	return n.postJSON(ctx, http.MethodPatch, endpoint, headers, map[string]string{"status": string(domain.OrderStatusConfirmed)})
}

func (n *Notifier) postJSON(ctx context.Context, method, endpoint string, headers map[string]string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s returned status %d", method, endpoint, resp.StatusCode)
	}
	return nil
}

// Message is the owner-facing summary of an order.
func Message(event domain.OrderPlacedEvent, dates datefmt.Formatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Новый заказ от %s (%s)\n", event.CustomerName, event.CustomerCode)
	fmt.Fprintf(&b, "Контакт: %s\n", event.Contact)
	fmt.Fprintf(&b, "Дата: %s\n", dates.Display(event.Timestamp))
	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %s × %d = %d ₽\n", item.Name, item.Quantity, item.Subtotal())
	}
	fmt.Fprintf(&b, "Итого: %d ₽", event.Total)
	return b.String()
}
