package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
)

// maxQuantity caps a single cart line.
const maxQuantity = 99

var (
	errMissingContact = errors.New("name and contact are required")
	errBadItems       = errors.New("order details are not a list of items")
)

// parseItems validates the cart payload against the catalog. Names and
// prices always come from the catalog, never from the client.
func parseItems(raw string) ([]domain.LineItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrNoItems
	}

	var submitted []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &submitted); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadItems, err)
	}
	if len(submitted) == 0 {
		return nil, domain.ErrNoItems
	}

	items := make([]domain.LineItem, 0, len(submitted))
	for _, s := range submitted {
		if s.Quantity <= 0 || s.Quantity > maxQuantity {
			return nil, fmt.Errorf("%w: quantity %d for %s", errBadItems, s.Quantity, s.ProductID)
		}
		product, ok := domain.FindProduct(s.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %q", errBadItems, s.ProductID)
		}
		items = append(items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  s.Quantity,
			Price:     product.Price,
		})
	}
	return items, nil
}

// HandlePlaceOrder accepts the checkout form. Any invalid input sends the
// shopper back to the catalog without writing anything.
func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := strings.TrimSpace(r.PostFormValue("name"))
	contact := strings.TrimSpace(r.PostFormValue("contact"))
	if name == "" || contact == "" {
		h.logger.Info("order rejected", "reason", errMissingContact)
		h.redirectHome(w, r)
		return
	}

	raw := r.PostFormValue("order_details_json")
	if raw == "" {
		raw = r.PostFormValue("items")
	}
	items, err := parseItems(raw)
	if err != nil {
		h.logger.Info("order rejected", "reason", err)
		h.redirectHome(w, r)
		return
	}

	code, created, err := h.resolveCode(r)
	if err != nil {
		h.logger.Error("failed to assign customer code", "error", err)
		h.redirectHome(w, r)
		return
	}

	customer, err := h.store.UpsertCustomer(ctx, code, name, contact)
	if err != nil {
		h.logger.Error("failed to save customer", "error", err, "customer_code", code)
		h.redirectHome(w, r)
		return
	}

	order := &domain.Order{CustomerCode: code, Items: items}
	if err := h.store.AppendOrder(ctx, order); err != nil {
		h.logger.Error("failed to save order", "error", err, "customer_code", code)
		h.redirectHome(w, r)
		return
	}

	total := order.Total()
	h.metrics.OrderPlaced(ctx, total)
	if created {
		h.metrics.CustomerCreated(ctx)
	}

	if h.publisher != nil {
		event := domain.OrderPlacedEvent{
			OrderID:      order.ID,
			CustomerCode: code,
			CustomerName: customer.Name,
			Contact:      customer.Contact,
			Items:        order.Items,
			Total:        total,
			Timestamp:    order.CreatedAt,
		}
		if err := h.publisher.PublishOrderPlaced(ctx, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order placed", "order_id", order.ID, "customer_code", code, "total", total, "new_customer", created)
	h.setCodeCookie(w, code)
	http.Redirect(w, r, "/order_success?code="+url.QueryEscape(code), http.StatusSeeOther)
}

// resolveCode reuses a well-formed cookie code, otherwise issues a fresh
// one. created reports whether the store had no record for the code.
func (h *Handler) resolveCode(r *http.Request) (code string, created bool, err error) {
	ctx := r.Context()

	if code = cookieCode(r); code != "" {
		exists, err := h.store.CodeExists(ctx, code)
		if err != nil {
			return "", false, err
		}
		return code, !exists, nil
	}

	if _, err := r.Cookie(CookieName); err == nil {
		h.logger.Warn("ignoring malformed customer cookie")
	}

	code, err = h.codes.Unique(ctx, h.store)
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// HandleUpdateStatus moves an order through fulfillment.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	order, err := h.store.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}
