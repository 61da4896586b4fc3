package storefront

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/qrcard"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
)

const (
	defaultTitle       = "Элитный шоколад ручной работы"
	successRedirectSec = 5
	clubCardSize       = 160
)

type indexPage struct {
	Title    string
	Customer *domain.Customer
	ClubCard template.URL
	Products []domain.Product
}

type successPage struct {
	Title         string
	Code          string
	RedirectAfter int
}

type profilePage struct {
	Title    string
	Code     string
	Customer *domain.Customer
	Orders   []domain.Order
}

// HandleIndex renders the catalog, greeting the cookie customer when known.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Title: defaultTitle, Products: domain.Catalog()}

	if code := cookieCode(r); code != "" {
		customer, err := h.store.TouchVisit(r.Context(), code)
		if err != nil {
			h.logger.Error("failed to record visit", "error", err, "customer_code", code)
		}
		if customer != nil {
			page.Customer = customer
			page.Title = "С возвращением, " + customer.DisplayName() + "!"
			page.ClubCard = h.clubCard(code)
		}
	}

	h.render(w, "index.html", page)
}

func (h *Handler) clubCard(code string) template.URL {
	uri, err := qrcard.DataURI(qrcard.WalletURL(h.cfg.WalletURL, code), clubCardSize)
	if err != nil {
		h.logger.Warn("failed to render club card", "error", err, "customer_code", code)
		return ""
	}
	return template.URL(uri)
}

// HandleEntry serves /{code} and /qr/{code}. Known codes get the cookie;
// everything else lands on the anonymous catalog.
func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := strings.ToUpper(r.PathValue("code"))

	if !codes.Valid(code) {
		h.metrics.CodeLookup(ctx, telemetry.LookupInvalid)
		h.redirectHome(w, r)
		return
	}

	customer, err := h.store.FindCustomer(ctx, code)
	if err != nil {
		h.logger.Error("failed to look up customer", "error", err, "customer_code", code)
		h.redirectHome(w, r)
		return
	}
	if customer == nil {
		h.metrics.CodeLookup(ctx, telemetry.LookupUnknown)
		h.logger.Info("unknown customer code", "customer_code", code)
		h.redirectHome(w, r)
		return
	}

	h.metrics.CodeLookup(ctx, telemetry.LookupFound)
	h.setCodeCookie(w, code)
	h.redirectHome(w, r)
}

func (h *Handler) HandleOrderSuccess(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if !codes.Valid(code) {
		h.redirectHome(w, r)
		return
	}

	h.render(w, "order_success.html", successPage{
		Title:         "Заказ принят",
		Code:          code,
		RedirectAfter: successRedirectSec,
	})
}

// HandleProfile lists the cookie customer's orders. Without a cookie it
// redirects home and touches nothing.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	code := cookieCode(r)
	if code == "" {
		h.redirectHome(w, r)
		return
	}

	ctx := r.Context()
	customer, err := h.store.FindCustomer(ctx, code)
	if err != nil {
		h.logger.Error("failed to look up customer", "error", err, "customer_code", code)
	}

	orders, err := h.store.ListOrders(ctx, code)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err, "customer_code", code)
	}

	h.render(w, "profile.html", profilePage{
		Title:    "Заказы: " + customer.DisplayName(),
		Code:     code,
		Customer: customer,
		Orders:   orders,
	})
}

// HandleRegister stores the display name for the cookie customer.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, cookieCode(r))
}

// HandleRegisterCode stores the display name for the code in the path.
func (h *Handler) HandleRegisterCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if !codes.Valid(code) {
		h.redirectHome(w, r)
		return
	}
	h.register(w, r, code)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, code string) {
	name := strings.TrimSpace(r.PostFormValue("customer_name"))
	if name == "" {
		name = strings.TrimSpace(r.PostFormValue("name"))
	}
	if code == "" || name == "" {
		h.redirectHome(w, r)
		return
	}

	customer, err := h.store.RegisterName(r.Context(), code, name)
	if err != nil {
		h.logger.Error("failed to register name", "error", err, "customer_code", code)
		h.redirectHome(w, r)
		return
	}
	if customer == nil {
		h.logger.Info("register for unknown customer", "customer_code", code)
		h.redirectHome(w, r)
		return
	}

	h.logger.Info("customer registered", "customer_code", code)
	h.setCodeCookie(w, code)
	h.redirectHome(w, r)
}
