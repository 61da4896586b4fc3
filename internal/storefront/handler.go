// Package storefront serves the shop pages: catalog, checkout, profile and
// the code entry links printed on cards.
package storefront

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/datefmt"
	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
)

type Store interface {
	store.CustomerStore
	store.OrderStore
}

// EventPublisher announces accepted orders. Publishing is best effort.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
}

type Config struct {
	BaseURL   string
	WalletURL string
	// CookieSecure marks the customer cookie Secure; enable behind HTTPS.
	CookieSecure bool
	// AdminToken enables PATCH /orders/{id}/status when non-empty.
	AdminToken string
	// Location is the zone dates are shown in; nil means UTC.
	Location *time.Location
}

type Handler struct {
	store     Store
	codes     *codes.Generator
	publisher EventPublisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger
	cfg       Config
	pages     map[string]*template.Template
}

// NewHandler parses the embedded templates. publisher may be nil.
func NewHandler(st Store, gen *codes.Generator, publisher EventPublisher, metrics *telemetry.Metrics, logger *slog.Logger, cfg Config) (*Handler, error) {
	pages, err := parsePages(templateFuncs(datefmt.NewFormatter(cfg.Location)))
	if err != nil {
		return nil, err
	}

	return &Handler{
		store:     st,
		codes:     gen,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		pages:     pages,
	}, nil
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", telemetry.WithHTTPRoute(h.HandleIndex))
	mux.HandleFunc("GET /{code}", telemetry.WithHTTPRoute(h.HandleEntry))
	mux.HandleFunc("GET /qr/{code}", telemetry.WithHTTPRoute(h.HandleEntry))
	mux.HandleFunc("POST /place_order", telemetry.WithHTTPRoute(h.HandlePlaceOrder))
	mux.HandleFunc("GET /order_success", telemetry.WithHTTPRoute(h.HandleOrderSuccess))
	mux.HandleFunc("GET /profile", telemetry.WithHTTPRoute(h.HandleProfile))
	mux.HandleFunc("POST /register", telemetry.WithHTTPRoute(h.HandleRegister))
	mux.HandleFunc("POST /register/{code}", telemetry.WithHTTPRoute(h.HandleRegisterCode))
	mux.HandleFunc("GET /healthz", telemetry.WithHTTPRoute(h.HandleHealth))

	static, _ := fs.Sub(assets, "static")
	mux.HandleFunc("GET /static/", telemetry.WithHTTPRoute(http.StripPrefix("/static/", http.FileServerFS(static)).ServeHTTP))

	if h.cfg.AdminToken != "" {
		mux.HandleFunc("PATCH /orders/{id}/status", telemetry.WithHTTPRoute(h.requireAdmin(h.HandleUpdateStatus)))
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AdminToken)) != 1 {
			h.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("unknown page template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("failed to render page", "error", err, "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write page", "error", err, "page", page)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
