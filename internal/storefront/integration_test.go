//go:build integration

package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/notify"
	"github.com/joao-fontenele/aurana-storefront/internal/store/postgres"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
	"github.com/joao-fontenele/aurana-storefront/internal/testsupport"
)

type webhookCapture struct {
	mu       sync.Mutex
	messages []string
}

func (c *webhookCapture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.messages = append(c.messages, body["text"])
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func TestOrderFlowWithPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	logger := logging.Discard()
	st, err := postgres.Open(ctx, testsupport.StartPostgres(ctx, t), logger)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider().Meter("storefront-test"))
	require.NoError(t, err)

	publisher := &fakePublisher{}
	h, err := NewHandler(st, codes.NewGenerator(), publisher, metrics, logger, Config{
		WalletURL:  "https://wallet.example.com/add",
		AdminToken: "secret",
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Routes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	form := url.Values{
		"name":               {"Anna"},
		"contact":            {"tg:anna"},
		"order_details_json": {`[{"id":"A01","qty":1,"price":1500}]`},
	}
	resp, err := client.Post(server.URL+"/place_order", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Regexp(t, successLocation, resp.Header.Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	customer, err := st.FindCustomer(ctx, cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Anna", customer.Name)
	assert.True(t, customer.Registered)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]

	webhook := &webhookCapture{}
	hookServer := httptest.NewServer(webhook)
	defer hookServer.Close()

	notifier := notify.NewNotifier(notify.Config{
		WebhookURL:    hookServer.URL,
		StorefrontURL: server.URL,
		AdminToken:    "secret",
	}, &http.Client{Timeout: 10 * time.Second}, logger)
	require.NoError(t, notifier.HandleOrderPlaced(ctx, event))

	orders, err := st.ListOrders(ctx, cookie.Value)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusConfirmed, orders[0].Status)
	assert.Equal(t, int64(1500), orders[0].Total())

	require.Len(t, webhook.messages, 1)
	assert.Contains(t, webhook.messages[0], cookie.Value)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/profile", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
