package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/MikeRez0/cropmart/docs"
	"github.com/MikeRez0/cropmart/internal/adapter/auth"
	"github.com/MikeRez0/cropmart/internal/adapter/bus"
	"github.com/MikeRez0/cropmart/internal/adapter/config"
	handler "github.com/MikeRez0/cropmart/internal/adapter/handler/http"
	"github.com/MikeRez0/cropmart/internal/adapter/metrics"
	"github.com/MikeRez0/cropmart/internal/adapter/realtime"
	"github.com/MikeRez0/cropmart/internal/adapter/storage/memory"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	router *handler.Router
	store  *memory.Store
	tokens *auth.PasetoToken
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := memory.New()
	b := bus.New(16, nil, logger)
	t.Cleanup(b.Close)
	tokens, err := auth.New(&config.Auth{})
	require.NoError(t, err)

	orders, err := service.NewOrderService(store, b, nil, logger)
	require.NoError(t, err)
	prices, err := service.NewPriceService(store, store, b, nil, logger)
	require.NoError(t, err)
	notifications, err := service.NewNotificationService(store, store, logger)
	require.NoError(t, err)
	gateway := realtime.NewGateway(b, tokens, store, orders, realtime.Options{}, nil, logger)

	oh, err := handler.NewOrderHandler(orders, logger)
	require.NoError(t, err)
	ph, err := handler.NewPriceHandler(prices, logger)
	require.NoError(t, err)
	nh, err := handler.NewNotificationHandler(notifications, logger)
	require.NoError(t, err)
	rh, err := handler.NewRealtimeHandler(gateway, nil, logger)
	require.NoError(t, err)
	th, err := handler.NewTokenHandler(tokens, logger)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	router, err := handler.NewRouter(&config.HTTP{}, logger, metrics.New(reg), tokens, handler.Handlers{
		Orders:        oh,
		Prices:        ph,
		Notifications: nh,
		Realtime:      rh,
		Tokens:        th,
		Gatherer:      reg,
	})
	require.NoError(t, err)

	return &fixture{router: router, store: store, tokens: tokens}
}

func (f *fixture) token(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	token, err := f.tokens.CreateToken(domain.Actor{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_Authentication(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "wrong type", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "malformed", header: "Bearer", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer v4.local.garbage", status: http.StatusUnauthorized},
		{name: "good token", header: "Bearer " + f.token(t, "buyer-1", domain.RoleBuyer), status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouter_IssueToken(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/auth/token", "", gin.H{"user_id": "farmer-9", "role": "farmer"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Token string `json:"token"`
	}](t, w)

	payload, err := f.tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "farmer-9", payload.UserID)

	w = f.do(http.MethodPost, "/api/auth/token", "", gin.H{"user_id": "x", "role": "guest"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_OrderFlow(t *testing.T) {
	f := newFixture(t)
	buyer := f.token(t, "buyer-1", domain.RoleBuyer)
	farmer := f.token(t, "farmer-1", domain.RoleFarmer)
	stranger := f.token(t, "farmer-2", domain.RoleFarmer)

	w := f.do(http.MethodPost, "/api/orders", farmer, gin.H{
		"crop_id": "tomato", "farmer_id": "farmer-1", "quantity": 1, "unit_price": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/api/orders", buyer, gin.H{
		"crop_id": "tomato", "farmer_id": "farmer-1", "quantity": 12.5, "unit": "kg", "unit_price": "40",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[map[string]any](t, w)
	assert.Equal(t, 500.0, order["total"])
	assert.Equal(t, "pending", order["status"])
	id := order["id"].(string)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name: "farmer confirms", method: http.MethodPost, path: "/api/orders/" + id + "/transitions",
			token: farmer, body: gin.H{"status": "confirmed", "expected_version": 1}, status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "confirmed", body["status"])
				assert.Len(t, body["status_history"], 1)
			},
		},
		{
			name: "stale version", method: http.MethodPost, path: "/api/orders/" + id + "/transitions",
			token: farmer, body: gin.H{"status": "cancelled", "expected_version": 1}, status: http.StatusConflict,
		},
		{
			name: "edge missing", method: http.MethodPost, path: "/api/orders/" + id + "/transitions",
			token: farmer, body: gin.H{"status": "shipped"}, status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "confirmed", body["from"])
				assert.Equal(t, "shipped", body["to"])
			},
		},
		{
			name: "buyer may not process", method: http.MethodPost, path: "/api/orders/" + id + "/transitions",
			token: buyer, body: gin.H{"status": "processing"}, status: http.StatusForbidden,
		},
		{
			name: "unknown order", method: http.MethodPost, path: "/api/orders/missing/transitions",
			token: farmer, body: gin.H{"status": "confirmed"}, status: http.StatusNotFound,
		},
		{
			name: "party reads order", method: http.MethodGet, path: "/api/orders/" + id,
			token: buyer, status: http.StatusOK,
		},
		{
			name: "stranger reads order", method: http.MethodGet, path: "/api/orders/" + id,
			token: stranger, status: http.StatusForbidden,
		},
		{
			name: "missing body", method: http.MethodPost, path: "/api/orders/" + id + "/transitions",
			token: farmer, status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decode[map[string]any](t, w))
			}
		})
	}

	w = f.do(http.MethodGet, "/api/orders", farmer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestRouter_Prices(t *testing.T) {
	f := newFixture(t)
	farmer := f.token(t, "farmer-1", domain.RoleFarmer)
	buyer := f.token(t, "buyer-1", domain.RoleBuyer)
	admin := f.token(t, "admin-1", domain.RoleAdmin)

	now := time.Now().UTC().Truncate(time.Second)
	sample := func(price float64, at time.Time) gin.H {
		return gin.H{
			"crop_id": "tomato", "price": price, "unit": "kg",
			"state": "Karnataka", "district": "Kolar", "observed_at": at.Format(time.RFC3339),
		}
	}

	tests := []struct {
		name   string
		token  string
		body   any
		status int
	}{
		{name: "farmer sample", token: farmer, body: sample(40, now.Add(-2*time.Hour)), status: http.StatusCreated},
		{name: "second sample", token: farmer, body: sample(50, now.Add(-time.Hour)), status: http.StatusCreated},
		{name: "older sample", token: farmer, body: sample(10, now.Add(-3*time.Hour)), status: http.StatusAccepted},
		{name: "buyer not allowed", token: buyer, body: sample(40, now), status: http.StatusForbidden},
		{name: "negative price", token: admin, body: sample(-1, now), status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/prices/samples", tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := f.do(http.MethodGet, "/api/prices/tomato/aggregate?level=district&state=karnataka&district=kolar", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	agg := decode[map[string]any](t, w)
	assert.Equal(t, 2.0, agg["count"])
	assert.Equal(t, 45.0, agg["mean"])
	assert.Equal(t, 50.0, agg["last_price"])

	w = f.do(http.MethodGet, "/api/prices/tomato/aggregates", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 3)

	from := now.Add(-4 * time.Hour).Format(time.RFC3339)
	to := now.Format(time.RFC3339)
	w = f.do(http.MethodGet, "/api/prices/tomato/history?bucket=2h&from="+from+"&to="+to, buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	points := decode[[]map[string]any](t, w)
	require.Len(t, points, 2)
	assert.Equal(t, 1.0, points[0]["count"])
	assert.Equal(t, 2.0, points[1]["count"])

	w = f.do(http.MethodGet, "/api/prices/tomato/history?bucket=soon", buyer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/admin/prices/tomato/recompute", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, w)["count"])

	w = f.do(http.MethodPost, "/api/admin/prices/reseed", buyer, gin.H{"crop_id": "tomato"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(http.MethodPost, "/api/admin/prices/reseed", admin, gin.H{"crop_id": "tomato"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = f.do(http.MethodPost, "/api/admin/prices/reseed", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3.0, decode[map[string]any](t, w)["reseeded"])

	w = f.do(http.MethodGet, "/api/prices/tomato/aggregate", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode[map[string]any](t, w)["count"])
}

func TestRouter_NotificationsAndAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.token(t, "buyer-1", domain.RoleBuyer)

	base := time.Now().UTC()
	for i, id := range []string{"n1", "n2", "n3"} {
		_, err := f.store.CreateNotification(ctx, &domain.Notification{
			ID: id, UserID: "buyer-1", Type: domain.NotificationOrderStatus,
			Title: "Order update", Message: id, CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	w := f.do(http.MethodPost, "/api/notifications/n1/read", buyer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodPost, "/api/notifications/missing/read", buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/notifications?unread=true", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	unread := decode[[]domain.Notification](t, w)
	require.Len(t, unread, 2)
	assert.Equal(t, "n3", unread[0].ID)

	w = f.do(http.MethodPost, "/api/notifications/read", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode[map[string]any](t, w)["updated"])

	w = f.do(http.MethodDelete, "/api/notifications", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, w)["deleted"])

	alertTests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "national default", body: gin.H{"crop_id": "tomato", "condition": "above", "threshold": 45}, status: http.StatusCreated},
		{name: "bad condition", body: gin.H{"crop_id": "tomato", "condition": "sideways", "threshold": 45}, status: http.StatusBadRequest},
		{name: "district without name", body: gin.H{
			"crop_id": "tomato", "condition": "below", "threshold": 10,
			"scope": gin.H{"level": "district", "state": "Karnataka"},
		}, status: http.StatusBadRequest},
	}
	for _, tt := range alertTests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/alerts", buyer, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w = f.do(http.MethodGet, "/api/alerts", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	alerts := decode[[]domain.PriceAlert](t, w)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Armed)
	assert.Equal(t, domain.ScopeNational, alerts[0].Scope.Level)

	w = f.do(http.MethodDelete, "/api/alerts/"+alerts[0].ID, buyer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodDelete, "/api/alerts/"+alerts[0].ID, buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Operations(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "admin-1", domain.RoleAdmin)
	buyer := f.token(t, "buyer-1", domain.RoleBuyer)

	w := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/admin/realtime/stats", buyer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(http.MethodGet, "/api/admin/realtime/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode[map[string]any](t, w)["connections"])

	w = f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "cropmart_http_requests_total"))
}

func TestRouter_Docs(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{name: "ui", path: "/docs/index.html", contains: "swagger-ui"},
		{name: "document", path: "/docs/doc.json", contains: "/orders/{id}/transitions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}
