package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kontribute/kontribute-backend/internal/config"
	"github.com/kontribute/kontribute-backend/internal/http/handlers"
	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/models"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/service"
	"github.com/kontribute/kontribute-backend/internal/ws"
)

type stubCollections struct{}

func (stubCollections) Create(context.Context, service.CreateCollectionInput) (*models.Collection, error) {
	return nil, apperror.Validation("The data are not valid")
}

func (stubCollections) Get(_ context.Context, slug string) (*service.CollectionDetail, error) {
	if slug != "known" {
		return nil, apperror.ErrCollectionNotFound
	}
	return &service.CollectionDetail{Collection: &models.Collection{ID: uuid.New(), Slug: slug}}, nil
}

func (stubCollections) Dashboard(context.Context, string) (*service.Dashboard, error) {
	return nil, apperror.ErrCollectionNotFound
}

func (stubCollections) UpdateBankDetails(context.Context, string, models.BankDetailsUpdate) (*models.Collection, error) {
	return nil, apperror.ErrCollectionNotFound
}

type stubWithdrawals struct{}

func (stubWithdrawals) RequestWithdrawal(context.Context, string) (*service.WithdrawalResult, error) {
	return nil, apperror.ErrNoPaidContributors
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func testEngine(t *testing.T) http.Handler {
	t.Helper()
	metrics.Init()
	cfg := &config.Config{
		Env:              "test",
		MediaStoragePath: t.TempDir(),
		AllowedOrigins:   []string{"http://localhost:3000"},
		RateLimitLimit:   100,
		RateLimitPeriod:  time.Minute,
	}
	collections := stubCollections{}
	return SetupRouter(cfg, Handlers{
		Collection:   handlers.NewCollectionHandler(collections, "https://kontribute.com"),
		Contribution: handlers.NewContributionHandler(nil, 1<<20, "/media/"),
		Withdrawal:   handlers.NewWithdrawalHandler(stubWithdrawals{}),
		Webhook:      handlers.NewWebhookHandler(),
		Health:       handlers.NewHealthHandler(okPinger{}),
		WS:           handlers.NewWSHandler(ws.NewHub(), collections, cfg.AllowedOrigins),
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutesResolveWithAndWithoutTrailingSlash(t *testing.T) {
	engine := testEngine(t)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/collections/known/", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/collections/known", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/collections/unknown/", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/collections/known/withdraw/", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/collections", "{}").Code)
}

func TestWebhookHealthAndMetrics(t *testing.T) {
	engine := testEngine(t)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/webhooks/paystack/", "{}").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "").Code)

	w := serve(engine, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	w := serve(testEngine(t), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
}

func TestDashboardSocketRequiresKnownCollection(t *testing.T) {
	w := serve(testEngine(t), http.MethodGet, "/collections/unknown/dashboard/ws", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
