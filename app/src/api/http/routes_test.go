package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLatencyService struct {
	overnightResult []domain.LatencyPoint
	overnightErr    error
	rollingResult   []domain.LatencyPoint
	rollingErr      error
	recordErr       error

	lastRecord domain.RawRecord
}

func (s *stubLatencyService) Record(ctx context.Context, raw domain.RawRecord) error {
	s.lastRecord = raw
	return s.recordErr
}

func (s *stubLatencyService) Overnight(ctx context.Context) ([]domain.LatencyPoint, error) {
	return s.overnightResult, s.overnightErr
}

func (s *stubLatencyService) Rolling(ctx context.Context) ([]domain.LatencyPoint, error) {
	return s.rollingResult, s.rollingErr
}

func newTestRouter(service domain.LatencyService) http.Handler {
	router := chi.NewRouter()
	h := &handler{service: service, logger: infra.NewLogger(io.Discard, "test"), staticDir: "testdata"}
	registerRoutes(router, h)
	return router
}

func TestRegisterRoutesRegistersHealthEndpoints(t *testing.T) {
	t.Log("Шаг 1: регистрируем роуты и проверяем эндпоинты здоровья")
	router := newTestRouter(&stubLatencyService{})

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestIndexPageLinksDashboards(t *testing.T) {
	router := newTestRouter(&stubLatencyService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/latency-heatmap")
	assert.Contains(t, rr.Body.String(), "Latency Dashboard")
}

func TestOvernightEndpointReturnsSeries(t *testing.T) {
	t.Log("Шаг 1: сервис отдаёт две точки за ночное окно")
	points := []domain.LatencyPoint{
		{Timestamp: 1741572930, Broker: "IBKR", LatencyMS: 12.5},
		{Timestamp: 1741572931, Broker: "ALPACA", LatencyMS: 8},
	}
	router := newTestRouter(&stubLatencyService{overnightResult: points})

	req := httptest.NewRequest(http.MethodGet, "/api/latency", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var payload []domain.LatencyPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, points, payload)
}

func TestOvernightEndpointEmptySeriesIsArray(t *testing.T) {
	t.Log("Шаг 1: пустое окно сериализуется как [], а не null")
	router := newTestRouter(&stubLatencyService{overnightResult: []domain.LatencyPoint{}})

	req := httptest.NewRequest(http.MethodGet, "/api/latency", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestOvernightEndpointStoreError(t *testing.T) {
	router := newTestRouter(&stubLatencyService{overnightErr: errors.New("pq: connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/latency", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Database error", payload["error"])
	assert.NotContains(t, rr.Body.String(), "pq:")
}

func TestTimeseriesEndpointReturnsRollingWindow(t *testing.T) {
	points := []domain.LatencyPoint{{Timestamp: 1741572930, Broker: "IBKR", LatencyMS: 12.5}}
	service := &stubLatencyService{rollingResult: points}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/latency/timeseries", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var payload []domain.LatencyPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, points, payload)
}

func TestIngestAcceptsValidMeasurement(t *testing.T) {
	t.Log("Шаг 1: POST валидной записи возвращает 201 с сообщением")
	service := &stubLatencyService{}
	router := newTestRouter(service)

	body := strings.NewReader(`{"broker":"IBKR","latency_ms":12.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/latency", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Data inserted successfully", payload["message"])
	assert.Equal(t, "IBKR", service.lastRecord["broker"])
}

func TestIngestRejectsValidationFailure(t *testing.T) {
	t.Log("Шаг 1: ошибка валидации транслируется в 400 с причиной")
	service := &stubLatencyService{recordErr: &domain.ValidationError{
		Field:  "broker",
		Reason: "broker must be a non-empty string with max 50 characters",
	}}
	router := newTestRouter(service)

	body := strings.NewReader(`{"broker":"","latency_ms":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/latency", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "broker must be a non-empty string with max 50 characters", payload["error"])
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubLatencyService{})

	body := strings.NewReader(`{"broker":`)
	req := httptest.NewRequest(http.MethodPost, "/api/latency", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIngestRejectsTrailingContent(t *testing.T) {
	t.Log("Шаг 1: тело с данными после первого JSON-объекта отклоняется")
	service := &stubLatencyService{}
	router := newTestRouter(service)

	body := strings.NewReader(`{"broker":"IBKR","latency_ms":1} garbage`)
	req := httptest.NewRequest(http.MethodPost, "/api/latency", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Invalid JSON body", payload["error"])
	assert.Nil(t, service.lastRecord)
}

func TestIngestStoreErrorIsOpaque(t *testing.T) {
	router := newTestRouter(&stubLatencyService{recordErr: errors.New("pq: out of connections")})

	body := strings.NewReader(`{"broker":"IBKR","latency_ms":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/latency", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Database error", payload["error"])
}
