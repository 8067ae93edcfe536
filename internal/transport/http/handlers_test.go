package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"genaidash/internal/config"
	"genaidash/internal/dataprocessing"
	apierrors "genaidash/internal/errors"
	"genaidash/internal/middleware"
	"genaidash/internal/services"
	"genaidash/pkg/contracts"
	api "genaidash/pkg/contracts/api/v1"
	"genaidash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Settings() config.Settings {
	return m.Called().Get(0).(config.Settings)
}

func (m *MockDashboardService) Summarize(ctx context.Context, sources []string) (domain.DatasetSummary, error) {
	args := m.Called(sources)
	return args.Get(0).(domain.DatasetSummary), args.Error(1)
}

func (m *MockDashboardService) Generate(ctx context.Context, req services.GenerateRequest) (domain.GenerationRun, error) {
	args := m.Called(req)
	return args.Get(0).(domain.GenerationRun), args.Error(1)
}

func (m *MockDashboardService) History(ctx context.Context, limit int) ([]domain.GenerationRun, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GenerationRun), args.Error(1)
}

func (m *MockDashboardService) Run(ctx context.Context, id string) (domain.GenerationRun, error) {
	args := m.Called(id)
	return args.Get(0).(domain.GenerationRun), args.Error(1)
}

type staticHealth struct{}

func (staticHealth) HealthCheck(context.Context) api.HealthResponse {
	return api.HealthResponse{Status: "ok", Version: "test", Uptime: "1s"}
}

func (staticHealth) Version() contracts.VersionInfo {
	return contracts.VersionInfo{Version: "test", APIVersion: contracts.APIVersion}
}

func newTestRouter(svc DashboardServiceInterface, metrics http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewRouter(RouterConfig{
		Dashboard:    svc,
		Health:       staticHealth{},
		Metrics:      metrics,
		RateLimiter:  middleware.NewRateLimiter(1000, 1000, errorHandler, logger),
		ErrorHandler: errorHandler,
		Logger:       logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthCheck(t *testing.T) {
	rec := doJSON(t, newTestRouter(new(MockDashboardService), nil), http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestVersion(t *testing.T) {
	rec := doJSON(t, newTestRouter(new(MockDashboardService), nil), http.MethodGet, "/api/version", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, contracts.APIVersion, body["api_version"])
}

func TestGetSettings(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Settings").Return(config.Defaults().Redacted())

	rec := doJSON(t, newTestRouter(svc, nil), http.MethodGet, "/api/settings", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	privacy := body["privacy"].(map[string]interface{})
	assert.Equal(t, "********", privacy["hash_salt"])
	svc.AssertExpectations(t)
}

func TestProcess(t *testing.T) {
	table := dataprocessing.NewTable([]string{"region", "sales"})
	table.AppendRow([]dataprocessing.Value{dataprocessing.TextValue("north"), dataprocessing.NumberValue(10)})
	table.AppendRow([]dataprocessing.Value{dataprocessing.TextValue("south"), dataprocessing.NumberValue(20)})
	table.InferKinds()
	summary := dataprocessing.Summarize(table)

	tests := []struct {
		name       string
		body       string
		setup      func(*MockDashboardService)
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "summarizes cleaned table",
			body: `{"sources":["a.csv"]}`,
			setup: func(m *MockDashboardService) {
				m.On("Summarize", []string{"a.csv"}).Return(summary, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(2), body["rows"])
				assert.Len(t, body["columns"], 2)
			},
		},
		{
			name:       "empty sources rejected",
			body:       `{"sources":[]}`,
			setup:      func(m *MockDashboardService) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apierrors.TypeValidation, body["type"])
			},
		},
		{
			name: "parsing failure maps to 422",
			body: `{"sources":["bad.csv"]}`,
			setup: func(m *MockDashboardService) {
				m.On("Summarize", []string{"bad.csv"}).Return(domain.DatasetSummary{}, apierrors.NewParsingError("no columns to parse: bad.csv", nil))
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "PARSING", body["error_type"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setup(svc)

			rec := doJSON(t, newTestRouter(svc, nil), http.MethodPost, "/api/process", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decodeBody(t, rec))
			svc.AssertExpectations(t)
		})
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockDashboardService)
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "created",
			body: `{"region":"eu-west-1","sources":["a.csv"],"output_bucket":"bucket"}`,
			setup: func(m *MockDashboardService) {
				m.On("Generate", services.GenerateRequest{
					Region:       "eu-west-1",
					Sources:      []string{"a.csv"},
					OutputBucket: "bucket",
				}).Return(domain.GenerationRun{ID: "run-1", URL: "https://example.test/d"}, nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "run-1", body["run_id"])
				assert.Equal(t, "https://example.test/d", body["url"])
			},
		},
		{
			name: "missing source maps to 400",
			body: `{"sources":["missing.csv"]}`,
			setup: func(m *MockDashboardService) {
				m.On("Generate", services.GenerateRequest{Sources: []string{"missing.csv"}}).
					Return(domain.GenerationRun{Status: domain.RunStatusFailed},
						apierrors.NewValidationError("data source not found: missing.csv"))
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apierrors.TypeDataSource, body["type"])
				assert.Equal(t, "data source not found: missing.csv", body["detail"])
			},
		},
		{
			name:       "malformed body",
			body:       `{"sources":`,
			setup:      func(m *MockDashboardService) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "INVALID_REQUEST", body["error_code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setup(svc)

			rec := doJSON(t, newTestRouter(svc, nil), http.MethodPost, "/api/dashboards", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decodeBody(t, rec))
			svc.AssertExpectations(t)
		})
	}
}

func TestListRuns(t *testing.T) {
	runs := []domain.GenerationRun{{ID: "b"}, {ID: "a"}}

	t.Run("default limit", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("History", 50).Return(runs, nil)

		rec := doJSON(t, newTestRouter(svc, nil), http.MethodGet, "/api/dashboards", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.HistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, runs, resp.Runs)
		svc.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("History", 5).Return([]domain.GenerationRun{}, nil)

		rec := doJSON(t, newTestRouter(svc, nil), http.MethodGet, "/api/dashboards?limit=5", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		svc := new(MockDashboardService)

		rec := doJSON(t, newTestRouter(svc, nil), http.MethodGet, "/api/dashboards?limit=1000", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "History", mock.Anything)
	})
}

func TestGetRun(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*MockDashboardService)
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "found",
			setup: func(m *MockDashboardService) {
				m.On("Run", "run-1").Return(domain.GenerationRun{ID: "run-1", Region: "us-east-1"}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "run-1", body["id"])
			},
		},
		{
			name: "missing",
			setup: func(m *MockDashboardService) {
				m.On("Run", "run-1").Return(domain.GenerationRun{}, apierrors.NewNotFoundError("run run-1"))
			},
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apierrors.TypeNotFound, body["type"])
				assert.Equal(t, "NOT_FOUND", body["error_type"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setup(svc)

			rec := doJSON(t, newTestRouter(svc, nil), http.MethodGet, "/api/dashboards/run-1", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decodeBody(t, rec))
			svc.AssertExpectations(t)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestRouter(new(MockDashboardService), nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "# HELP up\n")
	})
	rec = doJSON(t, newTestRouter(new(MockDashboardService), exporter), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP")
}

func TestUnknownRoute(t *testing.T) {
	rec := doJSON(t, newTestRouter(new(MockDashboardService), nil), http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.TypeNotFound, decodeBody(t, rec)["type"])
}
