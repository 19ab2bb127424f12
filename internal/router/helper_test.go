package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/config"
	"github.com/jwalitptl/clinic-api/internal/cache"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	"github.com/jwalitptl/clinic-api/internal/handler/auth"
	"github.com/jwalitptl/clinic-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/clinic-api/internal/handler/patient"
	staffHandler "github.com/jwalitptl/clinic-api/internal/handler/staff"
	"github.com/jwalitptl/clinic-api/internal/repository/memory"
	"github.com/jwalitptl/clinic-api/internal/router"
	appointmentService "github.com/jwalitptl/clinic-api/internal/service/appointment"
	coordinatorService "github.com/jwalitptl/clinic-api/internal/service/coordinator"
	identityService "github.com/jwalitptl/clinic-api/internal/service/identity"
	patientService "github.com/jwalitptl/clinic-api/internal/service/patient"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestAPI(t *testing.T, rateLimit config.RateLimitConfig) *testAPI {
	t.Helper()
	store := memory.NewStore()
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", registry)
	backend := cache.NewLocal(time.Minute)
	t.Cleanup(func() { backend.Close() })
	listing := cache.NewListing(backend, time.Minute, m)

	identity := identityService.NewService(store, security.NewBcryptHasher(bcrypt.MinCost), listing, "temp_password")
	patients := patientService.NewService(store, listing)
	appointments := appointmentService.NewService(store, listing)
	coordinator := coordinatorService.NewService(store, identity, listing, m)

	r := router.NewRouter(
		router.RouterConfig{
			RateLimit:      rateLimit,
			AllowedOrigins: []string{"*"},
			Metrics:        m,
		},
		health.NewHandler(store, registry),
		auth.NewHandler(identity),
		staffHandler.NewHandler(identity, coordinator, "temp_password"),
		patientHandler.NewHandler(patients),
		appointmentHandler.NewHandler(appointments, coordinator),
	)
	return &testAPI{engine: r.Engine(), store: store}
}

// TestResponse wraps a recorded response for assertions.
type TestResponse struct {
	Code    int
	RawData []byte
	Header  http.Header
}

func (r TestResponse) Object(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(r.RawData, &out), string(r.RawData))
	return out
}

func (r TestResponse) List(t *testing.T) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(r.RawData, &out), string(r.RawData))
	return out
}

func (r TestResponse) GetID(t *testing.T) int64 {
	t.Helper()
	id, ok := r.Object(t)["id"].(float64)
	require.True(t, ok, "response has no id: %s", r.RawData)
	return int64(id)
}

func (api *testAPI) makeRequest(method, path string, body interface{}) TestResponse {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	return TestResponse{Code: w.Code, RawData: w.Body.Bytes(), Header: w.Header()}
}
