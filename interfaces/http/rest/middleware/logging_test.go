package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"astroguia-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(Logger(logger))
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(common.WithUserID(req.Context(), "user-9")))
			})
		})
		r.Get("/api/v1/charts/{chartId}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestLogger_RouteAndCaller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newLoggedRouter(zap.New(core))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/c-123", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/v1/charts/{chartId}", fields["route"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestLogger_AnonymousAndUnmatched(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newLoggedRouter(zap.New(core))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	health := entries[0].ContextMap()
	assert.Equal(t, "/health", health["route"])
	assert.NotContains(t, health, "user_id")

	missing := entries[1].ContextMap()
	assert.Equal(t, "unmatched", missing["route"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
