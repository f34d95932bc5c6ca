package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextDefaultsToNoop(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NotNil(t, FromContext(req.Context()))
}

func TestRequestLoggerMiddlewareLogsCompletion(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	router := chi.NewRouter()
	router.Use(InjectLoggerMiddleware(logger))
	router.Use(RequestLoggerMiddleware())
	router.Get("/cards/{slug}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("rendering card")
		http.NotFound(w, r)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards/tasman", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "rendering card", entries[0].Message)
	require.Equal(t, "/cards/tasman", entries[0].ContextMap()["path"])

	completed := entries[1]
	require.Equal(t, "request completed", completed.Message)
	require.Equal(t, zapcore.WarnLevel, completed.Level)
	fields := completed.ContextMap()
	require.Equal(t, "/cards/{slug}", fields["route"])
	require.EqualValues(t, http.StatusNotFound, fields["status"])
	require.Equal(t, http.MethodGet, fields["method"])
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)

	handler := InjectLoggerMiddleware(zap.New(core))(RecoveryMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
