//go:build !integration

package middleware

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	promdto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/famroot-client/internal/metrics"
)

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		setupHandler   func(*gin.Engine)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "recovers from panic and returns 500",
			path: "/panic",
			setupHandler: func(router *gin.Engine) {
				router.GET("/panic", func(c *gin.Context) {
					panic("test panic")
				})
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), "internal_error")
			},
		},
		{
			name: "panic message follows Accept-Language",
			path: "/panic-pt",
			setupHandler: func(router *gin.Engine) {
				router.GET("/panic-pt", func(c *gin.Context) {
					c.Request.Header.Set("Accept-Language", "pt-BR")
					panic("falha")
				})
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), "Ocorreu um erro inesperado")
				assert.Contains(t, w.Body.String(), "request_id")
			},
		},
		{
			name: "dropped connection writes no body",
			path: "/gone",
			setupHandler: func(router *gin.Engine) {
				router.GET("/gone", func(c *gin.Context) {
					panic(&net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)})
				})
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Empty(t, w.Body.String())
			},
		},
		{
			name: "passes through when no panic",
			path: "/ok",
			setupHandler: func(router *gin.Engine) {
				router.GET("/ok", func(c *gin.Context) {
					c.String(http.StatusOK, "ok")
				})
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "ok", w.Body.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Recovery())
			tt.setupHandler(router)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestRecovery_CountsPanicsPerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery())
	router.GET("/api/cache", func(c *gin.Context) {
		panic("boom")
	})

	counter := metrics.AdminPanicsTotal.WithLabelValues("/api/cache")
	before := counterValue(t, counter.Write)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cache", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before+1, counterValue(t, counter.Write))
}

func TestBrokenPipe(t *testing.T) {
	tests := []struct {
		name string
		rec  interface{}
		want bool
	}{
		{"string panic", "boom", false},
		{"plain error", errors.New("boom"), false},
		{"broken pipe", &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}, true},
		{"connection reset", &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.ECONNRESET)}, true},
		{"other op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, brokenPipe(tt.rec))
		})
	}
}

func counterValue(t *testing.T, write func(*promdto.Metric) error) float64 {
	t.Helper()
	var m promdto.Metric
	if err := write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
