//go:build !integration

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/middleware"
)

func builderRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Any("/test", handler)
	return router
}

func TestResponseBuilder_Success(t *testing.T) {
	router := builderRouter(func(c *gin.Context) {
		NewResponseBuilder(c).Success(http.StatusCreated, map[string]string{"key": "theme"})
	})

	w := perform(router, http.MethodGet, "/test", "", map[string]string{"X-Request-ID": "req-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody[dto.SuccessResponse](t, w)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.NotZero(t, resp.Timestamp)
	assert.Equal(t, map[string]interface{}{"key": "theme"}, resp.Data)
}

func TestResponseBuilder_PooledEnvelopesAreReset(t *testing.T) {
	router := builderRouter(func(c *gin.Context) {
		if c.Query("fail") != "" {
			NewResponseBuilder(c).ErrorWithMessage(http.StatusBadRequest, "bad", &dto.ValidationError{Field: "url", Message: "is required"})
			return
		}
		NewResponseBuilder(c).SuccessOK("ok")
	})

	first := perform(router, http.MethodGet, "/test?fail=1", "", map[string]string{"X-Request-ID": "first"})
	require.Equal(t, http.StatusBadRequest, first.Code)

	second := perform(router, http.MethodGet, "/test?fail=1", "", nil)
	resp := decodeBody[dto.ErrorResponse](t, second)
	assert.NotEqual(t, "first", resp.RequestID)

	ok := perform(router, http.MethodGet, "/test", "", nil)
	assert.Equal(t, "ok", decodeBody[dto.SuccessResponse](t, ok).Data)
}

func TestResponseBuilder_Error(t *testing.T) {
	router := builderRouter(func(c *gin.Context) {
		NewResponseBuilder(c).Error(http.StatusNotFound, "error.preference_not_found", nil)
	})

	tests := []struct {
		name     string
		locale   string
		expected string
	}{
		{name: "english", locale: "", expected: "Preference not found"},
		{name: "portuguese", locale: "pt-BR,pt;q=0.9", expected: "Preferência não encontrada"},
		{name: "unsupported falls back", locale: "de", expected: "Preference not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.locale != "" {
				headers["Accept-Language"] = tt.locale
			}
			w := perform(router, http.MethodGet, "/test", "", headers)
			require.Equal(t, http.StatusNotFound, w.Code)

			resp := decodeBody[dto.ErrorResponse](t, w)
			assert.Equal(t, dto.ErrCodeNotFound, resp.Error)
			assert.Equal(t, tt.expected, resp.Message)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestResponseBuilder_StoreError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "cookies disabled", err: client.ErrCookiesDisabled, expectedStatus: http.StatusConflict, expectedCode: dto.ErrCodeConflict},
		{name: "no remote store", err: client.ErrNoPreferenceSync, expectedStatus: http.StatusServiceUnavailable, expectedCode: dto.ErrCodeServiceUnavailable},
		{name: "open circuit", err: fmt.Errorf("load preferences: %w", circuitbreaker.ErrCircuitOpen), expectedStatus: http.StatusServiceUnavailable, expectedCode: dto.ErrCodeServiceUnavailable},
		{name: "store failure", err: errors.New("connection reset"), expectedStatus: http.StatusBadGateway, expectedCode: dto.ErrCodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := builderRouter(func(c *gin.Context) {
				NewResponseBuilder(c).StoreError(tt.err)
			})

			w := perform(router, http.MethodGet, "/test", "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeBody[dto.ErrorResponse](t, w).Error)
		})
	}
}

func TestResponseBuilder_ClientError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expected       dto.ClientErrorResponse
	}{
		{
			name: "http",
			err: &client.Error{
				Kind:       client.KindHTTP,
				Message:    "request failed with status code 503",
				Status:     http.StatusServiceUnavailable,
				StatusText: "Service Unavailable",
				Data:       "maintenance",
			},
			expectedStatus: http.StatusBadGateway,
			expected: dto.ClientErrorResponse{
				Error:      dto.ErrCodeUpstream,
				Kind:       "http",
				Message:    "request failed with status code 503",
				Status:     http.StatusServiceUnavailable,
				StatusText: "Service Unavailable",
				Data:       "maintenance",
				RequestID:  "req-9",
			},
		},
		{
			name:           "request",
			err:            &client.Error{Kind: client.KindRequest, Message: "missing tenant header"},
			expectedStatus: http.StatusBadRequest,
			expected: dto.ClientErrorResponse{
				Error:     dto.ErrCodeInvalidRequest,
				Kind:      "request",
				Message:   "missing tenant header",
				RequestID: "req-9",
			},
		},
		{
			name:           "error replaced by an interceptor",
			err:            errors.New("session expired"),
			expectedStatus: http.StatusBadGateway,
			expected: dto.ClientErrorResponse{
				Error:     dto.ErrCodeUpstream,
				Kind:      "network",
				Message:   "session expired",
				RequestID: "req-9",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := builderRouter(func(c *gin.Context) {
				NewResponseBuilder(c).ClientError(tt.err)
			})

			w := perform(router, http.MethodGet, "/test", "", map[string]string{"X-Request-ID": "req-9"})
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expected, decodeBody[dto.ClientErrorResponse](t, w))
		})
	}
}

func TestBindJSON(t *testing.T) {
	bind := func(body string) (*dto.ClientRequest, error) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return BindJSON[dto.ClientRequest](c)
	}

	req, err := bind(`{"url": "/users", "cache_ttl": "10s"}`)
	require.NoError(t, err)
	assert.Equal(t, "/users", req.URL)

	_, err = bind(`{"url": "/users", "cache_ttl": "0s"}`)
	assert.Equal(t, dto.ErrInvalidCacheTTL, err)

	_, err = bind(`{"cache_ttl": "10s"}`)
	assert.Error(t, err)
	var verr *dto.ValidationError
	assert.False(t, errors.As(err, &verr))
}
