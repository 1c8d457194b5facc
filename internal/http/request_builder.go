package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// Response DTO pools for reducing allocations.
var (
	successResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.SuccessResponse{}
		},
	}

	errorResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.ErrorResponse{}
		},
	}
)

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	resp.Data = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	successResponsePool.Put(resp)
}

func getErrorResponse() *dto.ErrorResponse {
	if resp, ok := errorResponsePool.Get().(*dto.ErrorResponse); ok {
		return resp
	}
	return &dto.ErrorResponse{}
}

func putErrorResponse(resp *dto.ErrorResponse) {
	resp.Error = ""
	resp.Message = ""
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	resp.Details = nil
	errorResponsePool.Put(resp)
}

// Validator is implemented by request DTOs that check more than binding tags can.
type Validator interface {
	Validate() error
}

// BindJSON binds the JSON body into T and runs its Validate method when it has one.
func BindJSON[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// BindQuery binds the query string into T.
func BindQuery[T any](c *gin.Context) (*T, error) {
	var q T
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ResponseBuilder writes the admin API envelopes. Envelopes come from
// sync.Pool and go back once gin has serialized them.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data wrapped in a SuccessResponse.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := getSuccessResponse()
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	b.c.JSON(statusCode, resp)

	// gin serializes synchronously, so the envelope is free again here.
	putSuccessResponse(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Message sends a 200 OK response carrying a translated confirmation.
func (b *ResponseBuilder) Message(messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	b.SuccessOK(dto.MessageResponse{Message: message})
}

// Error sends an error response with a translated message.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	b.ErrorWithMessage(statusCode, message, err)
}

// ErrorWithMessage sends an error response with a literal message.
func (b *ResponseBuilder) ErrorWithMessage(statusCode int, message string, err error) {
	resp := getErrorResponse()
	resp.Error = dto.ErrCodeFromStatus(statusCode)
	resp.Message = message
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		resp.Details = map[string]string{verr.Field: verr.Message}
	}

	// Recorded for the error handler middleware to log.
	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)

	putErrorResponse(resp)
}

// BindError answers a failed bind or validation with 400.
func (b *ResponseBuilder) BindError(err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		b.ErrorWithMessage(http.StatusBadRequest, verr.Error(), err)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// StoreError maps errors from the local and remote preference stores.
func (b *ResponseBuilder) StoreError(err error) {
	switch {
	case errors.Is(err, client.ErrCookiesDisabled):
		b.Error(http.StatusConflict, i18n.ErrKeyCookiesDisabled, err)
	case errors.Is(err, client.ErrNoPreferenceSync):
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyRemoteStoreDisabled, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
	default:
		b.Error(http.StatusBadGateway, i18n.ErrKeyUpstreamFailed, err)
	}
}

// ClientError sends the normalized failure of a request issued through the client.
// Requests that were never dispatched answer 400, upstream failures 502.
func (b *ResponseBuilder) ClientError(err error) {
	resp := dto.ClientErrorResponse{
		Error:     dto.ErrCodeUpstream,
		Kind:      client.KindNetwork.String(),
		Message:   err.Error(),
		RequestID: middleware.GetRequestID(b.c),
	}
	statusCode := http.StatusBadGateway

	if cerr, ok := client.AsError(err); ok {
		resp.Kind = cerr.Kind.String()
		resp.Status = cerr.Status
		resp.StatusText = cerr.StatusText
		resp.Data = cerr.Data
		if cerr.Kind == client.KindRequest {
			statusCode = http.StatusBadRequest
			resp.Error = dto.ErrCodeInvalidRequest
		}
	}

	_ = b.c.Error(err)
	b.c.AbortWithStatusJSON(statusCode, resp)
}
