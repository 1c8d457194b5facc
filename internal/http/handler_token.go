package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// TokenStatus handles GET /api/token.
//
// @Summary      Upstream token status
// @Description  Whether the client holds a bearer token for the upstream API and, for JWTs, its subject and expiry. The token itself is never returned.
// @Tags         Token
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.TokenStatusResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/token [get]
func (h *Handler) TokenStatus(c *gin.Context) {
	resp := dto.TokenStatusResponse{}
	if token, ok := h.client.AuthToken(); ok {
		resp.Present = true
		// Opaque tokens are reported as present only.
		if info, err := auth.Inspect(token); err == nil {
			resp.Subject = info.Subject
			if !info.ExpiresAt.IsZero() {
				expiresAt := info.ExpiresAt
				resp.ExpiresAt = &expiresAt
			}
			resp.Expired = info.Expired(h.now())
		}
	}
	NewResponseBuilder(c).SuccessOK(resp)
}

// SetToken handles PUT /api/token.
//
// @Summary      Set the upstream token
// @Description  Stores the bearer token sent to the upstream API. The response cache is left alone.
// @Tags         Token
// @Accept       json
// @Produce      json
// @Param        request body dto.SetTokenRequest true "Bearer token"
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/token [put]
func (h *Handler) SetToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindJSON[dto.SetTokenRequest](c)
	if err != nil {
		builder.BindError(err)
		return
	}

	if err := h.client.SetAuthToken(req.Token); err != nil {
		middleware.AuditLogError(c, middleware.ActionTokenSet, "Upstream token update failed", err, nil)
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionTokenSet, "Upstream token updated", nil)
	builder.Message(i18n.SuccessKeyTokenUpdated)
}

// RemoveToken handles DELETE /api/token.
//
// @Summary      Remove the upstream token
// @Tags         Token
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/token [delete]
func (h *Handler) RemoveToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if err := h.client.RemoveAuthToken(); err != nil {
		middleware.AuditLogError(c, middleware.ActionTokenRemove, "Upstream token removal failed", err, nil)
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionTokenRemove, "Upstream token removed", nil)
	builder.Message(i18n.SuccessKeyTokenRemoved)
}
