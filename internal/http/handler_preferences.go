package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// ListPreferences handles GET /api/preferences.
//
// @Summary      List preferences
// @Description  The whole local preference bag. Empty when cookies are disabled.
// @Tags         Preferences
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=map[string]interface{}}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/preferences [get]
func (h *Handler) ListPreferences(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.client.GetAllPreferences())
}

// GetPreference handles GET /api/preferences/{key}.
//
// @Summary      Get a preference
// @Tags         Preferences
// @Produce      json
// @Param        key path string true "Preference key"
// @Success      200 {object} dto.SuccessResponse{data=dto.PreferenceResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "Preference not set"
// @Security     BearerAuth
// @Router       /api/preferences/{key} [get]
func (h *Handler) GetPreference(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	value, ok := h.client.GetPreference(key)
	if !ok {
		builder.Error(http.StatusNotFound, i18n.ErrKeyPreferenceNotFound, nil)
		return
	}
	builder.SuccessOK(dto.PreferenceResponse{Key: key, Value: value})
}

// SetPreference handles PUT /api/preferences/{key}.
//
// @Summary      Set a preference
// @Description  Stores any JSON value under key. api_cache_size sizes the response cache the next time the client starts.
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Param        key path string true "Preference key"
// @Param        request body dto.SetPreferenceRequest true "Preference value"
// @Success      200 {object} dto.SuccessResponse{data=dto.PreferenceResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      409 {object} dto.ErrorResponse "Cookies are disabled"
// @Security     BearerAuth
// @Router       /api/preferences/{key} [put]
func (h *Handler) SetPreference(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	req, err := BindJSON[dto.SetPreferenceRequest](c)
	if err != nil {
		builder.BindError(err)
		return
	}

	if err := h.client.SetPreference(key, req.Value); err != nil {
		middleware.AuditLogError(c, middleware.ActionPreferenceSet, "Preference update failed", err, map[string]interface{}{
			"key": key,
		})
		localStoreError(builder, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionPreferenceSet, "Preference updated", map[string]interface{}{
		"key": key,
	})
	builder.SuccessOK(dto.PreferenceResponse{Key: key, Value: req.Value})
}

// RemovePreference handles DELETE /api/preferences/{key}.
//
// @Summary      Remove a preference
// @Tags         Preferences
// @Produce      json
// @Param        key path string true "Preference key"
// @Success      204 "Preference removed"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      409 {object} dto.ErrorResponse "Cookies are disabled"
// @Security     BearerAuth
// @Router       /api/preferences/{key} [delete]
func (h *Handler) RemovePreference(c *gin.Context) {
	key := c.Param("key")

	if err := h.client.RemovePreference(key); err != nil {
		localStoreError(NewResponseBuilder(c), err)
		return
	}

	middleware.AuditLog(c, middleware.ActionPreferenceRemove, "Preference removed", map[string]interface{}{
		"key": key,
	})
	c.Status(http.StatusNoContent)
}

// SavePreferences handles POST /api/preferences/save.
//
// @Summary      Save preferences remotely
// @Description  Copies the local preference bag to the remote store.
// @Tags         Preferences
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      409 {object} dto.ErrorResponse "Cookies are disabled"
// @Failure      502 {object} dto.ErrorResponse "Remote store failed"
// @Failure      503 {object} dto.ErrorResponse "No remote store or circuit open"
// @Security     BearerAuth
// @Router       /api/preferences/save [post]
func (h *Handler) SavePreferences(c *gin.Context) {
	h.syncPreferences(c, "save", h.client.SavePreferences, i18n.SuccessKeyPreferencesSaved)
}

// LoadPreferences handles POST /api/preferences/load.
//
// @Summary      Load preferences from the remote store
// @Description  Replaces the local preference bag with the remote one. An empty remote bag or a failure leaves local preferences untouched.
// @Tags         Preferences
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      409 {object} dto.ErrorResponse "Cookies are disabled"
// @Failure      502 {object} dto.ErrorResponse "Remote store failed"
// @Failure      503 {object} dto.ErrorResponse "No remote store or circuit open"
// @Security     BearerAuth
// @Router       /api/preferences/load [post]
func (h *Handler) LoadPreferences(c *gin.Context) {
	h.syncPreferences(c, "load", h.client.LoadPreferences, i18n.SuccessKeyPreferencesLoaded)
}

func (h *Handler) syncPreferences(c *gin.Context, direction string, sync func(ctx context.Context) error, successKey string) {
	fields := map[string]interface{}{"direction": direction}
	if err := sync(c.Request.Context()); err != nil {
		middleware.AuditLogError(c, middleware.ActionPreferencesSync, "Preference sync failed", err, fields)
		NewResponseBuilder(c).StoreError(err)
		return
	}
	middleware.AuditLog(c, middleware.ActionPreferencesSync, "Preferences synced", fields)
	NewResponseBuilder(c).Message(successKey)
}

func localStoreError(builder *ResponseBuilder, err error) {
	if errors.Is(err, client.ErrCookiesDisabled) {
		builder.Error(http.StatusConflict, i18n.ErrKeyCookiesDisabled, err)
		return
	}
	builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
}
