package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
)

const (
	// ClaimsKey is the gin context key holding the validated *auth.Claims.
	ClaimsKey = "admin_claims"
	// SubjectKey is the gin context key holding the token subject.
	SubjectKey = "admin_subject"
)

// TokenValidator validates admin tokens. *auth.Issuer implements it.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWTAuth returns a middleware that requires a valid admin bearer token.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.GetLocale(c)
		requestID := GetRequestID(c)
		reject := func(key string) {
			message := i18n.GetTranslator().Translate(key, locale)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(requestID))
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(i18n.ErrKeyTokenRequired)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			reject(i18n.ErrKeyInvalidToken)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			reject(i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := validator.Validate(tokenString)
		if err != nil {
			reject(i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

// GetClaims returns the claims set by JWTAuth.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetSubject returns the token subject set by JWTAuth, or "".
func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
