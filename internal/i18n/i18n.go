// Package i18n translates the messages returned by the admin API.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":       "Invalid request",
			"error.invalid_request_body":  "Invalid request body",
			"error.internal_error":        "An unexpected error occurred",
			"error.unauthorized":          "Unauthorized",
			"error.forbidden":             "Forbidden",
			"error.not_found":             "Not found",
			"error.rate_limit_exceeded":   "Too many requests, please try again later",
			"error.invalid_token":         "Invalid or expired token",
			"error.token_required":        "Authentication token is required",
			"error.timeout":               "Request timeout",
			"error.preference_not_found":  "Preference not found",
			"error.cookies_disabled":      "Cookies are disabled for this client",
			"error.remote_store_disabled": "No remote store is configured",
			"error.upstream_failed":       "Upstream request failed",
			"error.service_unavailable":   "Remote store is temporarily unavailable",

			"success.cache_cleared":      "Cache cleared",
			"success.logs_cleared":       "Request logs cleared",
			"success.preferences_saved":  "Preferences saved to the remote store",
			"success.preferences_loaded": "Preferences loaded from the remote store",
			"success.token_updated":      "Token updated",
			"success.token_removed":      "Token removed",
		},
		"pt": {
			"error.invalid_request":       "Requisição inválida",
			"error.invalid_request_body":  "Corpo da requisição inválido",
			"error.internal_error":        "Ocorreu um erro inesperado",
			"error.unauthorized":          "Não autorizado",
			"error.forbidden":             "Proibido",
			"error.not_found":             "Não encontrado",
			"error.rate_limit_exceeded":   "Muitas requisições, tente novamente mais tarde",
			"error.invalid_token":         "Token inválido ou expirado",
			"error.token_required":        "Token de autenticação é obrigatório",
			"error.timeout":               "Tempo limite da requisição esgotado",
			"error.preference_not_found":  "Preferência não encontrada",
			"error.cookies_disabled":      "Cookies estão desativados neste cliente",
			"error.remote_store_disabled": "Nenhum armazenamento remoto configurado",
			"error.upstream_failed":       "A requisição ao servidor falhou",
			"error.service_unavailable":   "Armazenamento remoto temporariamente indisponível",

			"success.cache_cleared":      "Cache limpo",
			"success.logs_cleared":       "Registros de requisições limpos",
			"success.preferences_saved":  "Preferências salvas no armazenamento remoto",
			"success.preferences_loaded": "Preferências carregadas do armazenamento remoto",
			"success.token_updated":      "Token atualizado",
			"success.token_removed":      "Token removido",
		},
	}
}
