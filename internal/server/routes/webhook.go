// Package routes registers the bot's HTTP endpoints.
package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SAIZENtm1/tgbot/internal/survey"
)

const (
	// SecretTokenHeader carries Telegram's shared webhook secret.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
	maxPayloadBytes   = 1 << 20
)

// WebhookRoutes exposes the Telegram webhook and the health check.
type WebhookRoutes struct {
	router *survey.Router
	secret string
}

// NewWebhookRoutes constructs the webhook endpoints. An empty secret
// disables the header check.
func NewWebhookRoutes(router *survey.Router, secret string) *WebhookRoutes {
	return &WebhookRoutes{router: router, secret: secret}
}

// RegisterRoutes registers the endpoints on the Echo instance.
func (w *WebhookRoutes) RegisterRoutes(e *echo.Echo) {
	e.GET("/", w.handleHealth)
	e.POST("/webhook", w.handleWebhook)
}

func (w *WebhookRoutes) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// handleWebhook answers 200 "OK" for every structurally acceptable delivery,
// duplicates and unrecognized shapes included, so Telegram stops retrying.
// Only a secret mismatch (403) and an unexpected internal failure (500)
// break that contract.
func (w *WebhookRoutes) handleWebhook(c echo.Context) error {
	if w.secret != "" && c.Request().Header.Get(SecretTokenHeader) != w.secret {
		return c.String(http.StatusForbidden, "forbidden")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPayloadBytes))
	if err != nil {
		return c.String(http.StatusOK, "OK")
	}

	if err := w.router.Handle(c.Request().Context(), body); err != nil {
		return err
	}
	return c.String(http.StatusOK, "OK")
}
