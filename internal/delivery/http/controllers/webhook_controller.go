package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"noshowblocklist/internal/delivery/http/helpers"
	"noshowblocklist/internal/domain"
)

type WebhookController struct {
	Logger     *slog.Logger
	Dispatcher domain.WebhookDispatcher
}

func NewWebhookController(logger *slog.Logger, dispatcher domain.WebhookDispatcher) *WebhookController {
	return &WebhookController{
		Logger:     logger,
		Dispatcher: dispatcher,
	}
}

// Receive godoc
// @Summary Receive a pretix webhook
// @Description Routes pretix.event.added to the event registrar and pretix.event.order.placed.require_approval to the approval gate. Other actions are acknowledged and ignored. Runs synchronously; the status reflects the outcome.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Security BasicAuth
// @Param payload body domain.WebhookPayload true "pretix webhook payload"
// @Success 200 {string} string "ok"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/pretix [post]
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	var payload domain.WebhookPayload
	if !helpers.DecodeAndValidate(w, r, &payload) {
		return
	}
	event, err := domain.ParseWebhook(payload)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	c.Logger.InfoContext(r.Context(), "webhook received",
		"notification_id", payload.NotificationID, "action", payload.Action, "event", payload.Event)

	if err := c.Dispatcher.Dispatch(r.Context(), event); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method,
			"action", payload.Action, "event", payload.Event, "err", err)
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "webhook processing failed")
		return
	}
	helpers.WriteText(w, http.StatusOK, "ok")
}

// Verify godoc
// @Summary Verify webhook credentials
// @Description Checks basic auth and logs the payload without acting on it. Used to test the pretix webhook configuration.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Security BasicAuth
// @Success 200 {string} string "ok"
// @Failure 401 {string} string "Unauthorized"
// @Router /webhooks/verify [post]
func (c *WebhookController) Verify(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed JSON: "+err.Error())
		return
	}
	c.Logger.InfoContext(r.Context(), "verified webhook", "payload", payload)
	helpers.WriteText(w, http.StatusOK, "ok")
}
