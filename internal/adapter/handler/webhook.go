package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetpilot-team/meetpilot/errors"
	webhookdto "github.com/meetpilot-team/meetpilot/internal/adapter/dto/webhook"
	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/usecase/pipeline"
	"github.com/meetpilot-team/meetpilot/pkg/signature"
)

// WebhookHandler receives webhooks from the meeting-bot provider.
type WebhookHandler struct {
	svc    pipeline.Service
	secret string
	logger *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(svc pipeline.Service, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, secret: secret, logger: logger}
}

// HandleRecallWebhook verifies and routes one provider webhook. The
// signature is checked against the raw body before any parsing: a failed
// check rejects with 401 and nothing downstream runs. After the signature
// passes, an unrecognized event name is a 400 distinct from a malformed
// payload.
func (h *WebhookHandler) HandleRecallWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	sig := c.Request().Header.Get("X-Signature")
	if !signature.Verify(h.secret, body, sig) {
		return HandleError(h.logger, c, apperrors.ErrInvalidSignature())
	}

	var envelope webhookdto.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	ctx := c.Request().Context()

	switch envelope.Event {
	case webhookdto.EventBotStatus:
		var data webhookdto.StatusChangeData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(envelope.Data, &raw); err != nil {
			raw = nil
		}
		if err := h.svc.HandleStatusChange(ctx, data.BotID, data.Status.Code, raw); err != nil {
			return h.handlePipelineError(c, envelope.Event, err)
		}

	case webhookdto.EventTranscriptData:
		var data webhookdto.TranscriptData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		words := make([]entities.TranscriptWord, 0, len(data.Words))
		for _, w := range data.Words {
			words = append(words, entities.TranscriptWord{
				Text:  w.Text,
				Start: w.Start,
				End:   w.End,
			})
		}
		if _, err := h.svc.HandleTranscript(ctx, data.BotID, data.Participant.Name, words, data.Final()); err != nil {
			return h.handlePipelineError(c, envelope.Event, err)
		}

	case webhookdto.EventRecordingDone:
		var data webhookdto.RecordingDoneData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if err := h.svc.HandleRecordingDone(ctx, data.BotID, data.RecordingURL); err != nil {
			return h.handlePipelineError(c, envelope.Event, err)
		}

	default:
		return HandleError(h.logger, c, apperrors.ErrUnknownEvent(envelope.Event))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok", "event": envelope.Event})
}

// HandleHealth returns a static liveness body for the provider's health
// probes.
func (h *WebhookHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (h *WebhookHandler) handlePipelineError(c echo.Context, event string, err error) error {
	if errors.Is(err, entities.ErrMeetingNotFound) {
		return HandleError(h.logger, c, apperrors.ErrMeetingNotFound(""))
	}
	h.logger.Error("webhook processing failed",
		zap.String("event", event),
		zap.Error(err),
	)
	return HandleError(h.logger, c, apperrors.ErrPersistenceFailed(event, err))
}
