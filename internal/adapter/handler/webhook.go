package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/errors"
	"github.com/johnquangdev/sales-coach/internal/usecase/ingest"
	"github.com/johnquangdev/sales-coach/pkg/ai"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body
const SignatureHeader = "x-hub-signature"

const maxWebhookBody = 10 << 20

// Webhook handles transcript pushes from Fireflies
type Webhook struct {
	ingest ingest.Service
	secret string
	logger *zap.Logger
}

// NewWebhook creates a new webhook handler. An empty secret disables
// signature checks.
func NewWebhook(svc ingest.Service, secret string, logger *zap.Logger) *Webhook {
	return &Webhook{ingest: svc, secret: secret, logger: logger}
}

// Fireflies analyzes one pushed transcript
// @Summary      Fireflies transcript webhook
// @Description  Verifies the HMAC signature, then analyzes and stores the transcript
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        x-hub-signature  header    string  false  "sha256 HMAC of the body"
// @Success      200  {object}  entities.ConversationAnalysis
// @Failure      401  {object}  map[string]interface{}  "Invalid signature"
// @Failure      409  {object}  map[string]interface{}  "Transcript already analyzed"
// @Failure      422  {object}  map[string]interface{}  "Transcript too short"
// @Router       /webhooks/fireflies [post]
func (h *Webhook) Fireflies(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.secret != "" && !ai.VerifyHMAC(h.secret, body, c.Request().Header.Get(SignatureHeader)) {
		if h.logger != nil {
			h.logger.Warn("🚫 Webhook signature rejected", zap.String("remote_ip", c.RealIP()))
		}
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var payload ingest.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	analysis, err := h.ingest.IngestWebhookTranscript(c.Request().Context(), &payload)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("📥 Webhook transcript analyzed",
			zap.String("analysis_id", analysis.ID.String()),
			zap.String("external_id", analysis.ExternalID),
		)
	}
	return HandleSuccess(h.logger, c, analysis)
}
