package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// WebhookHandler handles POST /webhook requests from the point-of-sale platform.
type WebhookHandler struct {
	service  primary.WebhookService
	verifier *SignatureVerifier
	metrics  secondary.Metrics
	logger   *zap.Logger
}

// NewWebhookHandler creates a handler for inbound webhooks. A nil verifier
// accepts unsigned deliveries.
func NewWebhookHandler(
	service primary.WebhookService,
	verifier *SignatureVerifier,
	metrics secondary.Metrics,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		service:  service,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger.Named("webhook-handler"),
	}
}

// ServeHTTP processes one webhook delivery.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "method not allowed",
			Code:  "METHOD_NOT_ALLOWED",
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, domain.MaxWebhookBodyBytes))
	if err != nil {
		h.fail(w, fmt.Errorf("%w: reading body: %v", domain.ErrMalformedPayload, err))
		return
	}

	if err := h.verifier.Verify(r.Header.Get(SignatureHeader), body); err != nil {
		h.fail(w, err)
		return
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.service.HandleEvent(r.Context(), envelope.toEntity())
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newWebhookResponse(result))
}

// decodeEnvelope accepts only a JSON object at the top level.
func decodeEnvelope(body []byte) (*webhookEnvelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body is not a JSON object", domain.ErrMalformedPayload)
	}
	var envelope webhookEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return &envelope, nil
}

func (h *WebhookHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedPayload):
		h.metrics.WebhookOutcome("malformed")
		h.logger.Warn("rejecting malformed webhook", zap.Error(err))
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "MALFORMED_PAYLOAD"})
	case errors.Is(err, domain.ErrInvalidSignature):
		h.metrics.WebhookOutcome("invalid_signature")
		h.logger.Warn("rejecting webhook with bad signature", zap.Error(err))
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid signature", Code: "INVALID_SIGNATURE"})
	case errors.Is(err, domain.ErrMissingOrderID):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "MISSING_ORDER_ID"})
	case errors.Is(err, domain.ErrFetchFailed):
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch order", Code: "FETCH_FAILED"})
	case errors.Is(err, domain.ErrStoreFailed):
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to update counter", Code: "STORE_FAILED"})
	default:
		h.logger.Error("failed to handle webhook", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"})
	}
}
