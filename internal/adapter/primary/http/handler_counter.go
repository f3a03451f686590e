package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/port/primary"
)

// maxCounterBodyBytes bounds the admin request body.
const maxCounterBodyBytes = 4 << 10

// setCounterRequest keeps the raw value so non-integers can be told apart
// from a missing field.
type setCounterRequest struct {
	Value json.RawMessage `json:"value"`
}

// CounterHandler serves GET and POST on the counter resource.
type CounterHandler struct {
	service primary.CounterService
	logger  *zap.Logger
}

// NewCounterHandler creates a handler for reading and overwriting the counter.
func NewCounterHandler(service primary.CounterService, logger *zap.Logger) *CounterHandler {
	return &CounterHandler{
		service: service,
		logger:  logger.Named("counter-handler"),
	}
}

// ServeHTTP dispatches on method.
func (h *CounterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.set(w, r)
	default:
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "method not allowed",
			Code:  "METHOD_NOT_ALLOWED",
		})
	}
}

func (h *CounterHandler) get(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.Current(r.Context())
	if err != nil {
		h.logger.Error("failed to read counter", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "failed to read counter",
			Code:  "STORE_FAILED",
		})
		return
	}
	respondJSON(w, http.StatusOK, CounterResponse{Value: value})
}

func (h *CounterHandler) set(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCounterBodyBytes)

	var req setCounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_VALUE",
		})
		return
	}

	value, err := parseCounterValue(req.Value)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUE"})
		return
	}

	stored, err := h.service.Set(r.Context(), value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidValue) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUE"})
			return
		}
		h.logger.Error("failed to set counter", zap.Int64("value", value), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "failed to set counter",
			Code:  "STORE_FAILED",
		})
		return
	}

	respondJSON(w, http.StatusOK, CounterResponse{
		Value:   stored,
		Message: fmt.Sprintf("counter set to %d", stored),
	})
}

// parseCounterValue accepts only a bare JSON integer literal.
func parseCounterValue(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: value is required", domain.ErrInvalidValue)
	}
	value, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", domain.ErrInvalidValue, raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %d is negative", domain.ErrInvalidValue, value)
	}
	return value, nil
}
