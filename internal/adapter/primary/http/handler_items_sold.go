package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/port/primary"
)

// ItemsSoldHandler handles GET /items-sold requests.
type ItemsSoldHandler struct {
	service primary.ReportService
	logger  *zap.Logger
}

// NewItemsSoldHandler creates the sales report handler.
func NewItemsSoldHandler(service primary.ReportService, logger *zap.Logger) *ItemsSoldHandler {
	return &ItemsSoldHandler{
		service: service,
		logger:  logger.Named("items-sold-handler"),
	}
}

// ServeHTTP returns a map of tracked item name to quantity sold.
func (h *ItemsSoldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.ItemsSold(r.Context())
	if err != nil {
		h.logger.Error("failed to build items sold report", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: "failed to query orders",
			Code:  "UPSTREAM_FAILED",
		})
		return
	}
	respondJSON(w, http.StatusOK, tally)
}
