package handler

import (
	"strconv"

	"stablepay/internal/adapter/http/dto"
	"stablepay/internal/core/ports"
	"stablepay/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the global ledger and order listings.
type AdminHandler struct {
	reportingSvc ports.ReportingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportingSvc ports.ReportingService) *AdminHandler {
	return &AdminHandler{reportingSvc: reportingSvc}
}

// ListLedger handles GET /api/v1/admin/ledger?limit=N.
func (h *AdminHandler) ListLedger(c *gin.Context) {
	entries, err := h.reportingSvc.ListLedger(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToLedgerEntryResponse(e))
	}
	response.OK(c, items)
}

// ListOrders handles GET /api/v1/admin/orders?limit=N.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.reportingSvc.ListOrders(c.Request.Context(), parseLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.OrderListItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.ToOrderListItem(o))
	}
	response.OK(c, items)
}

// parseLimit reads the limit query param; the service clamps it to its max.
func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
