package handler

import (
	"stablepay/internal/adapter/http/dto"
	"stablepay/internal/core/ports"
	"stablepay/pkg/apperror"
	"stablepay/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet funding and snapshot endpoints.
type WalletHandler struct {
	paymentSvc   ports.PaymentService
	reportingSvc ports.ReportingService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(paymentSvc ports.PaymentService, reportingSvc ports.ReportingService) *WalletHandler {
	return &WalletHandler{
		paymentSvc:   paymentSvc,
		reportingSvc: reportingSvc,
	}
}

// Fund handles POST /api/v1/wallets/fund.
func (h *WalletHandler) Fund(c *gin.Context) {
	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.paymentSvc.Fund(c.Request.Context(), ports.FundRequest{
		UserID: req.UserID,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FundResponse{
		UserID:     result.UserID,
		NewBalance: result.NewBalance,
	})
}

// Snapshot handles GET /api/v1/wallets/:user_id. Querying an unknown user
// creates the wallet with zero balances; see ReportingService.WalletSnapshot.
func (h *WalletHandler) Snapshot(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.Error(c, apperror.Validation("user_id is required"))
		return
	}

	snap, err := h.reportingSvc.WalletSnapshot(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, snap)
}
