package handler

import (
	"stablepay/internal/adapter/http/dto"
	"stablepay/internal/core/ports"
	"stablepay/pkg/apperror"
	"stablepay/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles the freeze/settle/release payment flow.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Freeze handles POST /api/v1/payments/freeze.
func (h *PaymentHandler) Freeze(c *gin.Context) {
	var req dto.FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.paymentSvc.Freeze(c.Request.Context(), ports.FreezeRequest{
		UserID:       req.UserID,
		MerchantName: req.MerchantName,
		Amount:       req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FreezeResponse{
		OrderID:      result.OrderID,
		Status:       string(result.Status),
		FrozenAmount: result.FrozenAmount,
	})
}

// Settle handles POST /api/v1/payments/settle.
func (h *PaymentHandler) Settle(c *gin.Context) {
	var req dto.OrderRef
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.paymentSvc.Settle(c.Request.Context(), req.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OrderResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	})
}

// Release handles POST /api/v1/payments/release.
func (h *PaymentHandler) Release(c *gin.Context) {
	var req dto.OrderRef
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.paymentSvc.Release(c.Request.Context(), req.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OrderResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	})
}
