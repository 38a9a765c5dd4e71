package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kontribute/kontribute-backend/internal/dto"
	"github.com/kontribute/kontribute-backend/internal/http/handlers/common"
	"github.com/kontribute/kontribute-backend/internal/http/response"
)

type WithdrawalHandler struct {
	svc WithdrawalService
}

func NewWithdrawalHandler(s WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: s}
}

// Withdraw POST /collections/:slug/withdraw/
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	result, err := h.svc.RequestWithdrawal(c.Request.Context(), common.SlugParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Withdrawal requested successfully", dto.NewWithdrawalResponse(result))
}
