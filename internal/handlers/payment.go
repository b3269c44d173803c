package handlers

import (
	"io"
	"net/http"

	"ngosocial/internal/apperr"
	"ngosocial/internal/services"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody 网关回调体上限
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type intentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	CampaignID    string  `json:"campaignId"`
	FundRaisingID string  `json:"fundRaisingId"`
}

// CampaignIntent 为活动捐款创建支付意向
func (h *PaymentHandler) CampaignIntent(c *gin.Context) {
	var in intentRequest
	if !bind(c, &in) {
		return
	}
	h.createIntent(c, in.Amount, services.DonationTarget{CampaignID: in.CampaignID})
}

func (h *PaymentHandler) FundRaisingIntent(c *gin.Context) {
	var in intentRequest
	if !bind(c, &in) {
		return
	}
	h.createIntent(c, in.Amount, services.DonationTarget{FundRaisingID: in.FundRaisingID})
}

func (h *PaymentHandler) createIntent(c *gin.Context, amount float64, target services.DonationTarget) {
	intent, err := h.payments.CreateIntent(c.Request.Context(), viewer(c), amount, target)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, gin.H{"clientSecret": intent.ClientSecret})
}

// Webhook reads the raw body; the signature covers the exact bytes sent.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		fail(c, apperr.Validation("cannot read request body"))
		return
	}
	if err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
