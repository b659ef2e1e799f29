package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-facil/internal/billing"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
)

type CheckoutCreator interface {
	CreateSubscriptionCheckout(ctx context.Context, profileID uint, plan, payerEmail string) (string, error)
}

type BillingHandler struct {
	checkout CheckoutCreator
}

// NewBillingHandler accepts a nil checkout when payments are not configured.
func NewBillingHandler(checkout CheckoutCreator) *BillingHandler {
	return &BillingHandler{checkout: checkout}
}

type CheckoutRequest struct {
	Plan  string `json:"plan" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *BillingHandler) Checkout(c *gin.Context) {
	if h.checkout == nil {
		httperr.Unavailable(c, "billing_disabled", "Pagamentos indisponíveis no momento.")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	url, err := h.checkout.CreateSubscriptionCheckout(
		c.Request.Context(),
		middleware.ProfileID(c),
		req.Plan,
		req.Email,
	)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidPlan) {
			httperr.BadRequest(c, "invalid_plan", "Plano inválido.")
			return
		}
		httperr.BadGateway(c, "payment_provider_error", "Não foi possível iniciar o pagamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}
