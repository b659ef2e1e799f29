// Package billing creates subscription checkout links for the paid plans.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"go.uber.org/zap"
)

const (
	PlanEssencial    = "essencial"
	PlanProfissional = "profissional"
)

var (
	ErrInvalidPlan = errors.New("billing: invalid plan")
	ErrProvider    = errors.New("billing: payment provider failure")
)

// PreapprovalCreator is the part of the Mercado Pago client used here.
type PreapprovalCreator interface {
	Create(ctx context.Context, request preapproval.Request) (*preapproval.Response, error)
}

type Checkout struct {
	client  PreapprovalCreator
	prices  map[string]float64
	backURL string
	log     *zap.Logger
}

// NewMercadoPagoClient builds the preapproval client from an access token.
func NewMercadoPagoClient(accessToken string) (preapproval.Client, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return preapproval.NewClient(cfg), nil
}

func NewCheckout(
	client PreapprovalCreator,
	prices map[string]float64,
	backURL string,
	log *zap.Logger,
) *Checkout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checkout{client: client, prices: prices, backURL: backURL, log: log}
}

// CreateSubscriptionCheckout opens a monthly subscription with one free month
// and returns the URL where the provider completes payment.
func (c *Checkout) CreateSubscriptionCheckout(
	ctx context.Context,
	profileID uint,
	plan string,
	payerEmail string,
) (string, error) {

	plan = strings.ToLower(strings.TrimSpace(plan))
	price, ok := c.prices[plan]
	if !ok || price <= 0 {
		return "", ErrInvalidPlan
	}

	req := preapproval.Request{
		Reason:            "AgendaFácil - plano " + plan,
		PayerEmail:        payerEmail,
		BackURL:           c.backURL,
		ExternalReference: fmt.Sprintf("profile:%d:%s:%s", profileID, plan, uuid.NewString()),
		AutoRecurring: &preapproval.AutoRecurringRequest{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: price,
			CurrencyID:        "BRL",
			FreeTrial: &preapproval.FreeTrialRequest{
				Frequency:     1,
				FrequencyType: "months",
			},
		},
	}

	res, err := c.client.Create(ctx, req)
	if err != nil {
		c.log.Error("preapproval create failed",
			zap.Uint("profile_id", profileID),
			zap.String("plan", plan),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if res == nil || res.InitPoint == "" {
		return "", fmt.Errorf("%w: empty init_point", ErrProvider)
	}

	c.log.Info("checkout created", zap.Uint("profile_id", profileID), zap.String("plan", plan))
	return res.InitPoint, nil
}
