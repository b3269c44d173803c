package services

import (
	"context"
	"encoding/json"
	"math"

	"ngosocial/internal/apperr"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// IntentRequest 创建支付意向所需的参数，Amount 为主货币单位
type IntentRequest struct {
	Amount   float64
	Currency string
	Metadata map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// PaymentEvent 网关回调里和入账有关的字段，Amount 为最小货币单位
type PaymentEvent struct {
	Type          string
	TransactionID string
	Amount        int64
	Currency      string
	Status        string
	Metadata      map[string]string
}

// Gateway 支付网关
type Gateway interface {
	CreateIntent(ctx context.Context, in IntentRequest) (Intent, error)
	ParseEvent(payload []byte, signature string) (PaymentEvent, error)
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil), webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, in IntentRequest) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(in.Amount * 100))),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, apperr.Upstream("payment gateway error", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies the signature header and decodes payment intent events.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return PaymentEvent{}, apperr.Wrap(apperr.KindValidation, "invalid webhook signature", err)
	}
	out := PaymentEvent{Type: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return PaymentEvent{}, apperr.Wrap(apperr.KindValidation, "malformed webhook payload", err)
	}
	out.TransactionID = pi.ID
	out.Amount = pi.Amount
	out.Currency = string(pi.Currency)
	out.Status = string(pi.Status)
	out.Metadata = pi.Metadata
	return out, nil
}
