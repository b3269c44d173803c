package services

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"go.uber.org/zap"
)

const EventPaymentSucceeded = "payment_intent.succeeded"

// 支付意向 metadata 的键
const (
	metaDonorID       = "donorId"
	metaDonorRole     = "donorRole"
	metaCampaignID    = "campaignId"
	metaFundRaisingID = "fundRaisingId"
)

type PaymentStore interface {
	FindCampaign(ctx context.Context, id string) (*models.Campaign, error)
	FindFundRaising(ctx context.Context, id string) (*models.FundRaising, error)
	RecordDonation(ctx context.Context, d store.Donation) (bool, error)
}

// DonationTarget 捐赠对象，二选一
type DonationTarget struct {
	CampaignID    string
	FundRaisingID string
}

type PaymentService struct {
	store    PaymentStore
	gateway  Gateway
	cache    *utils.GlobalCache
	currency string
	log      *zap.Logger
}

func NewPaymentService(s PaymentStore, gateway Gateway, cache *utils.GlobalCache, currency string, log *zap.Logger) *PaymentService {
	return &PaymentService{store: s, gateway: gateway, cache: cache, currency: currency, log: log}
}

// CreateIntent opens a gateway payment for donor. The donor and target ride
// along as metadata so the webhook can attribute the payment.
func (s *PaymentService) CreateIntent(ctx context.Context, donor engagement.Principal, amount float64, target DonationTarget) (Intent, error) {
	if amount <= 0 {
		return Intent{}, apperr.Validation("amount must be positive")
	}
	meta := map[string]string{
		metaDonorID:   donor.ID,
		metaDonorRole: string(donor.Kind),
	}
	switch {
	case target.CampaignID != "" && target.FundRaisingID == "":
		if _, err := s.store.FindCampaign(ctx, target.CampaignID); err != nil {
			return Intent{}, err
		}
		meta[metaCampaignID] = target.CampaignID
	case target.FundRaisingID != "" && target.CampaignID == "":
		if _, err := s.store.FindFundRaising(ctx, target.FundRaisingID); err != nil {
			return Intent{}, err
		}
		meta[metaFundRaisingID] = target.FundRaisingID
	default:
		return Intent{}, apperr.Validation("exactly one of campaignId or fundRaisingId is required")
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{Amount: amount, Currency: s.currency, Metadata: meta})
	if err != nil {
		return Intent{}, err
	}
	s.log.Info("payment intent created", zap.String("intent", intent.ID), zap.String("donor", donor.String()))
	return intent, nil
}

// HandleWebhook verifies and applies one gateway event. Redelivered
// succeeded events are acknowledged without crediting the donor again.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		return err
	}
	if ev.Type != EventPaymentSucceeded {
		s.log.Debug("webhook event ignored", zap.String("type", ev.Type))
		return nil
	}

	kind, err := engagement.ParseKind(ev.Metadata[metaDonorRole])
	if err != nil || ev.Metadata[metaDonorID] == "" {
		return apperr.Validation("payment is missing donor metadata")
	}
	recorded, err := s.store.RecordDonation(ctx, store.Donation{
		GatewayTransactionID: ev.TransactionID,
		Amount:               float64(ev.Amount) / 100,
		Currency:             ev.Currency,
		Status:               ev.Status,
		Donor:                engagement.Principal{Kind: kind, ID: ev.Metadata[metaDonorID]},
		CampaignID:           ev.Metadata[metaCampaignID],
		FundRaisingID:        ev.Metadata[metaFundRaisingID],
	})
	if err != nil {
		return err
	}
	if !recorded {
		s.log.Info("duplicate payment event", zap.String("transaction", ev.TransactionID))
		return nil
	}
	if id := ev.Metadata[metaCampaignID]; id != "" {
		// 活动详情预加载了 Transactions
		s.cache.InvalidateGraph(string(engagement.KindCampaign), id)
	}
	s.log.Info("donation recorded", zap.String("transaction", ev.TransactionID), zap.Int64("amount", ev.Amount))
	return nil
}
