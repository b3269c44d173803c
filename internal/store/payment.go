package store

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// Donation 网关回调中确认成功的一笔支付
type Donation struct {
	GatewayTransactionID string
	Amount               float64 // 主货币单位
	Currency             string
	Status               string
	Donor                engagement.Principal
	CampaignID           string
	FundRaisingID        string
}

const ActionDonation = "donation"

// RecordDonation creates the transaction and credits the donor in one
// database transaction. A redelivered event finds the existing row and
// returns recorded=false without crediting again.
func (s *Store) RecordDonation(ctx context.Context, d Donation) (recorded bool, err error) {
	if d.GatewayTransactionID == "" || d.Donor.IsZero() {
		return false, apperr.Validation("donation is missing its gateway id or donor")
	}
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("gateway_transaction_id = ?", d.GatewayTransactionID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		t := models.Transaction{
			GatewayTransactionID: d.GatewayTransactionID,
			Amount:               d.Amount,
			Currency:             d.Currency,
			Status:               d.Status,
			DonorID:              d.Donor.ID,
			DonorRole:            string(d.Donor.Kind),
			CampaignID:           optional(d.CampaignID),
			FundRaisingID:        optional(d.FundRaisingID),
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		if err := addPoints(tx, d.Donor, d.Amount, ActionDonation); err != nil {
			return err
		}
		recorded = true
		return nil
	})
	if err != nil {
		recorded = false
	}
	return recorded, translate(err, "transaction")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
