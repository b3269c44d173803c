package models

// Transaction 网关确认成功的一笔捐款；GatewayTransactionID 作为幂等键
type Transaction struct {
	Base
	GatewayTransactionID string  `gorm:"uniqueIndex;not null" json:"gatewayTransactionId"`
	Amount               float64 `gorm:"not null" json:"amount"` // 主货币单位
	Currency             string  `gorm:"size:10" json:"currency"`
	Status               string  `gorm:"size:30" json:"status"`
	DonorID              string  `gorm:"type:varchar(36);not null;index" json:"donorId"`
	DonorRole            string  `gorm:"size:10;not null" json:"donorRole"`
	CampaignID           *string `gorm:"type:varchar(36);index" json:"campaignId"`
	FundRaisingID        *string `gorm:"type:varchar(36);index" json:"fundRaisingId"`
}
