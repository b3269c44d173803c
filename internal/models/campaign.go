package models

import (
	"time"

	"ngosocial/internal/engagement"
)

type Campaign struct {
	Base
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Motto         string    `json:"motto"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Address       Address   `gorm:"serializer:json" json:"address"`
	Virtual       bool      `gorm:"default:false" json:"virtual"`
	FundsRequired float64   `gorm:"default:0" json:"fundsRequired"`
	Tags          []string  `gorm:"serializer:json" json:"tags"`
	Media         []Media   `gorm:"serializer:json" json:"media"`
	OwnUserID     *string   `gorm:"type:varchar(36);index;check:campaign_one_owner,(own_user_id IS NULL) <> (own_ngo_id IS NULL)" json:"ownUserId"`
	OwnNgoID      *string   `gorm:"type:varchar(36);index" json:"ownNgoId"`

	JoinedUsers  []User              `gorm:"many2many:campaign_joined_users" json:"joinedUsers"`
	JoinedNgos   []Ngo               `gorm:"many2many:campaign_joined_ngos" json:"joinedNgos"`
	Broadcasts   []CampaignBroadcast `json:"broadcasts,omitempty"`
	Transactions []Transaction       `json:"transactions,omitempty"`
}

func (c *Campaign) Owner() engagement.Principal {
	owner, _ := engagement.FromRefs(c.OwnUserID, c.OwnNgoID)
	return owner
}

func (c *Campaign) Entity() engagement.Entity {
	return engagement.Entity{
		Kind:        engagement.KindCampaign,
		ID:          c.ID,
		Owner:       c.Owner(),
		JoinedUsers: idsOf(c.JoinedUsers, func(u *User) string { return u.ID }),
		JoinedNgos:  idsOf(c.JoinedNgos, func(n *Ngo) string { return n.ID }),
	}
}

// CampaignBroadcast 仅发起者可以发布和删除
type CampaignBroadcast struct {
	Base
	CampaignID string `gorm:"type:varchar(36);not null;index" json:"campaignId"`
	Message    string `gorm:"type:text;not null" json:"message"`
}

type FundRaising struct {
	Base
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Address     Address   `gorm:"serializer:json" json:"address"`
	Amount      float64   `gorm:"not null" json:"amount"` // 目标金额
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	Media       []Media   `gorm:"serializer:json" json:"media"`
	OwnUserID   *string   `gorm:"type:varchar(36);index;check:fundraising_one_owner,(own_user_id IS NULL) <> (own_ngo_id IS NULL)" json:"ownUserId"`
	OwnNgoID    *string   `gorm:"type:varchar(36);index" json:"ownNgoId"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

func (f *FundRaising) Owner() engagement.Principal {
	owner, _ := engagement.FromRefs(f.OwnUserID, f.OwnNgoID)
	return owner
}

func (f *FundRaising) Entity() engagement.Entity {
	return engagement.Entity{
		Kind:  engagement.KindFundRaising,
		ID:    f.ID,
		Owner: f.Owner(),
	}
}
