package services

import (
	"context"

	"ngosocial/internal/engagement"
	"ngosocial/internal/utils"

	"go.uber.org/zap"
)

type MembershipStore interface {
	ToggleMembership(ctx context.Context, campaignID string, p engagement.Principal) (bool, engagement.MembershipAction, error)
	ForceLeave(ctx context.Context, campaignID string, owner, member engagement.Principal) error
}

type membershipResult struct {
	member bool
	action engagement.MembershipAction
}

// Membership 活动加入 / 退出
type Membership struct {
	store  MembershipStore
	cache  *utils.GlobalCache
	serial *serializer
	log    *zap.Logger
}

func NewMembership(s MembershipStore, cache *utils.GlobalCache, log *zap.Logger) *Membership {
	return &Membership{store: s, cache: cache, serial: newSerializer(64), log: log}
}

// Toggle joins p to the campaign or, when already a member, removes it.
func (m *Membership) Toggle(ctx context.Context, campaignID string, p engagement.Principal) (bool, engagement.MembershipAction, error) {
	key := "campaign:" + campaignID + "|" + p.String()
	val, err := m.serial.do(ctx, key, key, func(ctx context.Context) (any, error) {
		member, action, err := m.store.ToggleMembership(ctx, campaignID, p)
		if err != nil {
			return nil, err
		}
		m.invalidate(campaignID)
		return membershipResult{member: member, action: action}, nil
	})
	if err != nil {
		return false, "", err
	}
	r := val.(membershipResult)
	return r.member, r.action, nil
}

func (m *Membership) ForceLeave(ctx context.Context, campaignID string, owner, member engagement.Principal) error {
	key := "campaign:" + campaignID + "|" + member.String()
	_, err := m.serial.do(ctx, key, key+"|force", func(ctx context.Context) (any, error) {
		if err := m.store.ForceLeave(ctx, campaignID, owner, member); err != nil {
			return nil, err
		}
		m.invalidate(campaignID)
		m.log.Info("member removed from campaign",
			zap.String("campaign", campaignID),
			zap.String("owner", owner.String()),
			zap.String("member", member.String()),
		)
		return nil, nil
	})
	return err
}

func (m *Membership) invalidate(campaignID string) {
	m.cache.InvalidateGraph(string(engagement.KindCampaign), campaignID)
}
