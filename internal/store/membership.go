package store

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// joinTable returns the many2many table and member column for p's kind.
func joinTable(p engagement.Principal) (table, column string) {
	if p.Kind == engagement.KindNgo {
		return "campaign_joined_ngos", "ngo_id"
	}
	return "campaign_joined_users", "user_id"
}

// ToggleMembership 已加入则退出，未加入则加入；返回切换后的成员状态
func (s *Store) ToggleMembership(ctx context.Context, campaignID string, p engagement.Principal) (bool, engagement.MembershipAction, error) {
	var (
		member bool
		action engagement.MembershipAction
	)
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := campaignExists(tx, campaignID); err != nil {
			return err
		}
		joined, err := isMember(tx, campaignID, p)
		if err != nil {
			return err
		}
		member, action = engagement.ToggleMembership(joined)
		if member {
			return addMember(tx, campaignID, p)
		}
		return removeMember(tx, campaignID, p)
	})
	return member, action, translate(err, "campaign")
}

// ForceLeave lets the campaign owner remove member. Ownership compares kind
// and id.
func (s *Store) ForceLeave(ctx context.Context, campaignID string, owner, member engagement.Principal) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Campaign
		if err := tx.Select("id", "own_user_id", "own_ngo_id").First(&c, "id = ?", campaignID).Error; err != nil {
			return translate(err, "campaign")
		}
		if c.Owner() != owner {
			return apperr.Authorization("only the campaign owner can remove members")
		}
		joined, err := isMember(tx, campaignID, member)
		if err != nil {
			return err
		}
		if !joined {
			return apperr.NotFound("member not found")
		}
		return removeMember(tx, campaignID, member)
	})
	return translate(err, "campaign")
}

func campaignExists(tx *gorm.DB, campaignID string) error {
	var n int64
	if err := tx.Model(&models.Campaign{}).Where("id = ?", campaignID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("campaign not found")
	}
	return nil
}

func isMember(tx *gorm.DB, campaignID string, p engagement.Principal) (bool, error) {
	table, column := joinTable(p)
	var n int64
	err := tx.Table(table).Where("campaign_id = ? AND "+column+" = ?", campaignID, p.ID).Count(&n).Error
	return n > 0, err
}

func addMember(tx *gorm.DB, campaignID string, p engagement.Principal) error {
	table, column := joinTable(p)
	return tx.Table(table).Create(map[string]any{"campaign_id": campaignID, column: p.ID}).Error
}

func removeMember(tx *gorm.DB, campaignID string, p engagement.Principal) error {
	table, column := joinTable(p)
	return tx.Exec("DELETE FROM "+table+" WHERE campaign_id = ? AND "+column+" = ?", campaignID, p.ID).Error
}
