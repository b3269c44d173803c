package store

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// CreateComment validates the target and, for replies, the parent: replies
// are only allowed on issues and only one level deep. It returns the owner of
// the commented post or issue.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (engagement.Principal, error) {
	var owner engagement.Principal
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		root := Target{Type: c.TargetType, ID: c.TargetID}
		if root.Type != models.TargetPost && root.Type != models.TargetIssue {
			return apperr.Validation("comments are only allowed on posts and issues")
		}
		_, o, err := resolveTarget(tx, root)
		if err != nil {
			return err
		}
		owner = o

		if c.ParentID != nil && *c.ParentID != "" {
			if root.Type != models.TargetIssue {
				return apperr.Validation("replies are only allowed on issues")
			}
			var parent models.Comment
			if err := tx.First(&parent, "id = ?", *c.ParentID).Error; err != nil {
				return translate(err, "parent comment")
			}
			if parent.TargetType != root.Type || parent.TargetID != root.ID {
				return apperr.Validation("parent comment belongs to another issue")
			}
			if parent.ParentID != nil {
				return apperr.Validation("replies can not be nested further")
			}
		} else {
			c.ParentID = nil
		}
		return tx.Create(c).Error
	})
	return owner, translate(err, "comment")
}

// CountComments counts every comment on the root, replies included.
func (s *Store) CountComments(ctx context.Context, root Target) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ?", root.Type, root.ID).
		Count(&n).Error
	return n, translate(err, "comment")
}
