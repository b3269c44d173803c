package store

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
)

func (s *Store) CreateNotification(ctx context.Context, to engagement.Principal, message, link string) (*models.Notification, error) {
	n := models.Notification{Message: message, Link: link}
	n.UserID, n.NgoID = to.Refs()
	if err := s.conn(ctx).Create(&n).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &n, nil
}

func (s *Store) ListNotifications(ctx context.Context, to engagement.Principal, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := s.conn(ctx).
		Where(to.Column("user_id", "ngo_id")+" = ?", to.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, translate(err, "notification")
}

// MarkRead only touches notifications addressed to owner; others look missing.
func (s *Store) MarkRead(ctx context.Context, id string, owner engagement.Principal) error {
	res := s.conn(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Where(owner.Column("user_id", "ngo_id")+" = ?", owner.ID).
		Update("is_read", true)
	if res.Error != nil {
		return translate(res.Error, "notification")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification of owner as read.
func (s *Store) MarkAllRead(ctx context.Context, owner engagement.Principal) (int64, error) {
	res := s.conn(ctx).Model(&models.Notification{}).
		Where(owner.Column("user_id", "ngo_id")+" = ?", owner.ID).
		Where("is_read = ?", false).
		Update("is_read", true)
	return res.RowsAffected, translate(res.Error, "notification")
}
