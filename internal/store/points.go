package store

import (
	"context"
	"time"

	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// AddPoints 使用事务添加积分并记录明细
// 积分变动值正数增加，负数扣除
func (s *Store) AddPoints(ctx context.Context, p engagement.Principal, amount float64, action string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return addPoints(tx, p, amount, action)
	})
	return translate(err, "account")
}

func addPoints(tx *gorm.DB, p engagement.Principal, amount float64, action string) error {
	// 1. 创建积分明细记录
	entry := models.PointLog{Amount: amount, Action: action}
	entry.UserID, entry.NgoID = p.Refs()
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	// 2. 更新余额
	var model any = &models.User{}
	if p.Kind == engagement.KindNgo {
		model = &models.Ngo{}
	}
	return tx.Model(model).
		Where("id = ?", p.ID).
		UpdateColumn("points", gorm.Expr("points + ?", amount)).
		Error
}

// todayRange 获取今日的开始和结束时间
func todayRange(now time.Time) (time.Time, time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return startOfDay, startOfDay.Add(24 * time.Hour)
}

// CountTodayPointLogs 统计今日指定动作的积分记录数
func (s *Store) CountTodayPointLogs(ctx context.Context, p engagement.Principal, action string) (int64, error) {
	start, end := todayRange(time.Now())
	var count int64
	err := s.conn(ctx).Model(&models.PointLog{}).
		Where(p.Column("user_id", "ngo_id")+" = ?", p.ID).
		Where("action = ? AND created_at >= ? AND created_at < ?", action, start, end).
		Count(&count).Error
	return count, translate(err, "point log")
}

// PointLogs returns the latest ledger entries of p.
func (s *Store) PointLogs(ctx context.Context, p engagement.Principal, limit int) ([]models.PointLog, error) {
	var logs []models.PointLog
	err := s.conn(ctx).
		Where(p.Column("user_id", "ngo_id")+" = ?", p.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, translate(err, "point log")
}
