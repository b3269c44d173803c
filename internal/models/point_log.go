package models

import (
	"time"
)

// PointLog 积分明细，归属于个人用户或 NGO 之一
type PointLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *string   `gorm:"type:varchar(36);index;check:point_log_one_owner,(user_id IS NULL) <> (ngo_id IS NULL)" json:"userId"`
	NgoID     *string   `gorm:"type:varchar(36);index" json:"ngoId"`
	Amount    float64   `gorm:"not null" json:"amount"`          // 正数为增加，负数为扣除
	Action    string    `gorm:"size:100;not null" json:"action"` // 动作描述
	CreatedAt time.Time `json:"createdAt"`
}
