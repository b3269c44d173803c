package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base 所有实体共用的主键与时间戳，主键为 UUID 字符串
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Address 以 JSON 形式存储；坐标可缺省
type Address struct {
	Street  string   `json:"street,omitempty"`
	City    string   `json:"city,omitempty"`
	State   string   `json:"state,omitempty"`
	Country string   `json:"country,omitempty"`
	Zip     string   `json:"zip,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Media 已上传到对象存储的文件
type Media struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// 投票与评论的多态目标类型
const (
	TargetPost    = "post"
	TargetIssue   = "issue"
	TargetComment = "comment"
)
