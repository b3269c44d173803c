package models

import (
	"ngosocial/internal/engagement"
)

// Comment 挂在 post 或 issue 上；issue 评论可通过 ParentID 回复顶层评论
type Comment struct {
	Base
	TargetType string  `gorm:"size:20;not null;index:idx_comment_target" json:"targetType"`
	TargetID   string  `gorm:"type:varchar(36);not null;index:idx_comment_target" json:"targetId"`
	UserID     *string `gorm:"type:varchar(36);index;check:comment_one_author,(user_id IS NULL) <> (ngo_id IS NULL)" json:"userId"`
	NgoID      *string `gorm:"type:varchar(36);index" json:"ngoId"`
	Body       string  `gorm:"type:text;not null" json:"comment"`
	ParentID   *string `gorm:"type:varchar(36);index" json:"parentId"`

	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Votes   []Vote    `gorm:"polymorphic:Target;polymorphicValue:comment" json:"votes"`
}

func (c *Comment) Author() engagement.Principal {
	author, _ := engagement.FromRefs(c.UserID, c.NgoID)
	return author
}
