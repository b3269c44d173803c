package models

import (
	"html/template"

	"ngosocial/internal/engagement"
)

type Post struct {
	Base
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Address     Address  `gorm:"serializer:json" json:"address"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Media       []Media  `gorm:"serializer:json" json:"media"`
	OwnUserID   *string  `gorm:"type:varchar(36);index;check:post_one_owner,(own_user_id IS NULL) <> (own_ngo_id IS NULL)" json:"ownUserId"`
	OwnNgoID    *string  `gorm:"type:varchar(36);index" json:"ownNgoId"`
	Score       float64  `gorm:"default:0;index" json:"score"` // 热度分，由 RankingService 异步维护

	Votes    []Vote    `gorm:"polymorphic:Target;polymorphicValue:post" json:"votes"`
	Comments []Comment `gorm:"polymorphic:Target;polymorphicValue:post" json:"comments"`

	// 非数据库字段，查询时填充
	DescriptionHTML template.HTML `gorm:"-" json:"descriptionHtml,omitempty"`
}

func (p *Post) Owner() engagement.Principal {
	owner, _ := engagement.FromRefs(p.OwnUserID, p.OwnNgoID)
	return owner
}

func (p *Post) Entity() engagement.Entity {
	return engagement.Entity{
		Kind:     engagement.KindPost,
		ID:       p.ID,
		Owner:    p.Owner(),
		Votes:    votesOf(p.Votes),
		Comments: commentsOf(p.Comments),
	}
}

// Issue 与 Post 结构相同，但媒体可选，评论可以嵌套一层
type Issue struct {
	Base
	Title       string   `gorm:"not null;index" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Address     Address  `gorm:"serializer:json" json:"address"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Media       []Media  `gorm:"serializer:json" json:"media"`
	OwnUserID   *string  `gorm:"type:varchar(36);index;check:issue_one_owner,(own_user_id IS NULL) <> (own_ngo_id IS NULL)" json:"ownUserId"`
	OwnNgoID    *string  `gorm:"type:varchar(36);index" json:"ownNgoId"`
	Score       float64  `gorm:"default:0;index" json:"score"`

	Votes    []Vote    `gorm:"polymorphic:Target;polymorphicValue:issue" json:"votes"`
	Comments []Comment `gorm:"polymorphic:Target;polymorphicValue:issue" json:"comments"`

	DescriptionHTML template.HTML `gorm:"-" json:"descriptionHtml,omitempty"`
}

func (i *Issue) Owner() engagement.Principal {
	owner, _ := engagement.FromRefs(i.OwnUserID, i.OwnNgoID)
	return owner
}

func (i *Issue) Entity() engagement.Entity {
	return engagement.Entity{
		Kind:     engagement.KindIssue,
		ID:       i.ID,
		Owner:    i.Owner(),
		Votes:    votesOf(i.Votes),
		Comments: commentsOf(i.Comments),
	}
}
