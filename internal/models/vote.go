package models

import (
	"time"

	"ngosocial/internal/engagement"
)

// Vote 每个 (目标, Principal) 最多一条，由两个唯一索引保证
type Vote struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	TargetType string              `gorm:"size:20;not null;uniqueIndex:idx_vote_user,priority:1;uniqueIndex:idx_vote_ngo,priority:1" json:"targetType"`
	TargetID   string              `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_user,priority:2;uniqueIndex:idx_vote_ngo,priority:2" json:"targetId"`
	UserID     *string             `gorm:"type:varchar(36);uniqueIndex:idx_vote_user,priority:3;check:vote_one_voter,(user_id IS NULL) <> (ngo_id IS NULL)" json:"userId"`
	NgoID      *string             `gorm:"type:varchar(36);uniqueIndex:idx_vote_ngo,priority:3" json:"ngoId"`
	VoteType   engagement.VoteType `gorm:"size:10;not null" json:"voteType"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func (v *Vote) Voter() engagement.Principal {
	voter, _ := engagement.FromRefs(v.UserID, v.NgoID)
	return voter
}
