package store

import (
	"context"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// Target 投票或评论的目标
type Target struct {
	Type string
	ID   string
}

func (t Target) String() string { return t.Type + ":" + t.ID }

type VoteResult struct {
	State  engagement.VoteState
	Action engagement.VoteAction
	// Root is the post or issue whose trending score the vote affects.
	Root Target
	// Owner authored the voted target.
	Owner engagement.Principal
}

// ToggleVote reads the current vote of voter on target, applies the toggle
// transition and writes the result in one transaction. A concurrent insert
// that slips past the read hits the unique index and comes back as a
// conflict error.
func (s *Store) ToggleVote(ctx context.Context, target Target, voter engagement.Principal, want engagement.VoteType) (VoteResult, error) {
	var res VoteResult
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		root, owner, err := resolveTarget(tx, target)
		if err != nil {
			return err
		}

		var existing models.Vote
		err = tx.Where("target_type = ? AND target_id = ?", target.Type, target.ID).
			Where(voter.Column("user_id", "ngo_id")+" = ?", voter.ID).
			Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}
		current := engagement.NoVote
		if existing.ID != 0 {
			current = engagement.StateOf(existing.VoteType)
		}

		next, action := engagement.ApplyVote(current, want)
		switch action {
		case engagement.VoteCreate:
			vote := models.Vote{TargetType: target.Type, TargetID: target.ID, VoteType: want}
			vote.UserID, vote.NgoID = voter.Refs()
			err = tx.Create(&vote).Error
		case engagement.VoteUpdate:
			err = tx.Model(&existing).Update("vote_type", want).Error
		case engagement.VoteDelete:
			err = tx.Delete(&existing).Error
		}
		if err != nil {
			return err
		}

		res = VoteResult{State: next, Action: action, Root: root, Owner: owner}
		return nil
	})
	return res, translate(err, "vote target")
}

// CountVotes returns the number of votes of the given type on target.
func (s *Store) CountVotes(ctx context.Context, target Target, voteType engagement.VoteType) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote_type = ?", target.Type, target.ID, voteType).
		Count(&n).Error
	return n, translate(err, "vote")
}

// resolveTarget returns the root post/issue and the owner of target.
func resolveTarget(tx *gorm.DB, target Target) (Target, engagement.Principal, error) {
	switch target.Type {
	case models.TargetPost:
		var p models.Post
		if err := tx.Select("id", "own_user_id", "own_ngo_id").First(&p, "id = ?", target.ID).Error; err != nil {
			return Target{}, engagement.Principal{}, translate(err, "post")
		}
		return target, p.Owner(), nil
	case models.TargetIssue:
		var i models.Issue
		if err := tx.Select("id", "own_user_id", "own_ngo_id").First(&i, "id = ?", target.ID).Error; err != nil {
			return Target{}, engagement.Principal{}, translate(err, "issue")
		}
		return target, i.Owner(), nil
	case models.TargetComment:
		var c models.Comment
		if err := tx.First(&c, "id = ?", target.ID).Error; err != nil {
			return Target{}, engagement.Principal{}, translate(err, "comment")
		}
		return Target{Type: c.TargetType, ID: c.TargetID}, c.Author(), nil
	}
	return Target{}, engagement.Principal{}, apperr.Validation("unsupported vote target " + target.Type)
}
