package store

import (
	"context"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
)

// Engagement 计算热度所需的互动计数
type Engagement struct {
	CreatedAt time.Time
	Upvotes   int
	Downvotes int
	Comments  int
}

func rootModel(root Target) (any, error) {
	switch root.Type {
	case models.TargetPost:
		return &models.Post{}, nil
	case models.TargetIssue:
		return &models.Issue{}, nil
	}
	return nil, apperr.Validation("no trending score for " + root.Type)
}

func (s *Store) EngagementOf(ctx context.Context, root Target) (Engagement, error) {
	model, err := rootModel(root)
	if err != nil {
		return Engagement{}, err
	}
	var row struct{ CreatedAt time.Time }
	if err := s.conn(ctx).Model(model).Select("created_at").Where("id = ?", root.ID).Take(&row).Error; err != nil {
		return Engagement{}, translate(err, root.Type)
	}
	up, err := s.CountVotes(ctx, root, engagement.Upvote)
	if err != nil {
		return Engagement{}, err
	}
	down, err := s.CountVotes(ctx, root, engagement.Downvote)
	if err != nil {
		return Engagement{}, err
	}
	comments, err := s.CountComments(ctx, root)
	if err != nil {
		return Engagement{}, err
	}
	return Engagement{
		CreatedAt: row.CreatedAt,
		Upvotes:   int(up),
		Downvotes: int(down),
		Comments:  int(comments),
	}, nil
}

func (s *Store) UpdateScore(ctx context.Context, root Target, score float64) error {
	model, err := rootModel(root)
	if err != nil {
		return err
	}
	err = s.conn(ctx).Model(model).Where("id = ?", root.ID).UpdateColumn("score", score).Error
	return translate(err, root.Type)
}

// HotRoots returns posts and issues created after since plus the top scored
// ones of each kind, without duplicates.
func (s *Store) HotRoots(ctx context.Context, since time.Time, top int) ([]Target, error) {
	seen := make(map[Target]bool)
	var out []Target
	for _, kind := range []string{models.TargetPost, models.TargetIssue} {
		model, _ := rootModel(Target{Type: kind})
		var recent, best []string
		if err := s.conn(ctx).Model(model).Where("created_at >= ?", since).Pluck("id", &recent).Error; err != nil {
			return nil, translate(err, kind)
		}
		if err := s.conn(ctx).Model(model).Order("score DESC").Limit(top).Pluck("id", &best).Error; err != nil {
			return nil, translate(err, kind)
		}
		for _, id := range append(recent, best...) {
			t := Target{Type: kind, ID: id}
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}
