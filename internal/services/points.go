package services

import (
	"context"

	"ngosocial/internal/engagement"

	"go.uber.org/zap"
)

// 积分动作常量
const (
	ActionIssueComment = "issue_comment"
)

// 积分值常量
const (
	PointsIssueComment = 0.002
)

// 每日限制
const (
	DailyCommentLimit = 3 // 每天前3条议题评论有积分
)

type PointsStore interface {
	AddPoints(ctx context.Context, p engagement.Principal, amount float64, action string) error
	CountTodayPointLogs(ctx context.Context, p engagement.Principal, action string) (int64, error)
}

type Points struct {
	store PointsStore
	log   *zap.Logger
}

func NewPoints(s PointsStore, log *zap.Logger) *Points {
	return &Points{store: s, log: log}
}

// CanEarnCommentPoints 检查今日是否还能通过议题评论获取积分
func (p *Points) CanEarnCommentPoints(ctx context.Context, author engagement.Principal) (bool, error) {
	n, err := p.store.CountTodayPointLogs(ctx, author, ActionIssueComment)
	if err != nil {
		return false, err
	}
	return n < DailyCommentLimit, nil
}

// AwardIssueComment credits author for an issue comment while the daily
// allowance lasts. It reports whether points were added.
func (p *Points) AwardIssueComment(ctx context.Context, author engagement.Principal) (bool, error) {
	ok, err := p.CanEarnCommentPoints(ctx, author)
	if err != nil || !ok {
		return false, err
	}
	if err := p.store.AddPoints(ctx, author, PointsIssueComment, ActionIssueComment); err != nil {
		return false, err
	}
	p.log.Debug("points awarded", zap.String("principal", author.String()), zap.String("action", ActionIssueComment))
	return true, nil
}
