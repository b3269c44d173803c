package services

import (
	"context"
	"sync"

	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"go.uber.org/zap"
)

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) (engagement.Principal, error)
	CreateNotification(ctx context.Context, to engagement.Principal, message, link string) (*models.Notification, error)
}

// Commenter 发表评论，并处理积分、热度和通知等后续工作
type Commenter struct {
	store   CommentStore
	points  *Points
	ranking ScoreScheduler
	cache   *utils.GlobalCache
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewCommenter(s CommentStore, points *Points, ranking ScoreScheduler, cache *utils.GlobalCache, log *zap.Logger) *Commenter {
	return &Commenter{store: s, points: points, ranking: ranking, cache: cache, log: log}
}

// Create stores c authored by author. Issue comments earn points while the
// daily allowance lasts; the content owner is notified in the background.
func (s *Commenter) Create(ctx context.Context, author engagement.Principal, c *models.Comment) error {
	c.UserID, c.NgoID = author.Refs()
	owner, err := s.store.CreateComment(ctx, c)
	if err != nil {
		return err
	}

	root := store.Target{Type: c.TargetType, ID: c.TargetID}
	s.cache.InvalidateGraph(root.Type, root.ID)
	if s.ranking != nil {
		s.ranking.ScheduleUpdate(root)
	}

	if root.Type == models.TargetIssue && s.points != nil {
		if _, err := s.points.AwardIssueComment(ctx, author); err != nil {
			s.log.Warn("award comment points failed", zap.String("principal", author.String()), zap.Error(err))
		}
	}

	if !owner.IsZero() && owner != author {
		s.notify(context.WithoutCancel(ctx), owner, root)
	}
	return nil
}

func (s *Commenter) notify(ctx context.Context, owner engagement.Principal, root store.Target) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		msg := "Someone commented on your " + root.Type
		if _, err := s.store.CreateNotification(ctx, owner, msg, "/"+root.Type+"/"+root.ID); err != nil {
			s.log.Warn("create notification failed", zap.String("to", owner.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until pending notifications are written.
func (s *Commenter) Wait() {
	s.wg.Wait()
}
