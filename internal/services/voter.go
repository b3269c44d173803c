package services

import (
	"context"

	"ngosocial/internal/engagement"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"go.uber.org/zap"
)

// VoteStore is the persistence the Voter needs.
type VoteStore interface {
	ToggleVote(ctx context.Context, target store.Target, voter engagement.Principal, want engagement.VoteType) (store.VoteResult, error)
}

// ScoreScheduler queues a trending score recomputation.
type ScoreScheduler interface {
	ScheduleUpdate(root store.Target)
}

// Voter applies vote toggles for posts, issues and comments.
type Voter struct {
	store   VoteStore
	ranking ScoreScheduler
	cache   *utils.GlobalCache
	serial  *serializer
	log     *zap.Logger
}

func NewVoter(s VoteStore, ranking ScoreScheduler, cache *utils.GlobalCache, log *zap.Logger) *Voter {
	return &Voter{
		store:   s,
		ranking: ranking,
		cache:   cache,
		serial:  newSerializer(64),
		log:     log,
	}
}

// Toggle 切换投票。同一 Principal 对同一目标的请求串行；重复提交的相同请求只生效一次
func (v *Voter) Toggle(ctx context.Context, target store.Target, voter engagement.Principal, want engagement.VoteType) (store.VoteResult, error) {
	lockKey := target.String() + "|" + voter.String()
	flightKey := lockKey + "|" + string(want)

	val, err := v.serial.do(ctx, lockKey, flightKey, func(ctx context.Context) (any, error) {
		res, err := v.store.ToggleVote(ctx, target, voter, want)
		if err != nil {
			return nil, err
		}
		v.afterChange(res.Root)
		v.log.Debug("vote toggled",
			zap.String("target", target.String()),
			zap.String("voter", voter.String()),
			zap.String("action", string(res.Action)),
		)
		return res, nil
	})
	if err != nil {
		return store.VoteResult{}, err
	}
	return val.(store.VoteResult), nil
}

func (v *Voter) afterChange(root store.Target) {
	v.cache.InvalidateGraph(root.Type, root.ID)
	if v.ranking != nil {
		v.ranking.ScheduleUpdate(root)
	}
}
