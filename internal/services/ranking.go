package services

import (
	"context"
	"sync"
	"time"

	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"go.uber.org/zap"
)

type ScoreStore interface {
	EngagementOf(ctx context.Context, root store.Target) (store.Engagement, error)
	UpdateScore(ctx context.Context, root store.Target, score float64) error
	HotRoots(ctx context.Context, since time.Time, top int) ([]store.Target, error)
}

// RankingService 异步计算和更新帖子 / 议题热度
type RankingService struct {
	store   ScoreStore
	queue   chan store.Target // 待更新队列
	pending map[store.Target]bool
	mu      sync.Mutex
	log     *zap.Logger

	batchSize int
	interval  time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRankingService(s ScoreStore, log *zap.Logger) *RankingService {
	return &RankingService{
		store:     s,
		queue:     make(chan store.Target, 1000), // 缓冲队列，防止阻塞
		pending:   make(map[store.Target]bool),
		log:       log,
		batchSize: 50,
		interval:  500 * time.Millisecond,
	}
}

// Start launches the batching worker and the daily refresh. Stop ends both.
func (s *RankingService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.scheduledRefresh(ctx)
	}()
}

// Stop flushes queued updates and waits for the goroutines to exit.
func (s *RankingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// ScheduleUpdate 将目标加入更新队列（异步）
// 已在队列中的目标不会重复入队
func (s *RankingService) ScheduleUpdate(root store.Target) {
	s.mu.Lock()
	if s.pending[root] {
		s.mu.Unlock()
		return
	}
	s.pending[root] = true
	s.mu.Unlock()

	select {
	case s.queue <- root:
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, root)
		s.mu.Unlock()
		s.log.Warn("ranking queue full, skipping", zap.String("target", root.String()))
	}
}

func (s *RankingService) worker(ctx context.Context) {
	batch := make([]store.Target, 0, s.batchSize)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case root := <-s.queue:
			batch = append(batch, root)
			if len(batch) >= s.batchSize {
				s.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			// drain what is already queued before exiting
			for {
				select {
				case root := <-s.queue:
					batch = append(batch, root)
				default:
					s.processBatch(context.WithoutCancel(ctx), batch)
					return
				}
			}
		}
	}
}

func (s *RankingService) processBatch(ctx context.Context, roots []store.Target) {
	for _, root := range roots {
		// 先清除 pending：计算期间到达的变更需要重新入队
		s.mu.Lock()
		delete(s.pending, root)
		s.mu.Unlock()
		if err := s.UpdateScoreSync(ctx, root); err != nil {
			s.log.Warn("update score failed", zap.String("target", root.String()), zap.Error(err))
		}
	}
}

// UpdateScoreSync recomputes one score immediately.
func (s *RankingService) UpdateScoreSync(ctx context.Context, root store.Target) error {
	e, err := s.store.EngagementOf(ctx, root)
	if err != nil {
		return err
	}
	score := utils.CalculateScore(e.CreatedAt, e.Upvotes, e.Downvotes, e.Comments)
	return s.store.UpdateScore(ctx, root, score)
}

// scheduledRefresh 每天凌晨 3 点刷新最近 7 天和分数最高的内容，让热度随时间衰减
func (s *RankingService) scheduledRefresh(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RefreshHot(ctx)
		}
	}
}

// RefreshHot recomputes recent and top scored posts and issues.
func (s *RankingService) RefreshHot(ctx context.Context) int {
	roots, err := s.store.HotRoots(ctx, time.Now().AddDate(0, 0, -7), 30)
	if err != nil {
		s.log.Error("load hot targets failed", zap.Error(err))
		return 0
	}
	for _, root := range roots {
		if err := s.UpdateScoreSync(ctx, root); err != nil {
			s.log.Warn("update score failed", zap.String("target", root.String()), zap.Error(err))
		}
	}
	s.log.Info("scheduled score refresh finished", zap.Int("count", len(roots)))
	return len(roots)
}
