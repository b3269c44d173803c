package services

import (
	"context"

	"ngosocial/internal/utils"

	"golang.org/x/sync/singleflight"
)

// serializer 同一 (目标, Principal) 的切换请求串行执行；
// 完全相同且同时在途的请求合并为一次执行，共享结果
type serializer struct {
	locks *utils.KeyLock
	group singleflight.Group
}

func newSerializer(stripes int) *serializer {
	return &serializer{locks: utils.NewKeyLock(stripes)}
}

// do runs fn under lockKey. Callers passing the same flightKey while an
// earlier call is still running receive that call's result instead of
// running fn again. fn runs detached from the caller's cancellation so a
// departing caller never aborts a write other callers wait on.
func (s *serializer) do(ctx context.Context, lockKey, flightKey string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (any, error) {
		unlock := s.locks.Lock(lockKey)
		defer unlock()
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
