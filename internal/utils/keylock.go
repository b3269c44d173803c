package utils

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// KeyLock 按 key 分片的互斥锁：同 key 串行，不同 key 大概率并行
type KeyLock struct {
	stripes []sync.Mutex
}

func NewKeyLock(stripes int) *KeyLock {
	if stripes < 1 {
		stripes = 1
	}
	return &KeyLock{stripes: make([]sync.Mutex, stripes)}
}

func (l *KeyLock) stripe(key string) *sync.Mutex {
	return &l.stripes[xxhash.Sum64String(key)%uint64(len(l.stripes))]
}

// Lock locks key's stripe and returns the matching unlock func.
func (l *KeyLock) Lock(key string) func() {
	m := l.stripe(key)
	m.Lock()
	return m.Unlock
}
