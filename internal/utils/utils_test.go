package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpires(t *testing.T) {
	c := NewCache(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, -time.Second)

	assert.Equal(t, 1, c.Get("a"))
	assert.Nil(t, c.Get("b"))

	c.Delete("a")
	assert.Nil(t, c.Get("a"))
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Get("a")
	c.Set("c", 3, time.Minute)

	assert.Nil(t, c.Get("b"))
	assert.Equal(t, 1, c.Get("a"))
}

func TestCalculateScore(t *testing.T) {
	cfg := DefaultConfig
	assert.Zero(t, cfg.Score(0, 0, 0, 0))
	assert.Zero(t, cfg.Score(0, 1, 5, 0), "negative engagement clamps to zero")

	fresh := cfg.Score(time.Hour, 10, 0, 2)
	old := cfg.Score(48*time.Hour, 10, 0, 2)
	assert.Greater(t, fresh, old)
	assert.Greater(t, cfg.Score(time.Hour, 10, 0, 3), fresh)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**help** needed <script>alert(1)</script>\n\n![x](https://img.example.com/a.png)"))
	assert.Contains(t, out, "<strong>help</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `loading="lazy"`)
	assert.Empty(t, RenderMarkdown(""))
}

func TestEnhanceEmbedsYoutube(t *testing.T) {
	out := string(EnhanceHTMLContent(`<p>https://youtu.be/abc123</p><p>see https://youtu.be/x later</p>`))
	assert.Contains(t, out, "https://www.youtube.com/embed/abc123")
	assert.Contains(t, out, "see https://youtu.be/x later")

	assert.Equal(t, "xyz", youtubeID("https://www.youtube.com/watch?v=xyz&t=3"))
	assert.Empty(t, youtubeID("javascript:alert(1)"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit("", 20, 100))
	assert.Equal(t, 5, ClampLimit("5", 20, 100))
	assert.Equal(t, 100, ClampLimit("500", 20, 100))
}

func TestKeyLockSerializesSameKey(t *testing.T) {
	l := NewKeyLock(8)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("post:1:USER:u1")
			defer unlock()
			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *GlobalCache
	c.Set("a", 1, time.Minute)
	c.InvalidateGraph("post", "p1")
	assert.Nil(t, c.Get("a"))
}

func TestInvalidateGraph(t *testing.T) {
	c := NewCache(0)
	c.Set(GraphKey("post", "p1"), "graph", time.Minute)
	c.Set(GraphKey("post", "p2"), "other", time.Minute)

	c.InvalidateGraph("post", "p1")
	assert.Nil(t, c.Get(GraphKey("post", "p1")))
	assert.Equal(t, "other", c.Get(GraphKey("post", "p2")))
}

func TestSetIfGenerationSkipsAfterDelete(t *testing.T) {
	c := NewCache(10)
	key := GraphKey("post", "p1")

	gen := c.Generation(key)
	c.InvalidateGraph("post", "p1") // a write lands while the reader is loading
	assert.False(t, c.SetIfGeneration(key, gen, "stale", time.Minute))
	assert.Nil(t, c.Get(key))

	gen = c.Generation(key)
	assert.True(t, c.SetIfGeneration(key, gen, "fresh", time.Minute))
	assert.Equal(t, "fresh", c.Get(key))
}
