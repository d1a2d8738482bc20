package videoshelf

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/videoshelf/content"
)

// countingSource counts Query calls; safe for concurrent use.
type countingSource struct {
	mu    sync.Mutex
	calls int
	nodes []content.Node
	err   error
}

func (c *countingSource) Query(context.Context, Query) ([]content.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.nodes, c.err
}

func (c *countingSource) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestNodeCacheHit(t *testing.T) {
	src := &countingSource{nodes: []content.Node{testNode("a.md", "video", "A")}}
	cache := NewNodeCache(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		nodes, err := cache.Query(ctx, VideosQuery)
		require.NoError(t, err)
		assert.Len(t, nodes, 1)
	}
	assert.Equal(t, 1, src.count())

	// Distinct queries are cached separately.
	_, err := cache.Query(ctx, Query{Type: content.TypeVideo, IncludeDrafts: true})
	require.NoError(t, err)
	assert.Equal(t, 2, src.count())
}

func TestNodeCacheExpires(t *testing.T) {
	src := &countingSource{}
	cache := NewNodeCache(src, 20*time.Millisecond)
	ctx := context.Background()

	_, err := cache.Query(ctx, VideosQuery)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = cache.Query(ctx, VideosQuery)
	require.NoError(t, err)
	assert.Equal(t, 2, src.count())
}

func TestNodeCacheInvalidate(t *testing.T) {
	src := &countingSource{}
	cache := NewNodeCache(src, time.Hour)
	ctx := context.Background()

	_, _ = cache.Query(ctx, VideosQuery)
	cache.Invalidate()
	_, _ = cache.Query(ctx, VideosQuery)
	assert.Equal(t, 2, src.count())
}

func TestNodeCacheErrorNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("db down")}
	cache := NewNodeCache(src, time.Hour)
	ctx := context.Background()

	_, err := cache.Query(ctx, VideosQuery)
	require.Error(t, err)
	_, err = cache.Query(ctx, VideosQuery)
	require.Error(t, err)
	assert.Equal(t, 2, src.count())
}

func TestNodeCacheConcurrent(t *testing.T) {
	src := &countingSource{nodes: []content.Node{testNode("a.md", "video", "A")}}
	cache := NewNodeCache(src, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Query(context.Background(), VideosQuery)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, src.count())
}
