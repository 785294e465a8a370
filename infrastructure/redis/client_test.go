package redis

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-back/pkg/config"
)

// Needs a live server: REDIS_TEST_URL=redis://localhost:6379/15
func setupRedis(t *testing.T) (*Client, string) {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	c, err := NewClient(&config.RedisConfig{URL: url})
	require.NoError(t, err)

	prefix := "test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		_, _ = c.ScanAndDelete(context.Background(), prefix+"*")
		_ = c.Close()
	})
	return c, prefix
}

func TestGetOrSet_LoadsOnceUnderContention(t *testing.T) {
	c, prefix := setupRedis(t)
	ctx := context.Background()
	key := prefix + "list"

	var loads atomic.Int32
	getter := func() (interface{}, error) {
		loads.Add(1)
		time.Sleep(50 * time.Millisecond)
		return []string{"a", "b"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got []string
			assert.NoError(t, c.GetOrSet(ctx, key, &got, time.Minute, getter))
			assert.Equal(t, []string{"a", "b"}, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), loads.Load())
}

func TestScanAndDelete(t *testing.T) {
	c, prefix := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, prefix+"list:all", []int{1}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, prefix+"list:Pendente", []int{2}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, prefix+"other", 3, time.Minute))

	n, err := c.ScanAndDelete(ctx, prefix+"list:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var v int
	require.NoError(t, c.GetJSON(ctx, prefix+"other", &v))
	assert.Equal(t, 3, v)
}

func TestIncr_GetInt64(t *testing.T) {
	c, prefix := setupRedis(t)
	ctx := context.Background()
	key := prefix + "gen"

	n, err := c.GetInt64(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = c.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.GetInt64(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
