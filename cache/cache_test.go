package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory(MemoryConfig{MaxCost: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemory_SetGetDelete(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	ok, err := m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Delete(ctx, "k"))
	err = m.Get(ctx, "k", &got)
	assert.True(t, IsCacheMiss(err))
}

func TestLoad_FillsOnce(t *testing.T) {
	m := newMemory(t)
	l := NewLoader(m, time.Minute)
	ctx := context.Background()

	var calls int32
	fetch := func(context.Context) (payload, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return payload{Name: "settings"}, nil
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(ctx, l, "site", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "settings", v.Name)
		}()
	}
	close(start)
	wg.Wait()

	v, err := Load(ctx, l, "site", fetch)
	require.NoError(t, err)
	assert.Equal(t, "settings", v.Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	l.Invalidate(ctx, "site")
	_, err = Load(ctx, l, "site", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoad_ErrorNotCached(t *testing.T) {
	l := NewLoader(newMemory(t), time.Minute)
	boom := errors.New("boom")

	_, err := Load(context.Background(), l, "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := Load(context.Background(), l, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
