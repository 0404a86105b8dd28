package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_CoversEveryIndexOnce(t *testing.T) {
	prev := Current()
	defer Configure(prev)
	Configure(Config{Grain: 8, Workers: 4})

	const n = 1000
	var hits [n]atomic.Int32
	For(n, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i].Add(1)
		}
	})

	for i := range hits {
		require.Equal(t, int32(1), hits[i].Load(), "index %d", i)
	}
}

func TestFor_RespectsWorkerLimit(t *testing.T) {
	prev := Current()
	defer Configure(prev)
	Configure(Config{Grain: 1, Workers: 2})

	var running, peak atomic.Int32
	For(64, func(start, end int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
	})
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFor_SmallLoopRunsInline(t *testing.T) {
	calls := 0
	For(10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}

func TestFor_Empty(t *testing.T) {
	For(0, func(_, _ int) {
		t.Fatal("fn called for empty range")
	})
}

func TestConfigure_Defaults(t *testing.T) {
	prev := Current()
	defer Configure(prev)

	Configure(Config{})
	assert.Equal(t, DefaultConfig(), Current())
}
