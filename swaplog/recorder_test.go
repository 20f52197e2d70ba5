package swaplog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/pttransamdriver/amm-master/amm"
)

// readEvents parses every line of every swap log file under dir.
func readEvents(t *testing.T, dir string) []Event {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "swaps_*.log"))
	require.NoError(t, err)

	var events []Event
	for _, file := range files {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, line := range strings.Split(string(data), "\n") {
			if line == "" {
				continue
			}
			var event Event
			require.NoError(t, json.Unmarshal([]byte(line), &event))
			events = append(events, event)
		}
	}
	return events
}

func TestRecorder_WritesEvents(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	r, err := NewRecorder(dir, true)
	require.NoError(t, err)

	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.AfterPoolSeeded(ctx, "alice", math.NewInt(1000), math.NewInt(2000), amm.DefaultSeedShares))
	require.NoError(t, r.AfterLiquidityChanged(ctx, "alice", math.NewInt(1000), math.NewInt(2000), amm.DefaultSeedShares, true))
	require.NoError(t, r.AfterSwap(ctx, amm.SwapRecord{
		Sequence:  1,
		Trader:    "bob",
		DenomIn:   "tokena",
		AmountIn:  math.NewInt(100),
		DenomOut:  "tokenb",
		AmountOut: math.NewInt(91),
		ReserveA:  math.NewInt(1100),
		ReserveB:  math.NewInt(1818),
		Timestamp: stamp,
	}))
	require.NoError(t, r.AfterLiquidityChanged(ctx, "alice", math.NewInt(500), math.NewInt(900), math.NewInt(42), false))
	require.NoError(t, r.Close())

	events := readEvents(t, dir)
	require.Len(t, events, 4)

	require.Equal(t, amm.EventTypePoolSeeded, events[0].EventType)
	require.Equal(t, "alice", events[0].Party)
	require.Equal(t, amm.DefaultSeedShares.String(), events[0].Shares)
	require.False(t, events[0].Timestamp.IsZero())

	require.Equal(t, amm.EventTypeAddLiquidity, events[1].EventType)
	require.Equal(t, "1000", events[1].AmountA)
	require.Equal(t, "2000", events[1].AmountB)

	swap := events[2]
	require.Equal(t, amm.EventTypeSwap, swap.EventType)
	require.Equal(t, uint64(1), swap.Sequence)
	require.Equal(t, "bob", swap.Party)
	require.Equal(t, "tokena", swap.DenomIn)
	require.Equal(t, "100", swap.AmountIn)
	require.Equal(t, "tokenb", swap.DenomOut)
	require.Equal(t, "91", swap.AmountOut)
	require.Equal(t, "1100", swap.ReserveA)
	require.Equal(t, "1818", swap.ReserveB)
	require.Equal(t, stamp, swap.Timestamp)

	require.Equal(t, amm.EventTypeRemoveLiquidity, events[3].EventType)
	require.Equal(t, "42", events[3].Shares)
}

func TestRecorder_DisabledDropsEvents(t *testing.T) {
	r, err := NewRecorder("", false)
	require.NoError(t, err)

	require.NoError(t, r.AfterSwap(context.Background(), amm.SwapRecord{Sequence: 1}))
	require.NoError(t, r.Close())
}

func TestRecorder_RotatesAtMaxSize(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	r, err := NewRecorder(dir, true)
	require.NoError(t, err)
	// Force a rotation before every write after the first.
	r.maxSize = 1

	for i := 0; i < 3; i++ {
		require.NoError(t, r.AfterPoolSeeded(ctx, "alice", math.NewInt(1), math.NewInt(1), math.NewInt(1)))
	}
	require.NoError(t, r.Close())

	// Rotation must not lose events, whatever the file count ended up as.
	require.Len(t, readEvents(t, dir), 3)
}

func TestRecorder_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	r, err := NewRecorder(dir, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if err := r.AfterSwap(ctx, amm.SwapRecord{
					Sequence:  seq,
					Trader:    "bob",
					AmountIn:  math.NewInt(1),
					AmountOut: math.NewInt(1),
					ReserveA:  math.NewInt(1),
					ReserveB:  math.NewInt(1),
				}); err != nil {
					t.Errorf("concurrent write: %v", err)
				}
			}
		}(uint64(g))
	}
	wg.Wait()
	require.NoError(t, r.Close())

	require.Len(t, readEvents(t, dir), 100)
}
