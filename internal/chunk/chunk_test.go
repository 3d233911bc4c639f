package chunk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestForEachBatchesAndProgress(t *testing.T) {
	var starts, sizes []int
	var progress [][2]int

	err := ForEach(context.Background(), seq(2500), Options{
		Size:       1000,
		OnProgress: func(p, total int) { progress = append(progress, [2]int{p, total}) },
	}, func(start int, batch []int) error {
		starts = append(starts, start)
		sizes = append(sizes, len(batch))
		assert.Equal(t, start, batch[0])
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1000, 2000}, starts)
	assert.Equal(t, []int{1000, 1000, 500}, sizes)
	assert.Equal(t, [][2]int{{1000, 2500}, {2000, 2500}, {2500, 2500}}, progress)
}

func TestForEachEmpty(t *testing.T) {
	called := false
	err := ForEach(context.Background(), []int{}, Options{
		OnProgress: func(int, int) { called = true },
	}, func(int, []int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestForEachStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := ForEach(context.Background(), seq(30), Options{Size: 10}, func(int, []int) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestForEachHonorsCancellationDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := ForEach(ctx, seq(30), Options{Size: 10, Delay: time.Hour}, func(int, []int) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestMap(t *testing.T) {
	out, err := Map(context.Background(), seq(2001), func(v int) int { return v * 2 }, Options{})
	require.NoError(t, err)
	require.Len(t, out, 2001)
	assert.Equal(t, 4000, out[2000])
}
