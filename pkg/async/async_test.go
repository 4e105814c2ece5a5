package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result of function", func(t *testing.T) {
		t.Parallel()
		f := async.Async(context.Background(), 42, func(_ context.Context, n int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("Number: %d", n), nil
		})

		res, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "Number: 42", res)
		assert.True(t, f.IsComplete())
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		f := async.Async(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
			return 0, boom
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("pre-canceled context skips function", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Async(ctx, 1, func(_ context.Context, _ int) (int, error) {
			called = true
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("context timeout reaches function", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		f := async.Async(ctx, 1, func(ctx context.Context, _ int) (int, error) {
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	f, resolve := async.NewPromise[string]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	resolve("done", nil)
	res, err := f.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", res)
}

func TestPromise(t *testing.T) {
	t.Parallel()

	t.Run("first settlement wins", func(t *testing.T) {
		t.Parallel()
		f, resolve := async.NewPromise[int]()
		assert.True(t, resolve(1, nil))
		assert.False(t, resolve(2, errors.New("late")))

		res, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 1, res)
	})

	t.Run("resolved and rejected helpers", func(t *testing.T) {
		t.Parallel()
		res, err := async.Resolved("ok").Await()
		require.NoError(t, err)
		assert.Equal(t, "ok", res)

		_, err = async.Rejected[string](async.Rejection("taken")).Await()
		msg, ok := async.RejectionMessage(err)
		assert.True(t, ok)
		assert.Equal(t, "taken", msg)
	})

	t.Run("on complete callback", func(t *testing.T) {
		t.Parallel()
		f, resolve := async.NewPromise[int]()
		got := make(chan int, 1)
		f.OnComplete(func(v int, _ error) { got <- v })
		resolve(7, nil)

		select {
		case v := <-got:
			assert.Equal(t, 7, v)
		case <-time.After(time.Second):
			t.Fatal("callback was not invoked")
		}
	})
}

func TestJoin(t *testing.T) {
	t.Parallel()

	t.Run("settles immediately when sealed empty", func(t *testing.T) {
		t.Parallel()
		j := async.NewJoin()
		j.Seal()
		assert.NoError(t, j.Wait())
		assert.True(t, j.Future().IsComplete())
	})

	t.Run("waits for every operation", func(t *testing.T) {
		t.Parallel()
		j := async.NewJoin()
		require.NoError(t, j.Add(3))
		j.Seal()

		j.Done(nil)
		j.Done(nil)
		assert.False(t, j.Future().IsComplete())
		assert.Equal(t, 1, j.Pending())

		j.Done(nil)
		assert.NoError(t, j.Wait())
	})

	t.Run("does not settle before seal", func(t *testing.T) {
		t.Parallel()
		j := async.NewJoin()
		require.NoError(t, j.Add(1))
		j.Done(nil)
		assert.False(t, j.Future().IsComplete())

		j.Seal()
		assert.True(t, j.Future().IsComplete())
	})

	t.Run("accumulates every failure", func(t *testing.T) {
		t.Parallel()
		first := errors.New("first")
		second := async.Rejection("second")

		j := async.NewJoin()
		require.NoError(t, j.Add(2))
		j.Fail(errors.New("sync"))
		j.Seal()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); j.Done(first) }()
		go func() { defer wg.Done(); j.Done(second) }()
		wg.Wait()

		err := j.Wait()
		require.Error(t, err)
		assert.ErrorIs(t, err, first)
		msg, ok := async.RejectionMessage(err)
		assert.True(t, ok)
		assert.Equal(t, "second", msg)
		assert.Contains(t, err.Error(), "sync")
	})

	t.Run("add after settle fails", func(t *testing.T) {
		t.Parallel()
		j := async.NewJoin()
		j.Seal()
		assert.ErrorIs(t, j.Add(1), async.ErrJoinSettled)
	})
}
