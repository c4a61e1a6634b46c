package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error { return f(ctx) }

func TestRunnerWaitFiltersCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(runFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestRunnerWaitAggregates(t *testing.T) {
	r := NewRunner()
	r.Go(
		runFunc(func(context.Context) error { return errors.New("a") }),
		runFunc(func(context.Context) error { return nil }),
		runFunc(func(context.Context) error { return errors.New("b") }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Len(t, agg.Errors, 2)
}

func TestRunWithContextCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var unblocked bool
	done := make(chan error, 1)
	go func() {
		done <- RunWithContextCancel(ctx, func() {
			unblocked = true
			close(release)
		}, func() error {
			close(started)
			<-release
			return errors.New("stopped")
		})
	}()

	<-started
	cancel()
	require.Equal(t, context.Canceled, <-done)
	require.True(t, unblocked)
}

func TestRunWithContextCancelReturnsFnError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithContextCancel(context.Background(), func() {
		t.Error("onCancel called without cancellation")
	}, func() error {
		return want
	})
	require.Equal(t, want, err)
}

func TestAggregatedErrorSkipsNil(t *testing.T) {
	var errs AggregatedError
	errs.Add(nil, errors.New("x"), nil)
	require.Len(t, errs.Errors, 1)
	require.Error(t, errs.Aggregate())

	var empty AggregatedError
	require.NoError(t, empty.Aggregate())
}
