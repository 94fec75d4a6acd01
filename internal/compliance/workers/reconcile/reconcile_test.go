package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian/internal/compliance/models"
)

type stubReconciler struct {
	calls   atomic.Int32
	result  models.ReconcileResult
	err     error
	release chan struct{}
	started chan struct{}
}

func (s *stubReconciler) ReconcilePending(ctx context.Context) (models.ReconcileResult, error) {
	s.calls.Add(1)
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return models.ReconcileResult{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func TestNew_RequiresReconciler(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New(&stubReconciler{}, WithSchedule("not a schedule"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reconcile schedule")
}

func TestNew_AcceptsCronExpressions(t *testing.T) {
	for _, spec := range []string{"@every 15m", "*/5 * * * *", "0 */10 * * * *", "@hourly"} {
		_, err := New(&stubReconciler{}, WithSchedule(spec))
		assert.NoError(t, err, spec)
	}
}

func TestRunOnce_ReturnsSweepResult(t *testing.T) {
	stub := &stubReconciler{result: models.ReconcileResult{Checked: 3, Applied: 1, Ignored: 2}}
	w, err := New(stub)
	require.NoError(t, err)

	res, ran, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, 1, res.Applied)
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestRunOnce_PropagatesError(t *testing.T) {
	stub := &stubReconciler{err: errors.New("provider down")}
	w, err := New(stub)
	require.NoError(t, err)

	_, ran, err := w.RunOnce(context.Background())
	assert.True(t, ran)
	assert.EqualError(t, err, "provider down")
}

func TestRunOnce_SkipsOverlappingSweep(t *testing.T) {
	stub := &stubReconciler{release: make(chan struct{}), started: make(chan struct{})}
	w, err := New(stub)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = w.RunOnce(context.Background())
	}()
	<-stub.started

	_, ran, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	close(stub.release)
	<-done
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestRunOnce_AppliesTimeout(t *testing.T) {
	stub := &stubReconciler{release: make(chan struct{})}
	w, err := New(stub, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, ran, err := w.RunOnce(context.Background())
	assert.True(t, ran)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartStop(t *testing.T) {
	w, err := New(&stubReconciler{}, WithSchedule("@every 1h"))
	require.NoError(t, err)

	w.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
}
