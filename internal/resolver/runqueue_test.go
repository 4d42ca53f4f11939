package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DeferredUntilReady(t *testing.T) {
	r := newTestRegistry()
	ran := false
	r.DefineFactory("/app$1.0.0/index", func(ctx *ModuleContext) error {
		ran = true
		return nil
	})

	require.NoError(t, r.Run("/app$1.0.0/index", RunOptions{}))
	assert.False(t, ran, "entry point must wait for ready")
	assert.Equal(t, 1, r.QueuedRuns())

	require.NoError(t, r.Ready())
	assert.True(t, ran)
	assert.Equal(t, 0, r.QueuedRuns())
}

func TestRun_NoWaitExecutesImmediately(t *testing.T) {
	r := newTestRegistry()
	ran := false
	r.DefineFactory("/app$1.0.0/index", func(ctx *ModuleContext) error {
		ran = true
		return nil
	})

	require.NoError(t, r.Run("/app$1.0.0/index", RunOptions{NoWait: true}))
	assert.True(t, ran)
}

func TestRun_AfterReadyExecutesImmediately(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Ready())

	ran := false
	r.DefineFactory("/app$1.0.0/index", func(ctx *ModuleContext) error {
		ran = true
		return nil
	})

	require.NoError(t, r.Run("/app$1.0.0/index", RunOptions{}))
	assert.True(t, ran)
}

func TestReady_DrainsFIFO(t *testing.T) {
	r := newTestRegistry()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		r.DefineFactory("/app$1.0.0/"+name, func(ctx *ModuleContext) error {
			order = append(order, name)
			return nil
		})
		require.NoError(t, r.Run("/app$1.0.0/"+name, RunOptions{}))
	}

	require.NoError(t, r.Ready())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestReady_StopsWhenPendingJobRegisteredMidDrain(t *testing.T) {
	r := newTestRegistry()
	var order []string
	var job *PendingJob

	r.DefineFactory("/app$1.0.0/first", func(ctx *ModuleContext) error {
		order = append(order, "first")
		// An asynchronously-loaded bundle announces itself.
		job = r.BeginPendingJob()
		return nil
	})
	r.DefineFactory("/app$1.0.0/second", func(ctx *ModuleContext) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, r.Run("/app$1.0.0/first", RunOptions{}))
	require.NoError(t, r.Run("/app$1.0.0/second", RunOptions{}))

	require.NoError(t, r.Ready())
	assert.Equal(t, []string{"first"}, order, "drain stops when readiness flips")
	assert.Equal(t, 1, r.QueuedRuns())
	assert.False(t, r.IsReady())

	require.NoError(t, job.Done())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, r.IsReady())
}

func TestPendingJob_CountsToZero(t *testing.T) {
	r := newTestRegistry()
	ran := false
	r.DefineFactory("/app$1.0.0/index", func(ctx *ModuleContext) error {
		ran = true
		return nil
	})
	require.NoError(t, r.Run("/app$1.0.0/index", RunOptions{}))

	a := r.BeginPendingJob()
	b := r.BeginPendingJob()
	assert.Equal(t, 2, r.PendingJobs())

	require.NoError(t, a.Done())
	assert.False(t, ran, "one job still outstanding")

	require.NoError(t, b.Done())
	assert.True(t, ran)
	assert.Equal(t, 0, r.PendingJobs())
}

func TestPendingJob_DoneIdempotent(t *testing.T) {
	r := newTestRegistry()
	job := r.BeginPendingJob()

	require.NoError(t, job.Done())
	require.NoError(t, job.Done())
	assert.Equal(t, 0, r.PendingJobs())
}
