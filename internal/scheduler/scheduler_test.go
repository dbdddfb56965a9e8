package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/pkg/logger"
)

type testJob struct {
	name     string
	schedule string
	err      error
	runs     atomic.Int32
}

func (j *testJob) Name() string     { return j.name }
func (j *testJob) Schedule() string { return j.schedule }

func (j *testJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("job context has no deadline")
	}
	return j.err
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&testJob{name: "b", schedule: "0 */5 * * * *"}))
	require.NoError(t, s.AddJob(&testJob{name: "a", schedule: "@hourly"}))

	assert.Error(t, s.AddJob(&testJob{name: "a", schedule: "@hourly"}), "duplicate name")
	assert.Error(t, s.AddJob(&testJob{name: "c", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&testJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.cron.Entries())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RecordsHistory(t *testing.T) {
	s := New(logger.Nop())
	ok := &testJob{name: "ok", schedule: "@hourly"}
	bad := &testJob{name: "bad", schedule: "@hourly", err: errors.New("source down")}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	s.runJob(ok)
	s.runJob(bad)
	s.runJob(bad)

	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(2), bad.runs.Load(), "no retry inside a run")

	history, err := s.GetJobHistory("bad")
	require.NoError(t, err)
	require.Len(t, history.Results, 2)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "source down", history.Results[0].Error)

	stats := s.GetJobStats()
	assert.Equal(t, 1, stats["ok"].SuccessCount)
	assert.Equal(t, 1.0, stats["ok"].SuccessRate)
	assert.NotNil(t, stats["ok"].LastSuccess)
	assert.Equal(t, 2, stats["bad"].FailureCount)
	assert.NotNil(t, stats["bad"].LastFailure)
	assert.Nil(t, stats["bad"].LastSuccess)
	assert.Equal(t, "@hourly", stats["bad"].Schedule)
}

func TestRunJob_Async(t *testing.T) {
	s := New(logger.Nop())
	job := &testJob{name: "warm", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("warm"))
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	assert.Error(t, s.RunJob("missing"))
}

func TestRunJobAndWait(t *testing.T) {
	s := New(logger.Nop())
	job := &testJob{name: "bad", schedule: "@hourly", err: errors.New("no rows")}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobAndWait("bad")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no rows", result.Error)
	assert.Equal(t, "bad", result.JobName)

	_, err = s.RunJobAndWait("missing")
	assert.Error(t, err)
}

func TestGetJobHistory_Unknown(t *testing.T) {
	_, err := New(logger.Nop()).GetJobHistory("missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&testJob{name: "a", schedule: "@hourly"}))

	s.Start()
	s.Stop()
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < 120; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%4 != 0})
	}

	assert.Len(t, h.Results, 100, "history is capped")
	assert.Len(t, h.GetLatestResults(10), 10)
	assert.Len(t, h.GetFailedResults(), 25)
	assert.InDelta(t, 0.75, h.GetSuccessRate(), 0.0001)
}
