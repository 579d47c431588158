package controller

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

func TestJobsControllerFilter(t *testing.T) {
	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			return []api.Job{
				{ID: "1", Title: "Backend Engineer", ExpiryStatus: api.ExpiryStatusActive},
				{ID: "2", Title: "Designer", ExpiryStatus: api.ExpiryStatusExpired, IsExpired: true},
				{ID: "3", Title: "Data Analyst", ExpiryStatus: api.ExpiryStatusActive},
			}, nil
		},
	}
	c := NewJobsController(testLogger(), cl, nil)
	c.Reload(testContext())

	require.Equal(t, StateReady, c.State())

	all, active, expired := c.Counts()
	assert.Equal(t, 3, all)
	assert.Equal(t, 2, active)
	assert.Equal(t, 1, expired)

	assert.Len(t, c.Jobs(), 3)

	c.SetFilter(FilterActive)
	jobs := c.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].ID)
	assert.Equal(t, "3", jobs[1].ID)

	c.SetFilter(FilterExpired)
	jobs = c.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "2", jobs[0].ID)

	// switching the filter never mutates the underlying collection
	c.SetFilter(FilterAll)
	assert.Len(t, c.All(), 3)
}

func TestJobsControllerLoadError(t *testing.T) {
	notifier := &recordingNotifier{}
	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			return nil, errors.New("boom")
		},
	}
	c := NewJobsController(testLogger(), cl, notifier)
	c.Reload(testContext())

	assert.Equal(t, StateReady, c.State())
	assert.Empty(t, c.Jobs())
	assert.Equal(t, []string{"Failed to load jobs"}, notifier.Errors())
}

func TestJobsControllerMarkAsExpiredOptimistic(t *testing.T) {
	reconcile := make(chan struct{})
	var calls int
	var mu sync.Mutex

	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				return []api.Job{
					{ID: "1", Title: "Backend Engineer", ExpiryStatus: api.ExpiryStatusActive},
				}, nil
			}
			<-reconcile
			return []api.Job{
				{ID: "1", Title: "Backend Engineer", ExpiryStatus: api.ExpiryStatusExpired, IsExpired: true},
			}, nil
		},
		markAsExpired: func(_ *httpclient.Context, jobID string) (*api.Job, error) {
			return &api.Job{ID: jobID, ExpiryStatus: api.ExpiryStatusExpired}, nil
		},
	}
	notifier := &recordingNotifier{}
	c := NewJobsController(testLogger(), cl, notifier)
	c.Reload(testContext())

	done := make(chan error, 1)
	go func() { done <- c.MarkAsExpired(testContext(), "1") }()

	// phase one: the local record is patched and tagged provisional while
	// the reconciling fetch is still blocked
	assert.Eventually(t, func() bool {
		return c.Provisional("1")
	}, time.Second, 5*time.Millisecond)
	jobs := c.All()
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Expired())

	// phase two: the fetch lands and the provisional tag is cleared
	close(reconcile)
	require.NoError(t, <-done)
	assert.False(t, c.Provisional("1"))
	jobs = c.All()
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Expired())
	assert.Equal(t, []string{"Job marked as expired"}, notifier.Successes())
}

func TestJobsControllerMarkAsExpiredFailure(t *testing.T) {
	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			return []api.Job{{ID: "1", Title: "Backend Engineer", ExpiryStatus: api.ExpiryStatusActive}}, nil
		},
		markAsExpired: func(*httpclient.Context, string) (*api.Job, error) {
			return nil, errors.New("server error")
		},
	}
	notifier := &recordingNotifier{}
	c := NewJobsController(testLogger(), cl, notifier)
	c.Reload(testContext())

	require.Error(t, c.MarkAsExpired(testContext(), "1"))
	assert.Equal(t, []string{"Failed to mark job as expired"}, notifier.Errors())
	// no optimistic patch on failure
	assert.False(t, c.All()[0].Expired())
	assert.False(t, c.Provisional("1"))
}

func TestJobsControllerStaleFetchDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls int
	var mu sync.Mutex

	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(firstStarted)
				<-releaseFirst
				return []api.Job{{ID: "stale", Title: "Old Listing"}}, nil
			}
			return []api.Job{{ID: "fresh", Title: "New Listing"}}, nil
		},
	}
	c := NewJobsController(testLogger(), cl, nil)

	firstDone := make(chan struct{})
	go func() {
		c.Reload(testContext())
		close(firstDone)
	}()
	<-firstStarted

	// second reload completes while the first is still in flight
	c.Reload(testContext())
	jobs := c.All()
	require.Len(t, jobs, 1)
	assert.Equal(t, "fresh", jobs[0].ID)

	// the stale response arrives afterwards and must not overwrite
	close(releaseFirst)
	<-firstDone
	jobs = c.All()
	require.Len(t, jobs, 1)
	assert.Equal(t, "fresh", jobs[0].ID)
}

func TestJobsControllerReloadsOnExpiryEvent(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cl := &stubClient{
		getAllJobs: func(*httpclient.Context) ([]api.Job, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			return nil, nil
		},
	}
	bus := events.NewBus()
	c := NewJobsController(testLogger(), cl, nil)
	c.Start(testContext(), bus)
	defer c.Close()

	bus.PublishJobExpired(events.JobExpired{JobID: "1"})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
