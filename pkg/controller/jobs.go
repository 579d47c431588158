package controller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

type JobsFilter string

const (
	FilterAll     JobsFilter = "all"
	FilterActive  JobsFilter = "active"
	FilterExpired JobsFilter = "expired"
)

// JobsController backs the HR job-management screen: the full job list, an
// all/active/expired view filter, and the mark-as-expired action.
type JobsController struct {
	logger   *zap.Logger
	client   client.PortalServiceClient
	notifier Notifier

	mu          sync.Mutex
	state       State
	jobs        []api.Job
	filter      JobsFilter
	provisional map[string]bool
	gen         uint64

	cancelExpired func()
}

func NewJobsController(logger *zap.Logger, cl client.PortalServiceClient, notifier Notifier) *JobsController {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &JobsController{
		logger:      logger.Named("jobs"),
		client:      cl,
		notifier:    notifier,
		state:       StateLoading,
		filter:      FilterAll,
		provisional: map[string]bool{},
	}
}

// Start loads the collection and subscribes to expiry events. The expiry
// event is only a trigger: this screen re-fetches the full dataset rather
// than patching from the event payload.
func (c *JobsController) Start(ctx *httpclient.Context, bus *events.Bus) {
	if bus != nil {
		c.cancelExpired = bus.SubscribeJobExpired(func(events.JobExpired) {
			c.Reload(ctx)
		})
	}
	c.Reload(ctx)
}

func (c *JobsController) Close() {
	if c.cancelExpired != nil {
		c.cancelExpired()
		c.cancelExpired = nil
	}
}

// Reload fetches the authoritative collection. A fetch superseded by a
// newer one is discarded on arrival, so rapid reloads cannot resurrect
// stale data.
func (c *JobsController) Reload(ctx *httpclient.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()

	jobs, err := c.client.GetAllJobs(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state = StateReady
	c.provisional = map[string]bool{}
	if err != nil {
		c.logger.Error("failed to load jobs", zap.Error(err))
		c.notifier.Error("Failed to load jobs")
		c.jobs = nil
		return
	}
	c.jobs = jobs
}

func (c *JobsController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *JobsController) Filter() JobsFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *JobsController) SetFilter(f JobsFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Jobs returns the filtered view. The view is derived from the
// authoritative collection on every read; it is never the system of record.
func (c *JobsController) Jobs() []api.Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]api.Job, 0, len(c.jobs))
	for _, job := range c.jobs {
		switch c.filter {
		case FilterActive:
			if job.Expired() {
				continue
			}
		case FilterExpired:
			if !job.Expired() {
				continue
			}
		}
		out = append(out, job)
	}
	return out
}

func (c *JobsController) All() []api.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

func (c *JobsController) Counts() (all, active, expired int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, job := range c.jobs {
		if job.Expired() {
			expired++
		} else {
			active++
		}
	}
	return len(c.jobs), active, expired
}

// Provisional reports whether the job currently carries an optimistic
// patch that the server has not confirmed through a reload yet.
func (c *JobsController) Provisional(jobID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provisional[jobID]
}

// MarkAsExpired runs the two-phase update: on a successful call the local
// entity is patched immediately and tagged provisional, then a reconciling
// fetch unconditionally overwrites the optimistic state.
func (c *JobsController) MarkAsExpired(ctx *httpclient.Context, jobID string) error {
	if _, err := c.client.MarkAsExpired(ctx, jobID); err != nil {
		c.logger.Error("failed to mark job as expired", zap.String("job_id", jobID), zap.Error(err))
		c.notifier.Error("Failed to mark job as expired")
		return err
	}
	c.notifier.Success("Job marked as expired")

	c.mu.Lock()
	for i := range c.jobs {
		if c.jobs[i].ID == jobID {
			c.jobs[i].IsExpired = true
			c.jobs[i].ExpiryStatus = api.ExpiryStatusExpired
			c.provisional[jobID] = true
		}
	}
	c.mu.Unlock()

	c.Reload(ctx)
	return nil
}
