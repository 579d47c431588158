package controller

import (
	"errors"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

// ActiveJobsController backs the job-seeker dashboard: only open positions
// a user can still apply to. Records without an id or a title render as
// broken cards, so they are dropped at the boundary.
type ActiveJobsController struct {
	logger   *zap.Logger
	client   client.PortalServiceClient
	notifier Notifier

	mu       sync.Mutex
	state    State
	jobs     []api.Job
	applying map[string]bool
	gen      uint64

	cancelExpired func()
}

func NewActiveJobsController(logger *zap.Logger, cl client.PortalServiceClient, notifier Notifier) *ActiveJobsController {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &ActiveJobsController{
		logger:   logger.Named("active-jobs"),
		client:   cl,
		notifier: notifier,
		state:    StateLoading,
		applying: map[string]bool{},
	}
}

// Start loads the active list and subscribes to expiry events. Unlike the
// HR screen this one patches locally: an expired job disappears from the
// list immediately, no refetch.
func (c *ActiveJobsController) Start(ctx *httpclient.Context, bus *events.Bus) {
	if bus != nil {
		c.cancelExpired = bus.SubscribeJobExpired(func(ev events.JobExpired) {
			c.removeJob(ev.JobID)
		})
	}
	c.Reload(ctx)
}

func (c *ActiveJobsController) Close() {
	if c.cancelExpired != nil {
		c.cancelExpired()
		c.cancelExpired = nil
	}
}

func (c *ActiveJobsController) Reload(ctx *httpclient.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()

	jobs, err := c.client.GetActiveJobs(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state = StateReady
	if err != nil {
		c.logger.Error("failed to load active jobs", zap.Error(err))
		c.notifier.Error("Failed to load jobs")
		c.jobs = nil
		return
	}
	filtered := make([]api.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.ID == "" || job.Title == "" || job.Expired() {
			continue
		}
		filtered = append(filtered, job)
	}
	c.jobs = filtered
}

func (c *ActiveJobsController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ActiveJobsController) Jobs() []api.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Applying reports whether an apply call for the job is in flight, so the
// UI can disable the button instead of double-submitting.
func (c *ActiveJobsController) Applying(jobID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applying[jobID]
}

// Apply submits an application. The server rejects duplicates; its message
// is surfaced verbatim so the user sees "already applied" style errors.
func (c *ActiveJobsController) Apply(ctx *httpclient.Context, jobID string) error {
	c.mu.Lock()
	if c.applying[jobID] {
		c.mu.Unlock()
		return nil
	}
	c.applying[jobID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.applying, jobID)
		c.mu.Unlock()
	}()

	if _, err := c.client.ApplyToJob(ctx, jobID); err != nil {
		msg := "Failed to submit application"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if s, ok := httpErr.Message.(string); ok && s != "" {
				msg = s
			}
		}
		c.logger.Error("failed to apply to job", zap.String("job_id", jobID), zap.Error(err))
		c.notifier.Error(msg)
		return err
	}

	c.notifier.Success("Application submitted successfully!")
	c.Reload(ctx)
	return nil
}

func (c *ActiveJobsController) removeJob(jobID string) {
	if jobID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.jobs[:0]
	for _, job := range c.jobs {
		if job.ID == jobID {
			continue
		}
		kept = append(kept, job)
	}
	c.jobs = kept
}
