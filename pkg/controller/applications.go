package controller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

// ApplicationsController backs the HR applications screen. Incoming
// realtime applications merge into the live collection: an existing id is
// replaced in place, a new one is prepended.
type ApplicationsController struct {
	logger   *zap.Logger
	client   client.PortalServiceClient
	notifier Notifier

	mu           sync.Mutex
	state        State
	applications []api.JobApplication
	gen          uint64

	cancelNew func()
}

func NewApplicationsController(logger *zap.Logger, cl client.PortalServiceClient, notifier Notifier) *ApplicationsController {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &ApplicationsController{
		logger:   logger.Named("applications"),
		client:   cl,
		notifier: notifier,
		state:    StateLoading,
	}
}

func (c *ApplicationsController) Start(ctx *httpclient.Context, bus *events.Bus) {
	if bus != nil {
		c.cancelNew = bus.SubscribeNewApplication(func(ev events.NewApplication) {
			c.Merge(ev.Application)
		})
	}
	c.Reload(ctx)
}

func (c *ApplicationsController) Close() {
	if c.cancelNew != nil {
		c.cancelNew()
		c.cancelNew = nil
	}
}

func (c *ApplicationsController) Reload(ctx *httpclient.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()

	apps, err := c.client.GetAllApplications(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state = StateReady
	if err != nil {
		c.logger.Error("failed to load applications", zap.Error(err))
		c.notifier.Error("Failed to load applications")
		c.applications = nil
		return
	}
	c.applications = apps
}

func (c *ApplicationsController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ApplicationsController) Applications() []api.JobApplication {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.JobApplication, len(c.applications))
	copy(out, c.applications)
	return out
}

// Merge applies a realtime application to the collection. An application
// without an id cannot be deduplicated later and is dropped.
func (c *ApplicationsController) Merge(app api.JobApplication) {
	if app.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.applications {
		if c.applications[i].ID == app.ID {
			c.applications[i] = app
			return
		}
	}
	c.applications = append([]api.JobApplication{app}, c.applications...)
}
