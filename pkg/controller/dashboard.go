package controller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

// DashboardController keeps the aggregate counters. It never derives them
// locally; any realtime event just triggers a fresh fetch.
type DashboardController struct {
	logger   *zap.Logger
	client   client.PortalServiceClient
	notifier Notifier

	mu    sync.Mutex
	state State
	stats api.DashboardStats
	gen   uint64

	cancelNew     func()
	cancelExpired func()
}

func NewDashboardController(logger *zap.Logger, cl client.PortalServiceClient, notifier Notifier) *DashboardController {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &DashboardController{
		logger:   logger.Named("dashboard"),
		client:   cl,
		notifier: notifier,
		state:    StateLoading,
	}
}

func (c *DashboardController) Start(ctx *httpclient.Context, bus *events.Bus) {
	if bus != nil {
		c.cancelNew = bus.SubscribeNewApplication(func(events.NewApplication) {
			c.Reload(ctx)
		})
		c.cancelExpired = bus.SubscribeJobExpired(func(events.JobExpired) {
			c.Reload(ctx)
		})
	}
	c.Reload(ctx)
}

func (c *DashboardController) Close() {
	if c.cancelNew != nil {
		c.cancelNew()
		c.cancelNew = nil
	}
	if c.cancelExpired != nil {
		c.cancelExpired()
		c.cancelExpired = nil
	}
}

func (c *DashboardController) Reload(ctx *httpclient.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()

	stats, err := c.client.GetStats(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state = StateReady
	if err != nil {
		c.logger.Error("failed to load dashboard stats", zap.Error(err))
		c.notifier.Error("Failed to load dashboard data")
		c.stats = api.DashboardStats{}
		return
	}
	c.stats = stats
}

func (c *DashboardController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *DashboardController) Stats() api.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
