// Package session ties the pieces together for one authenticated user: the
// API client, a realtime channel scoped to the session lifetime, and the
// event bus the screen controllers subscribe to.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/config"
	"github.com/iam-santhosh777/jobportal-client/pkg/events"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
	"github.com/iam-santhosh777/jobportal-client/pkg/normalize"
	"github.com/iam-santhosh777/jobportal-client/pkg/realtime"
)

type Session struct {
	logger  *zap.Logger
	client  client.PortalServiceClient
	channel *realtime.Channel
	bus     *events.Bus

	mu    sync.Mutex
	token string
	user  api.User
}

func New(logger *zap.Logger, cfg config.Config, opts ...realtime.Option) *Session {
	return &Session{
		logger:  logger.Named("session"),
		client:  client.NewPortalClient(logger, cfg.ResolveAPIBaseURL()),
		channel: realtime.NewChannel(logger, cfg, opts...),
		bus:     events.NewBus(),
	}
}

func (s *Session) Client() client.PortalServiceClient { return s.client }
func (s *Session) Bus() *events.Bus                   { return s.bus }
func (s *Session) Channel() *realtime.Channel         { return s.channel }

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Session) User() api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Context builds the request context every client call takes. Safe to call
// before login; the resulting requests just carry no credentials.
func (s *Session) Context(ctx context.Context) *httpclient.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &httpclient.Context{
		Ctx:      ctx,
		Token:    s.token,
		UserID:   s.user.ID,
		UserRole: string(s.user.Role),
	}
}

// Login authenticates, stores the credentials, and brings up the realtime
// channel. A channel failure is not fatal: the session still works, it
// just will not receive live events.
func (s *Session) Login(ctx context.Context, email, password string) (api.User, error) {
	resp, err := s.client.Login(&httpclient.Context{Ctx: ctx}, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return api.User{}, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = resp.User
	s.mu.Unlock()

	s.channel.On(realtime.EventNewApplication, s.handleNewApplication)
	s.channel.On(realtime.EventJobExpired, s.handleJobExpired)
	if err := s.channel.Connect(ctx, resp.Token); err != nil {
		s.logger.Warn("realtime channel unavailable", zap.Error(err))
	}
	return resp.User, nil
}

// Logout tears the session down in reverse order: handlers off, channel
// down, credentials cleared.
func (s *Session) Logout() {
	s.channel.Off(realtime.EventNewApplication)
	s.channel.Off(realtime.EventJobExpired)
	s.channel.Disconnect()

	s.mu.Lock()
	s.token = ""
	s.user = api.User{}
	s.mu.Unlock()
}

func (s *Session) handleNewApplication(data json.RawMessage) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("malformed new-application event", zap.Error(err))
		return
	}
	app := normalize.Application(raw)
	if app.ID == "" {
		s.logger.Warn("new-application event without an id, dropping")
		return
	}
	s.bus.PublishNewApplication(events.NewApplication{Application: app})
}

// handleJobExpired accepts both payload shapes the server emits: a bare
// {"jobId": ...} reference and a full job record.
func (s *Session) handleJobExpired(data json.RawMessage) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("malformed job-expired event", zap.Error(err))
		return
	}

	ev := events.JobExpired{JobID: stringField(raw, "jobId", "job_id")}
	if ev.JobID == "" {
		job := normalize.Job(raw)
		if job.ID == "" {
			s.logger.Warn("job-expired event without a job id, dropping")
			return
		}
		ev.JobID = job.ID
		ev.Job = &job
	}
	s.bus.PublishJobExpired(ev)
}

func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
