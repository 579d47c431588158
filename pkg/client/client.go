package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
	"github.com/iam-santhosh777/jobportal-client/pkg/metrics"
	"github.com/iam-santhosh777/jobportal-client/pkg/normalize"
)

// PortalServiceClient wraps every backend capability of the job portal.
//
// List-style reads (GetAllJobs, GetActiveJobs, GetAllApplications,
// GetAllResumes) and GetStats never fail in this implementation: network or
// parse errors are logged and degrade to empty results, so screen layers
// do not special-case read failures. Mutating operations propagate errors
// for the caller to surface.
type PortalServiceClient interface {
	Login(ctx *httpclient.Context, req api.LoginRequest) (*api.LoginResponse, error)

	GetAllJobs(ctx *httpclient.Context) ([]api.Job, error)
	GetActiveJobs(ctx *httpclient.Context) ([]api.Job, error)
	CreateJob(ctx *httpclient.Context, req api.CreateJobRequest) (*api.Job, error)
	MarkAsExpired(ctx *httpclient.Context, jobID string) (*api.Job, error)
	ApplyToJob(ctx *httpclient.Context, jobID string) (*api.JobApplication, error)

	GetAllApplications(ctx *httpclient.Context) ([]api.JobApplication, error)
	GetStats(ctx *httpclient.Context) (api.DashboardStats, error)

	UploadResume(ctx *httpclient.Context, fileName string, size int64, content io.Reader, onProgress func(percent int)) (*api.Resume, error)
	GetAllResumes(ctx *httpclient.Context) ([]api.Resume, error)
	DeleteResume(ctx *httpclient.Context, resumeID string) error
	DownloadResume(ctx *httpclient.Context, resumeID string, dst io.Writer) (int64, error)
}

type portalClient struct {
	logger  *zap.Logger
	baseURL string
}

func NewPortalClient(logger *zap.Logger, baseURL string) PortalServiceClient {
	return &portalClient{
		logger:  logger,
		baseURL: baseURL,
	}
}

func count(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.APIRequests.WithLabelValues(operation, outcome).Inc()
}

func (s *portalClient) Login(ctx *httpclient.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	url := fmt.Sprintf("%s/auth/login", s.baseURL)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal login request: %w", err)
	}

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodPost, url, ctx.ToHeaders(), payload, &body)
	count("login", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}

	var wire struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	if err := json.Unmarshal(normalize.Unwrap(body), &wire); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &api.LoginResponse{
		Token: wire.Token,
		User:  normalize.User(wire.User),
	}, nil
}

func (s *portalClient) GetAllJobs(ctx *httpclient.Context) ([]api.Job, error) {
	jobs, err := s.fetchJobs(ctx, fmt.Sprintf("%s/jobs", s.baseURL))
	count("get_all_jobs", err)
	if err != nil {
		s.logger.Error("failed to fetch jobs", zap.Error(err))
		return []api.Job{}, nil
	}
	return jobs, nil
}

func (s *portalClient) GetActiveJobs(ctx *httpclient.Context) ([]api.Job, error) {
	jobs, err := s.fetchJobs(ctx, fmt.Sprintf("%s/jobs/active", s.baseURL))
	count("get_active_jobs", err)
	if err != nil {
		s.logger.Error("failed to fetch active jobs", zap.Error(err))
		return []api.Job{}, nil
	}
	return jobs, nil
}

func (s *portalClient) fetchJobs(ctx *httpclient.Context, url string) ([]api.Job, error) {
	var body json.RawMessage
	if statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodGet, url, ctx.ToHeaders(), nil, &body); err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}
	return normalize.Jobs(normalize.Unwrap(body)), nil
}

func (s *portalClient) CreateJob(ctx *httpclient.Context, req api.CreateJobRequest) (*api.Job, error) {
	url := fmt.Sprintf("%s/jobs", s.baseURL)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodPost, url, ctx.ToHeaders(), payload, &body)
	count("create_job", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}
	return decodeJob(body)
}

func (s *portalClient) MarkAsExpired(ctx *httpclient.Context, jobID string) (*api.Job, error) {
	url := fmt.Sprintf("%s/jobs/%s/expire", s.baseURL, jobID)

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodPatch, url, ctx.ToHeaders(), nil, &body)
	count("mark_as_expired", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}
	return decodeJob(body)
}

func (s *portalClient) ApplyToJob(ctx *httpclient.Context, jobID string) (*api.JobApplication, error) {
	url := fmt.Sprintf("%s/jobs/%s/apply", s.baseURL, jobID)

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodPost, url, ctx.ToHeaders(), nil, &body)
	count("apply_to_job", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(normalize.Unwrap(body), &raw); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	app := normalize.Application(raw)
	return &app, nil
}

func (s *portalClient) GetAllApplications(ctx *httpclient.Context) ([]api.JobApplication, error) {
	url := fmt.Sprintf("%s/applications", s.baseURL)

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodGet, url, ctx.ToHeaders(), nil, &body)
	count("get_all_applications", err)
	if err != nil {
		s.logger.Error("failed to fetch applications", zap.Error(err), zap.Int("status", statusCode))
		return []api.JobApplication{}, nil
	}

	apps := normalize.Applications(normalize.Unwrap(body))
	s.enrichJobTitles(ctx, apps)
	return apps, nil
}

// enrichJobTitles backfills missing job titles with a best-effort lookup
// against the full job list. A failed lookup leaves the title blank.
func (s *portalClient) enrichJobTitles(ctx *httpclient.Context, apps []api.JobApplication) {
	missing := false
	for _, app := range apps {
		if app.JobTitle == "" && app.JobID != "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	jobs, err := s.GetAllJobs(ctx)
	if err != nil {
		return
	}
	titles := make(map[string]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}
	for i := range apps {
		if apps[i].JobTitle == "" && apps[i].JobID != "" {
			apps[i].JobTitle = titles[apps[i].JobID]
		}
	}
}

// GetStats reads the aggregate dashboard endpoint. When it fails, the
// counters are recomputed from the underlying lists; the expired-job count
// uses the same expiry-status resolution as the normalizer.
func (s *portalClient) GetStats(ctx *httpclient.Context) (api.DashboardStats, error) {
	url := fmt.Sprintf("%s/dashboard", s.baseURL)

	var body json.RawMessage
	_, err := httpclient.DoRequest(ctx.Request(), http.MethodGet, url, ctx.ToHeaders(), nil, &body)
	count("get_stats", err)
	if err == nil {
		return normalize.Stats(body), nil
	}
	s.logger.Error("failed to fetch dashboard stats, recomputing from lists", zap.Error(err))

	jobs, _ := s.GetAllJobs(ctx)
	apps, _ := s.GetAllApplications(ctx)
	resumes, _ := s.GetAllResumes(ctx)

	expired := 0
	for _, job := range jobs {
		if job.Expired() {
			expired++
		}
	}
	return api.DashboardStats{
		TotalJobs:         len(jobs),
		TotalApplications: len(apps),
		ExpiredJobs:       expired,
		TotalResumes:      len(resumes),
	}, nil
}

func decodeJob(body json.RawMessage) (*api.Job, error) {
	var raw map[string]any
	if err := json.Unmarshal(normalize.Unwrap(body), &raw); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	job := normalize.Job(raw)
	return &job, nil
}
