package controller

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

// stubClient lets each test script exactly the backend behavior it needs.
// Unset functions return zero values.
type stubClient struct {
	login              func(ctx *httpclient.Context, req api.LoginRequest) (*api.LoginResponse, error)
	getAllJobs         func(ctx *httpclient.Context) ([]api.Job, error)
	getActiveJobs      func(ctx *httpclient.Context) ([]api.Job, error)
	createJob          func(ctx *httpclient.Context, req api.CreateJobRequest) (*api.Job, error)
	markAsExpired      func(ctx *httpclient.Context, jobID string) (*api.Job, error)
	applyToJob         func(ctx *httpclient.Context, jobID string) (*api.JobApplication, error)
	getAllApplications func(ctx *httpclient.Context) ([]api.JobApplication, error)
	getStats           func(ctx *httpclient.Context) (api.DashboardStats, error)
	uploadResume       func(ctx *httpclient.Context, fileName string, size int64, content io.Reader, onProgress func(int)) (*api.Resume, error)
	getAllResumes      func(ctx *httpclient.Context) ([]api.Resume, error)
	deleteResume       func(ctx *httpclient.Context, resumeID string) error
	downloadResume     func(ctx *httpclient.Context, resumeID string, dst io.Writer) (int64, error)
}

func (s *stubClient) Login(ctx *httpclient.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	return &api.LoginResponse{}, nil
}

func (s *stubClient) GetAllJobs(ctx *httpclient.Context) ([]api.Job, error) {
	if s.getAllJobs != nil {
		return s.getAllJobs(ctx)
	}
	return nil, nil
}

func (s *stubClient) GetActiveJobs(ctx *httpclient.Context) ([]api.Job, error) {
	if s.getActiveJobs != nil {
		return s.getActiveJobs(ctx)
	}
	return nil, nil
}

func (s *stubClient) CreateJob(ctx *httpclient.Context, req api.CreateJobRequest) (*api.Job, error) {
	if s.createJob != nil {
		return s.createJob(ctx, req)
	}
	return &api.Job{}, nil
}

func (s *stubClient) MarkAsExpired(ctx *httpclient.Context, jobID string) (*api.Job, error) {
	if s.markAsExpired != nil {
		return s.markAsExpired(ctx, jobID)
	}
	return &api.Job{}, nil
}

func (s *stubClient) ApplyToJob(ctx *httpclient.Context, jobID string) (*api.JobApplication, error) {
	if s.applyToJob != nil {
		return s.applyToJob(ctx, jobID)
	}
	return &api.JobApplication{}, nil
}

func (s *stubClient) GetAllApplications(ctx *httpclient.Context) ([]api.JobApplication, error) {
	if s.getAllApplications != nil {
		return s.getAllApplications(ctx)
	}
	return nil, nil
}

func (s *stubClient) GetStats(ctx *httpclient.Context) (api.DashboardStats, error) {
	if s.getStats != nil {
		return s.getStats(ctx)
	}
	return api.DashboardStats{}, nil
}

func (s *stubClient) UploadResume(ctx *httpclient.Context, fileName string, size int64, content io.Reader, onProgress func(int)) (*api.Resume, error) {
	if s.uploadResume != nil {
		return s.uploadResume(ctx, fileName, size, content, onProgress)
	}
	return &api.Resume{}, nil
}

func (s *stubClient) GetAllResumes(ctx *httpclient.Context) ([]api.Resume, error) {
	if s.getAllResumes != nil {
		return s.getAllResumes(ctx)
	}
	return nil, nil
}

func (s *stubClient) DeleteResume(ctx *httpclient.Context, resumeID string) error {
	if s.deleteResume != nil {
		return s.deleteResume(ctx, resumeID)
	}
	return nil
}

func (s *stubClient) DownloadResume(ctx *httpclient.Context, resumeID string, dst io.Writer) (int64, error) {
	if s.downloadResume != nil {
		return s.downloadResume(ctx, resumeID, dst)
	}
	return 0, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func testContext() *httpclient.Context {
	return &httpclient.Context{Ctx: context.Background(), Token: "test-token"}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
