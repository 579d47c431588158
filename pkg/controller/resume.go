package controller

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/client"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
)

type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadFailed    UploadStatus = "failed"
)

// UploadUnit is a snapshot of one tracked upload. Units are independent:
// one failure never blocks or fails the others.
type UploadUnit struct {
	ID       string
	FileName string
	Size     int64
	Status   UploadStatus
	Progress int
	Error    string
}

type uploadUnit struct {
	UploadUnit
	open func() (io.ReadCloser, error)
}

// ResumeController backs the resume screen: the server-side collection
// plus the client-side upload tracker. Resumes holds only confirmed
// records; in-flight and failed uploads live in Units until dismissed.
type ResumeController struct {
	logger   *zap.Logger
	client   client.PortalServiceClient
	notifier Notifier

	mu      sync.Mutex
	state   State
	resumes []api.Resume
	units   []*uploadUnit
	gen     uint64
}

func NewResumeController(logger *zap.Logger, cl client.PortalServiceClient, notifier Notifier) *ResumeController {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &ResumeController{
		logger:   logger.Named("resumes"),
		client:   cl,
		notifier: notifier,
		state:    StateLoading,
	}
}

func (c *ResumeController) Start(ctx *httpclient.Context) {
	c.Reload(ctx)
}

func (c *ResumeController) Reload(ctx *httpclient.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()

	resumes, err := c.client.GetAllResumes(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state = StateReady
	if err != nil {
		c.logger.Error("failed to load resumes", zap.Error(err))
		c.notifier.Error("Failed to load resumes")
		c.resumes = nil
		return
	}
	c.resumes = resumes
}

func (c *ResumeController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ResumeController) Resumes() []api.Resume {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Resume, len(c.resumes))
	copy(out, c.resumes)
	return out
}

// Units returns snapshots of all tracked uploads in enqueue order.
func (c *ResumeController) Units() []UploadUnit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]UploadUnit, len(c.units))
	for i, u := range c.units {
		out[i] = u.UploadUnit
	}
	return out
}

func (c *ResumeController) Unit(id string) (UploadUnit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u := c.findUnit(id); u != nil {
		return u.UploadUnit, true
	}
	return UploadUnit{}, false
}

// Enqueue registers an upload and starts it in the background. The open
// callback is kept so a failed unit can be retried from the beginning.
func (c *ResumeController) Enqueue(ctx *httpclient.Context, fileName string, size int64, open func() (io.ReadCloser, error)) string {
	unit := &uploadUnit{
		UploadUnit: UploadUnit{
			ID:       uuid.NewString(),
			FileName: fileName,
			Size:     size,
			Status:   UploadIdle,
		},
		open: open,
	}

	c.mu.Lock()
	c.units = append(c.units, unit)
	c.mu.Unlock()

	go c.upload(ctx, unit.ID)
	return unit.ID
}

// Retry restarts a failed upload. Units in any other state are left alone.
func (c *ResumeController) Retry(ctx *httpclient.Context, id string) {
	c.mu.Lock()
	u := c.findUnit(id)
	if u == nil || u.Status != UploadFailed {
		c.mu.Unlock()
		return
	}
	u.Status = UploadIdle
	u.Progress = 0
	u.Error = ""
	c.mu.Unlock()

	go c.upload(ctx, id)
}

// Dismiss removes a finished unit from the tracker. An in-flight upload
// cannot be dismissed; it has to reach a terminal state first.
func (c *ResumeController) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, u := range c.units {
		if u.ID != id {
			continue
		}
		if u.Status != UploadSuccess && u.Status != UploadFailed {
			return
		}
		c.units = append(c.units[:i], c.units[i+1:]...)
		return
	}
}

func (c *ResumeController) upload(ctx *httpclient.Context, id string) {
	c.mu.Lock()
	u := c.findUnit(id)
	if u == nil || u.Status == UploadUploading {
		c.mu.Unlock()
		return
	}
	u.Status = UploadUploading
	u.Progress = 0
	fileName, size, open := u.FileName, u.Size, u.open
	c.mu.Unlock()

	content, err := open()
	if err != nil {
		c.fail(id, err.Error())
		c.notifier.Error("Failed to read " + fileName)
		return
	}
	defer content.Close()

	resume, err := c.client.UploadResume(ctx, fileName, size, content, func(percent int) {
		c.mu.Lock()
		if u := c.findUnit(id); u != nil {
			u.Progress = percent
		}
		c.mu.Unlock()
	})
	if err != nil {
		c.logger.Error("resume upload failed", zap.String("file", fileName), zap.Error(err))
		c.fail(id, err.Error())
		c.notifier.Error("Failed to upload " + fileName)
		return
	}

	c.mu.Lock()
	if u := c.findUnit(id); u != nil {
		u.Status = UploadSuccess
		u.Progress = 100
		u.Error = ""
	}
	if resume != nil && resume.ID != "" {
		c.resumes = append([]api.Resume{*resume}, c.resumes...)
	}
	c.mu.Unlock()

	c.notifier.Success(fileName + " uploaded successfully")
}

func (c *ResumeController) fail(id, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u := c.findUnit(id); u != nil {
		u.Status = UploadFailed
		u.Error = msg
	}
}

func (c *ResumeController) Delete(ctx *httpclient.Context, resumeID string) error {
	if err := c.client.DeleteResume(ctx, resumeID); err != nil {
		c.logger.Error("failed to delete resume", zap.String("resume_id", resumeID), zap.Error(err))
		c.notifier.Error("Failed to delete resume")
		return err
	}
	c.mu.Lock()
	kept := c.resumes[:0]
	for _, r := range c.resumes {
		if r.ID == resumeID {
			continue
		}
		kept = append(kept, r)
	}
	c.resumes = kept
	c.mu.Unlock()
	c.notifier.Success("Resume deleted")
	return nil
}

func (c *ResumeController) Download(ctx *httpclient.Context, resumeID string, dst io.Writer) (int64, error) {
	n, err := c.client.DownloadResume(ctx, resumeID, dst)
	if err != nil {
		c.logger.Error("failed to download resume", zap.String("resume_id", resumeID), zap.Error(err))
		c.notifier.Error("Failed to download resume")
		return n, err
	}
	return n, nil
}

// caller must hold mu
func (c *ResumeController) findUnit(id string) *uploadUnit {
	for _, u := range c.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}
