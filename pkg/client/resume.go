package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
	"github.com/iam-santhosh777/jobportal-client/pkg/metrics"
	"github.com/iam-santhosh777/jobportal-client/pkg/normalize"
)

// UploadResume streams the file as a multipart body under the "resume"
// field. onProgress receives integer percent complete derived from the
// transferred byte count; it is only called when the total size is known.
func (s *portalClient) UploadResume(ctx *httpclient.Context, fileName string, size int64, content io.Reader, onProgress func(percent int)) (*api.Resume, error) {
	url := fmt.Sprintf("%s/resumes/upload", s.baseURL)

	src := content
	if size > 0 && onProgress != nil {
		src = &progressReader{r: content, total: size, report: onProgress}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("resume", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	var body json.RawMessage
	statusCode, err := httpclient.DoMultipart(ctx.Request(), url, ctx.ToHeaders(), mw.FormDataContentType(), pr, &body)
	count("upload_resume", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return nil, echo.NewHTTPError(statusCode, err.Error())
		}
		return nil, err
	}

	if size > 0 {
		metrics.UploadBytes.Add(float64(size))
	}

	var raw map[string]any
	if err := json.Unmarshal(normalize.Unwrap(body), &raw); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	resume := normalize.Resume(raw)
	return &resume, nil
}

func (s *portalClient) GetAllResumes(ctx *httpclient.Context) ([]api.Resume, error) {
	url := fmt.Sprintf("%s/resumes", s.baseURL)

	var body json.RawMessage
	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodGet, url, ctx.ToHeaders(), nil, &body)
	count("get_all_resumes", err)
	if err != nil {
		s.logger.Error("failed to fetch resumes", zap.Error(err), zap.Int("status", statusCode))
		return []api.Resume{}, nil
	}
	return normalize.Resumes(normalize.Unwrap(body)), nil
}

func (s *portalClient) DeleteResume(ctx *httpclient.Context, resumeID string) error {
	url := fmt.Sprintf("%s/resumes/%s", s.baseURL, resumeID)

	statusCode, err := httpclient.DoRequest(ctx.Request(), http.MethodDelete, url, ctx.ToHeaders(), nil, nil)
	count("delete_resume", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return echo.NewHTTPError(statusCode, err.Error())
		}
		return err
	}
	return nil
}

func (s *portalClient) DownloadResume(ctx *httpclient.Context, resumeID string, dst io.Writer) (int64, error) {
	url := fmt.Sprintf("%s/resumes/%s/download", s.baseURL, resumeID)

	body, statusCode, err := httpclient.DoStream(ctx.Request(), http.MethodGet, url, ctx.ToHeaders())
	count("download_resume", err)
	if err != nil {
		if 400 <= statusCode && statusCode < 500 {
			return 0, echo.NewHTTPError(statusCode, err.Error())
		}
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(dst, body)
	if err != nil {
		return n, fmt.Errorf("copy download: %w", err)
	}
	return n, nil
}

// progressReader reports integer percent complete as the multipart body is
// consumed. When the total is unknown the caller gets no callbacks before
// completion.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(percent int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
