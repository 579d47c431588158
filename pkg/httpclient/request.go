package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type EchoError struct {
	Message string `json:"message"`
}

// Context carries the authenticated identity attached to every request.
// The bearer token comes from the locally persisted session.
type Context struct {
	Ctx context.Context

	Token    string
	UserID   string
	UserRole string
}

func (ctx *Context) ToHeaders() map[string]string {
	headers := map[string]string{}
	if ctx.Token != "" {
		headers["Authorization"] = "Bearer " + ctx.Token
	}
	return headers
}

func (ctx *Context) Request() context.Context {
	if ctx.Ctx == nil {
		return context.Background()
	}
	return ctx.Ctx
}

var client = http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxConnsPerHost:     100,
		MaxIdleConnsPerHost: 100,
	},
}

// DoRequest sends a JSON request and decodes the response body into v.
// The status code is returned alongside the error so callers can map
// 4xx responses to user-facing failures.
func DoRequest(ctx context.Context, method, url string, headers map[string]string, payload []byte, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Add(k, val)
	}

	res, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		d, err := io.ReadAll(res.Body)
		if err != nil {
			return res.StatusCode, fmt.Errorf("read body: %w", err)
		}

		var echoerr EchoError
		if jserr := json.Unmarshal(d, &echoerr); jserr == nil && echoerr.Message != "" {
			return res.StatusCode, fmt.Errorf("%s", echoerr.Message)
		}

		return res.StatusCode, fmt.Errorf("http status: %d: %s", res.StatusCode, d)
	}
	if v == nil {
		return res.StatusCode, nil
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return res.StatusCode, fmt.Errorf("decode body: %w", err)
	}
	return res.StatusCode, nil
}

// DoStream issues a request and returns the raw response body for the
// caller to consume. Used for file downloads where the payload is not JSON.
func DoStream(ctx context.Context, method, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	for k, val := range headers {
		req.Header.Add(k, val)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		d, _ := io.ReadAll(res.Body)
		res.Body.Close()

		var echoerr EchoError
		if jserr := json.Unmarshal(d, &echoerr); jserr == nil && echoerr.Message != "" {
			return nil, res.StatusCode, fmt.Errorf("%s", echoerr.Message)
		}
		return nil, res.StatusCode, fmt.Errorf("http status: %d: %s", res.StatusCode, d)
	}
	return res.Body, res.StatusCode, nil
}

// DoMultipart posts a multipart body with the given content type. The body
// reader is consumed as the request streams, so upload progress can be
// observed by wrapping it.
func DoMultipart(ctx context.Context, url string, headers map[string]string, contentType string, body io.Reader, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, val := range headers {
		req.Header.Add(k, val)
	}

	res, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		d, err := io.ReadAll(res.Body)
		if err != nil {
			return res.StatusCode, fmt.Errorf("read body: %w", err)
		}

		var echoerr EchoError
		if jserr := json.Unmarshal(d, &echoerr); jserr == nil && echoerr.Message != "" {
			return res.StatusCode, fmt.Errorf("%s", echoerr.Message)
		}
		return res.StatusCode, fmt.Errorf("http status: %d: %s", res.StatusCode, d)
	}
	if v == nil {
		return res.StatusCode, nil
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return res.StatusCode, fmt.Errorf("decode body: %w", err)
	}
	return res.StatusCode, nil
}
