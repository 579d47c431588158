package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// DialWithFallback tries the streaming websocket transport first and falls
// back to request/response polling when the upgrade is refused.
func DialWithFallback(ctx context.Context, endpoint, token string) (Transport, error) {
	ws, err := dialWebsocket(ctx, endpoint, token)
	if err == nil {
		return ws, nil
	}
	return newPollingTransport(endpoint, token), nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func dialWebsocket(ctx context.Context, endpoint, token string) (Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/realtime"
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return &wsTransport{conn: conn}, nil
}

func (t *wsTransport) ReadEvent() (*Event, error) {
	var ev Event
	if err := t.conn.ReadJSON(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// pollingTransport emulates the stream over repeated HTTP polls. The
// server hands back a cursor with each batch; empty polls back off
// exponentially and reset on delivery.
type pollingTransport struct {
	endpoint string
	token    string
	client   *http.Client
	backoff  backoff.BackOff

	queue  []Event
	cursor string

	closeOnce sync.Once
	closed    chan struct{}
}

func newPollingTransport(endpoint, token string) *pollingTransport {
	u, err := url.Parse(endpoint)
	if err == nil {
		switch u.Scheme {
		case "ws":
			u.Scheme = "http"
		case "wss":
			u.Scheme = "https"
		}
		endpoint = u.String()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0

	return &pollingTransport{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
		backoff:  b,
		closed:   make(chan struct{}),
	}
}

func (t *pollingTransport) ReadEvent() (*Event, error) {
	for {
		if len(t.queue) > 0 {
			ev := t.queue[0]
			t.queue = t.queue[1:]
			return &ev, nil
		}

		select {
		case <-t.closed:
			return nil, net.ErrClosed
		default:
		}

		events, err := t.poll()
		if err != nil || len(events) == 0 {
			select {
			case <-t.closed:
				return nil, net.ErrClosed
			case <-time.After(t.backoff.NextBackOff()):
			}
			continue
		}
		t.backoff.Reset()
		t.queue = append(t.queue, events...)
	}
}

func (t *pollingTransport) poll() ([]Event, error) {
	u := fmt.Sprintf("%s/realtime/poll", t.endpoint)
	if t.cursor != "" {
		u += "?cursor=" + url.QueryEscape(t.cursor)
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.token)

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll status: %d", res.StatusCode)
	}

	var batch struct {
		Cursor string  `json:"cursor"`
		Events []Event `json:"events"`
	}
	if err := json.NewDecoder(res.Body).Decode(&batch); err != nil {
		return nil, err
	}
	if batch.Cursor != "" {
		t.cursor = batch.Cursor
	}
	return batch.Events, nil
}

func (t *pollingTransport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}
