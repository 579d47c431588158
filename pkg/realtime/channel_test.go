package realtime

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/config"
)

type fakeTransport struct {
	events    chan Event
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		events: make(chan Event, 64),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) push(t EventType, data string) {
	f.events <- Event{Type: t, Data: json.RawMessage(data)}
}

func (f *fakeTransport) ReadEvent() (*Event, error) {
	select {
	case ev := <-f.events:
		return &ev, nil
	case <-f.closed:
		return nil, net.ErrClosed
	}
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func newTestChannel(t *testing.T, dial Dialer) *Channel {
	t.Helper()
	return NewChannel(zap.NewNop(), config.Config{}, WithDialer(dial), WithEndpointResolver(func() string {
		return "ws://test"
	}))
}

func TestConnectIsIdempotent(t *testing.T) {
	dials := 0
	transport := newFakeTransport()
	ch := newTestChannel(t, func(ctx context.Context, endpoint, token string) (Transport, error) {
		dials++
		return transport, nil
	})
	defer ch.Disconnect()

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	require.NoError(t, ch.Connect(context.Background(), "tok"))
	assert.Equal(t, 1, dials)
	assert.True(t, ch.Connected())
}

func TestEndpointResolvedOnEveryConnect(t *testing.T) {
	resolved := 0
	ch := NewChannel(zap.NewNop(), config.Config{},
		WithDialer(func(ctx context.Context, endpoint, token string) (Transport, error) {
			return newFakeTransport(), nil
		}),
		WithEndpointResolver(func() string {
			resolved++
			return "ws://test"
		}),
	)

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	ch.Disconnect()
	require.NoError(t, ch.Connect(context.Background(), "tok"))
	ch.Disconnect()
	assert.Equal(t, 2, resolved)
}

func TestEventsDispatchedInDeliveryOrder(t *testing.T) {
	transport := newFakeTransport()
	ch := newTestChannel(t, func(ctx context.Context, endpoint, token string) (Transport, error) {
		return transport, nil
	})
	defer ch.Disconnect()

	var mu sync.Mutex
	var got []string
	ch.On(EventNewApplication, func(data json.RawMessage) {
		mu.Lock()
		got = append(got, string(data))
		mu.Unlock()
	})

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	for _, payload := range []string{`"a"`, `"b"`, `"c"`, `"d"`} {
		transport.push(EventNewApplication, payload)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 4
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`"a"`, `"b"`, `"c"`, `"d"`}, got)
}

func TestLastSubscriberWins(t *testing.T) {
	transport := newFakeTransport()
	ch := newTestChannel(t, func(ctx context.Context, endpoint, token string) (Transport, error) {
		return transport, nil
	})
	defer ch.Disconnect()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	ch.On(EventJobExpired, func(json.RawMessage) { first <- struct{}{} })
	ch.On(EventJobExpired, func(json.RawMessage) { second <- struct{}{} })

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	transport.push(EventJobExpired, `{}`)

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("replacement handler never fired")
	}
	select {
	case <-first:
		t.Fatal("replaced handler still receiving")
	default:
	}
}

func TestOffRemovesHandler(t *testing.T) {
	transport := newFakeTransport()
	ch := newTestChannel(t, func(ctx context.Context, endpoint, token string) (Transport, error) {
		return transport, nil
	})
	defer ch.Disconnect()

	fired := make(chan struct{}, 2)
	ch.On(EventJobExpired, func(json.RawMessage) { fired <- struct{}{} })
	ch.Off(EventJobExpired)

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	transport.push(EventJobExpired, `{}`)

	select {
	case <-fired:
		t.Fatal("unsubscribed handler fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDisconnectThenConnectCreatesFreshConnection(t *testing.T) {
	var transports []*fakeTransport
	ch := newTestChannel(t, func(ctx context.Context, endpoint, token string) (Transport, error) {
		tr := newFakeTransport()
		transports = append(transports, tr)
		return tr, nil
	})

	require.NoError(t, ch.Connect(context.Background(), "tok"))
	ch.Disconnect()
	assert.False(t, ch.Connected())
	require.NoError(t, ch.Connect(context.Background(), "tok"))
	defer ch.Disconnect()

	require.Len(t, transports, 2)
	select {
	case <-transports[0].closed:
	default:
		t.Fatal("first transport left open")
	}
}
