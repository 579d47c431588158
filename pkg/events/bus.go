// Package events carries realtime deltas from the session to the screen
// controllers. Unlike the transport channel, the bus fans out: every
// subscriber sees every event, subscriptions are enumerable, and a screen
// cancels its own subscription without touching anyone else's.
package events

import (
	"sync"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

// NewApplication announces an application created out-of-band.
type NewApplication struct {
	Application api.JobApplication
}

// JobExpired announces a server-side expiry. Job is set when the payload
// carried the full record; JobID is always set.
type JobExpired struct {
	JobID string
	Job   *api.Job
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

type topic[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

func (t *topic[T]) subscribe(fn func(T)) func() {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// publish invokes subscribers synchronously in subscription order, so one
// event is fully applied before the next is dispatched.
func (t *topic[T]) publish(ev T) {
	t.mu.Lock()
	subs := make([]subscriber[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

func (t *topic[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

type Bus struct {
	newApplication topic[NewApplication]
	jobExpired     topic[JobExpired]
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeNewApplication(fn func(NewApplication)) (cancel func()) {
	return b.newApplication.subscribe(fn)
}

func (b *Bus) SubscribeJobExpired(fn func(JobExpired)) (cancel func()) {
	return b.jobExpired.subscribe(fn)
}

func (b *Bus) PublishNewApplication(ev NewApplication) {
	b.newApplication.publish(ev)
}

func (b *Bus) PublishJobExpired(ev JobExpired) {
	b.jobExpired.publish(ev)
}

func (b *Bus) NewApplicationSubscribers() int {
	return b.newApplication.len()
}

func (b *Bus) JobExpiredSubscribers() int {
	return b.jobExpired.len()
}
