// Package resilience holds the client-side protection primitives used when
// talking to the upstream Fantasy Premier League API: in-flight request
// coalescing and a consecutive-failure circuit breaker.
package resilience

import "sync"

// Flight coalesces concurrent calls that share a key. The first caller for a
// key becomes the leader and runs fn; everyone else blocks until the leader
// finishes and receives the leader's result.
type Flight struct {
	mu     sync.Mutex
	leader map[string]*flightResult
}

type flightResult struct {
	ready chan struct{}
	value any
	err   error
}

// Do executes fn once per key at a time. The boolean result reports whether
// the value was shared from another caller's run instead of fn running here.
func (f *Flight) Do(key string, fn func() (any, error)) (any, error, bool) {
	f.mu.Lock()
	if f.leader == nil {
		f.leader = make(map[string]*flightResult)
	}
	if r, ok := f.leader[key]; ok {
		f.mu.Unlock()
		<-r.ready
		return r.value, r.err, true
	}
	r := &flightResult{ready: make(chan struct{})}
	f.leader[key] = r
	f.mu.Unlock()

	r.value, r.err = fn()

	f.mu.Lock()
	delete(f.leader, key)
	f.mu.Unlock()
	close(r.ready)

	return r.value, r.err, false
}
