package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFlight_CoalescesConcurrentCallers(t *testing.T) {
	var flight Flight
	var runs atomic.Int64

	const callers = 16
	start := make(chan struct{})
	shared := make(chan bool, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, fromLeader := flight.Do("live:gw-12", func() (any, error) {
				runs.Add(1)
				time.Sleep(25 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("coalesced call failed: %v", err)
			}
			shared <- fromLeader
		}()
	}

	close(start)
	wg.Wait()
	close(shared)

	if got := runs.Load(); got != 1 {
		t.Fatalf("expected a single leader run, got %d", got)
	}
	leaders := 0
	for fromLeader := range shared {
		if !fromLeader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Fatalf("expected exactly one caller to run fn, got %d", leaders)
	}
}

func TestFlight_SequentialCallsRunIndependently(t *testing.T) {
	var flight Flight
	var runs atomic.Int64

	for i := 0; i < 2; i++ {
		_, err, fromLeader := flight.Do("bootstrap", func() (any, error) {
			runs.Add(1)
			return i, nil
		})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if fromLeader {
			t.Fatalf("call %d unexpectedly shared a result", i)
		}
	}

	if got := runs.Load(); got != 2 {
		t.Fatalf("expected fn to run per sequential call, got %d", got)
	}
}

func TestFlight_PropagatesLeaderError(t *testing.T) {
	var flight Flight
	errBoom := errors.New("upstream exploded")

	const callers = 4
	start := make(chan struct{})
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := flight.Do("standings", func() (any, error) {
				time.Sleep(10 * time.Millisecond)
				return nil, errBoom
			})
			errs <- err
		}()
	}

	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected leader error for every caller, got %v", err)
		}
	}
}
