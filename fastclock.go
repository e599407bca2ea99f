package relite

import (
	"sync"
	"sync/atomic"
	"time"
)

// fasttime is a point in time in ticks, a coarse unit of roughly a
// microsecond. Match deadlines tolerate a lot of slop, so ticks trade
// precision for an overflow-proof range and a one-load comparison. The
// tick has to stay well under the clock period, or a deadline shorter
// than one period could round down to zero and expire early.
type fasttime int64

// durationToTicks downscales nanoseconds so the arithmetic cannot overflow
// even when a caller passes math.MaxInt64 ("forever").
func durationToTicks(d time.Duration) fasttime {
	return fasttime(d) >> 10
}

// DefaultClockPeriod is how often the background clock ticks forward.
const DefaultClockPeriod = 100 * time.Millisecond

var clockPeriod = DefaultClockPeriod

// SetTimeoutCheckPeriod changes the tick interval of the shared timeout
// clock. Smaller periods make timeouts more precise at the cost of more
// background wakeups; the default is right for production use.
func SetTimeoutCheckPeriod(d time.Duration) {
	clockPeriod = d
}

type atomicTime struct{ v int64 }

func (t *atomicTime) read() fasttime {
	return fasttime(atomic.LoadInt64(&t.v))
}

func (t *atomicTime) write(v fasttime) {
	atomic.StoreInt64(&t.v, int64(v))
}

// forward moves the time to v, never backwards.
func (t *atomicTime) forward(v fasttime) {
	for {
		cur := t.read()
		if cur >= v {
			return
		}
		if atomic.CompareAndSwapInt64(&t.v, int64(cur), int64(v)) {
			return
		}
	}
}

// fastclock is a shared coarse clock: a background goroutine advances
// current every clockPeriod while at least one deadline is outstanding,
// so the matcher's hot path checks a deadline with a single atomic load
// instead of a time.Now call.
type fastclock struct {
	mu      sync.Mutex
	start   time.Time // base the tick counts are measured from
	running bool

	current  atomicTime
	clockEnd atomicTime // the clock stops advancing past the latest deadline
}

var fast fastclock

// makeDeadline returns a fasttime approximately d from now and makes sure
// the background clock runs long enough to reach it.
func makeDeadline(d time.Duration) fasttime {
	fast.mu.Lock()
	defer fast.mu.Unlock()

	if fast.start.IsZero() {
		fast.start = time.Now()
	}
	// The stored time lags by up to one period, and stops entirely once
	// the clock winds down; measure the deadline from a fresh reading.
	now := durationToTicks(time.Since(fast.start))
	fast.current.forward(now)

	// Pad by one period since the clock may be about to tick.
	end := now + durationToTicks(d+clockPeriod)
	if end > fast.clockEnd.read() {
		fast.clockEnd.write(end)
	}
	if !fast.running {
		fast.running = true
		go runClock()
	}
	return end
}

// reached reports whether the deadline has passed, within the slop of one
// clock period.
func (d fasttime) reached() bool {
	return fast.current.read() >= d
}

func runClock() {
	fast.mu.Lock()
	defer fast.mu.Unlock()

	for fast.current.read() <= fast.clockEnd.read() {
		fast.mu.Unlock()
		time.Sleep(clockPeriod)
		fast.mu.Lock()
		fast.current.forward(durationToTicks(time.Since(fast.start)))
	}
	fast.running = false
}

// StopTimeoutClock shuts the background clock goroutine down without
// waiting for outstanding deadlines to expire, and returns once it has
// exited. Useful when tearing down a process that ran matches with long
// timeouts.
func StopTimeoutClock() {
	fast.mu.Lock()
	defer fast.mu.Unlock()

	fast.clockEnd.write(fast.current.read())
	for fast.running {
		fast.mu.Unlock()
		time.Sleep(clockPeriod / 4)
		fast.mu.Lock()
	}
}
