package session

import (
	"errors"
	"sync"
	"time"

	"github.com/relabs-tech/motion_controller/motion"
	"github.com/relabs-tech/motion_controller/scale"
)

// DefaultInterval is the polling cadence of a notification loop when
// WithInterval is not given.
const DefaultInterval = 50 * time.Millisecond

type notifyConfig struct {
	interval   time.Duration
	tolerance  float64
	target     scale.RangeConfig
	calibrated scale.RangeConfig
	scaler     *scale.Scaler
}

// Option adjusts a notification loop at start time.
type Option func(*notifyConfig)

// WithInterval overrides the default 50ms poll interval.
func WithInterval(d time.Duration) Option {
	return func(c *notifyConfig) { c.interval = d }
}

// WithTolerance overrides motion.DefaultTolerance as the per-axis
// change threshold.
func WithTolerance(tol float64) Option {
	return func(c *notifyConfig) { c.tolerance = tol }
}

// WithTargetRanges sets the output ranges of delivered snapshots.
// Axes left at the zero value default to scale.DefaultRange.
func WithTargetRanges(r scale.RangeConfig) Option {
	return func(c *notifyConfig) { c.target = r }
}

// WithCalibratedRanges sets the raw ranges the device actually
// reaches, typically a Probe result. Axes left at the zero value
// default to scale.DefaultRange.
func WithCalibratedRanges(r scale.RangeConfig) Option {
	return func(c *notifyConfig) { c.calibrated = r }
}

// Notifier is one running notification loop. Stop cancels it, Done
// closes once the goroutine has exited, and Err reports why: nil
// after a plain Stop, a *device.DisconnectedError if the device went
// away. Last always has the most recent raw snapshot the loop
// obtained, so a caller learning of a disconnect can still see where
// the controller was.
type Notifier struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu   sync.RWMutex
	last motion.Snapshot
	err  error
}

// Stop asks the loop to exit. It is idempotent and returns without
// waiting; receive on Done to synchronize.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() { close(n.stop) })
}

// Done closes when the loop goroutine has exited.
func (n *Notifier) Done() <-chan struct{} { return n.done }

// Err returns the error that terminated the loop, or nil if it was
// stopped. Meaningful once Done is closed.
func (n *Notifier) Err() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.err
}

// Last returns the most recent raw snapshot the loop took, initially
// the baseline read at start.
func (n *Notifier) Last() motion.Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.last
}

func (n *Notifier) setLast(snap motion.Snapshot) {
	n.mu.Lock()
	n.last = snap
	n.mu.Unlock()
}

func (n *Notifier) fail(err error) {
	n.mu.Lock()
	n.err = err
	n.mu.Unlock()
}

// Notify starts the notification loop for this session. It builds the
// scaler from the configured ranges, takes one blocking snapshot to
// seed the change-detection baseline, then polls on the configured
// interval. Whenever a fresh raw snapshot differs from the baseline by
// more than the tolerance (any axis, or any button flip), the scaled
// snapshot is handed to fn and the raw one becomes the new baseline.
//
// Sub-tolerance drift never resets the baseline, so slow movement
// still fires once it accumulates past the tolerance. fn runs
// synchronously on the loop goroutine: a slow callback delays
// subsequent ticks of this session but cannot corrupt them, and has no
// effect on other sessions.
//
// The loop runs until Stop or a device failure. Errors from the
// option values, the scaler build (degenerate calibrated range) or the
// seed read are returned immediately instead of starting the loop.
func (s *Session) Notify(fn func(motion.Snapshot), opts ...Option) (*Notifier, error) {
	if fn == nil {
		return nil, errors.New("session: notify callback must not be nil")
	}

	cfg := notifyConfig{
		interval:  DefaultInterval,
		tolerance: motion.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.interval <= 0 {
		return nil, errors.New("session: interval must be > 0")
	}
	if cfg.tolerance < 0 {
		return nil, errors.New("session: tolerance must be >= 0")
	}

	scaler, err := scale.NewScaler(cfg.target, cfg.calibrated)
	if err != nil {
		return nil, err
	}
	cfg.scaler = scaler

	baseline, err := s.ReadSnapshot()
	if err != nil {
		return nil, err
	}

	n := &Notifier{
		stop: make(chan struct{}),
		done: make(chan struct{}),
		last: baseline,
	}
	go s.runNotify(n, fn, cfg, baseline)
	return n, nil
}

// runNotify is the loop goroutine. The baseline is local state: there
// is no concurrent writer, so it needs no lock.
func (s *Session) runNotify(n *Notifier, fn func(motion.Snapshot), cfg notifyConfig, baseline motion.Snapshot) {
	defer close(n.done)

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.stop:
			return
		case <-ticker.C:
		}

		snap, err := s.ReadSnapshot()
		if err != nil {
			n.fail(err)
			return
		}
		n.setLast(snap)

		if motion.IsDifferent(snap, baseline, cfg.tolerance) {
			baseline = snap
			fn(cfg.scaler.Apply(snap))
		}
	}
}
