package clock

import "time"

// Clock abstracts time to keep the engine deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Ticker is the periodic source that drives the focus timer at 1 Hz.
// Implementations stop delivering ticks once Stop returns.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTicker struct {
	inner *time.Ticker
}

func NewSystemTicker(interval time.Duration) Ticker {
	return &systemTicker{inner: time.NewTicker(interval)}
}

func (t *systemTicker) C() <-chan time.Time { return t.inner.C }

func (t *systemTicker) Stop() { t.inner.Stop() }
