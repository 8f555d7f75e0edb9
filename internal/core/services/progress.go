package services

import (
	"sync"
	"time"
)

// ProgressMode selects how the session progress value is driven
type ProgressMode string

const (
	// ProgressTransfer derives progress from request bytes sent
	ProgressTransfer ProgressMode = "transfer"
	// ProgressSimulated advances progress on a fixed timer, independent of the network
	ProgressSimulated ProgressMode = "simulated"
)

// ParseProgressMode maps a config value to a mode, defaulting to transfer
func ParseProgressMode(s string) ProgressMode {
	if ProgressMode(s) == ProgressSimulated {
		return ProgressSimulated
	}
	return ProgressTransfer
}

const (
	defaultRampStep     = 10.0
	defaultRampInterval = 100 * time.Millisecond
	rampCeiling         = 100.0
)

// ramp increments a value by step every interval until it reaches the ceiling.
// After stop returns, set is never called again.
type ramp struct {
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func startRamp(set func(float64), step float64, interval time.Duration) *ramp {
	r := &ramp{stopCh: make(chan struct{})}
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		value := 0.0
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				value += step
				if value > rampCeiling {
					value = rampCeiling
				}
				set(value)
				if value >= rampCeiling {
					return
				}
			}
		}
	}()

	return r
}

func (r *ramp) stop() {
	r.once.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

// transferPercent converts byte counts to a percentage; unknown totals yield false
func transferPercent(sent, total int64) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	p := float64(sent) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p, true
}
