package control

import "time"

const DefaultHoldTimeout = 500 * time.Millisecond

// Hold reconstructs a held key from repeated press events. The key counts
// as released once no press arrived for Timeout.
type Hold struct {
	Timeout time.Duration

	held bool
	last time.Time
}

func NewHold(timeout time.Duration) *Hold {
	if timeout <= 0 {
		timeout = DefaultHoldTimeout
	}
	return &Hold{Timeout: timeout}
}

// Press records a key event and reports whether it started a new hold.
func (h *Hold) Press(now time.Time) bool {
	started := !h.held
	h.held = true
	h.last = now
	return started
}

// Update reports whether the hold ended because the timeout elapsed.
func (h *Hold) Update(now time.Time) bool {
	if h.held && now.Sub(h.last) >= h.Timeout {
		h.held = false
		return true
	}
	return false
}

func (h *Hold) Release()   { h.held = false }
func (h *Hold) Held() bool { return h.held }
