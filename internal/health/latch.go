package health

// Unit states that count as healthy. Waiting is healthy-signalling but
// ambiguous, so it leaves a unit's latch where it was.
const (
	stateRunning    = "Running"
	stateStatusOK   = "Status ok"
	stateAccessible = "Accessible"
	stateWaiting    = "Waiting"
)

// Latch remembers the last known health of each supervised unit. A unit is
// assumed healthy the first time it is seen.
type Latch struct {
	order   []string
	healthy map[string]bool
}

// NewLatch creates an empty latch set.
func NewLatch() *Latch {
	return &Latch{healthy: make(map[string]bool)}
}

// Observe applies one supervisor observation of unit.
func (l *Latch) Observe(unit, state string) {
	if _, seen := l.healthy[unit]; !seen {
		l.order = append(l.order, unit)
		l.healthy[unit] = true
	}

	switch state {
	case stateWaiting:
		// unchanged
	case stateRunning, stateStatusOK, stateAccessible:
		l.healthy[unit] = true
	default:
		l.healthy[unit] = false
	}
}

// Healthy returns the latched value for unit. Unknown units are healthy.
func (l *Latch) Healthy(unit string) bool {
	v, ok := l.healthy[unit]
	return !ok || v
}

// AllHealthy reports whether every observed unit is latched healthy.
func (l *Latch) AllHealthy() bool {
	for _, v := range l.healthy {
		if !v {
			return false
		}
	}
	return true
}

// Unhealthy returns the units latched unhealthy, in first-seen order.
func (l *Latch) Unhealthy() []string {
	var out []string
	for _, unit := range l.order {
		if !l.healthy[unit] {
			out = append(out, unit)
		}
	}
	return out
}
