package chat

import "time"

// DefaultRateLimit is the per-connection admission ceiling over the trailing
// minute.
const DefaultRateLimit = 20

const rateInterval = time.Minute

// RateWindow records the timestamps of one connection's admitted messages
// within the trailing minute. It is not safe for concurrent use; the registry
// serializes access under its lock.
type RateWindow struct {
	limit  int
	stamps []time.Time
}

func newRateWindow(limit int) *RateWindow {
	return &RateWindow{limit: limit}
}

// Admit drops timestamps older than the interval from the front of the
// window, then either rejects without mutation (ceiling reached) or records
// now and allows.
func (w *RateWindow) Admit(now time.Time) bool {
	i := 0
	for i < len(w.stamps) && now.Sub(w.stamps[i]) >= rateInterval {
		i++
	}
	w.stamps = w.stamps[i:]

	if len(w.stamps) >= w.limit {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}
