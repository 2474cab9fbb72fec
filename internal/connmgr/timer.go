package connmgr

import "time"

// graceTimer is a single-fire cancellable delayed callback. The callback runs
// at most once; Cancel after firing is a no-op. Callers must make the
// callback itself tolerate losing the race with Cancel (the manager does so
// by re-checking the link record under its lock before acting).
type graceTimer struct {
	t *time.Timer
}

func newGraceTimer(d time.Duration, fn func()) *graceTimer {
	return &graceTimer{t: time.AfterFunc(d, fn)}
}

// Cancel stops the timer if it has not fired yet. Idempotent.
func (g *graceTimer) Cancel() {
	if g != nil && g.t != nil {
		g.t.Stop()
	}
}
