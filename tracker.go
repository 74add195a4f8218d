package loadstate

// loadingHandles tracks the in-flight handle set for one collection while its
// phase is active. Created at phase entry, dropped when every handle reports
// loaded.
type loadingHandles struct {
	collection Collection
	handles    []Handle
	failed     map[Handle]bool // handles already observed as failed
}

func newLoadingHandles(c Collection, handles []Handle) *loadingHandles {
	return &loadingHandles{
		collection: c,
		handles:    handles,
		failed:     make(map[Handle]bool),
	}
}

// poll counts loaded handles and returns any handles newly observed in the
// failed state. A failed handle counts the same as a loading one: the
// tracker never completes, it only becomes observable in diagnostics.
func (t *loadingHandles) poll(engine Engine) (loaded int, newlyFailed []Handle) {
	for _, h := range t.handles {
		switch engine.Status(h) {
		case StatusLoaded:
			loaded++
		case StatusFailed:
			if !t.failed[h] {
				t.failed[h] = true
				newlyFailed = append(newlyFailed, h)
			}
		}
	}
	return loaded, newlyFailed
}

// counts is the read-only view used by Snapshot: loaded and failed handle
// totals without touching the failed-seen set.
func (t *loadingHandles) counts(engine Engine) (loaded, failed int) {
	for _, h := range t.handles {
		switch engine.Status(h) {
		case StatusLoaded:
			loaded++
		case StatusFailed:
			failed++
		}
	}
	return loaded, failed
}

func (t *loadingHandles) total() int {
	return len(t.handles)
}
