package loadstate

import (
	"fmt"
	"strings"
)

// CollectionStatus is one live collection's line in a Report.
type CollectionStatus struct {
	Name   string
	Loaded int
	Total  int
	Failed int
}

// Report is a point-in-time diagnostic view of one phase activation.
// Finished collections no longer appear; the outstanding count alone tracks
// them. Failed handles show up here and nowhere else: a failed load never
// completes its phase, it only becomes visible.
type Report struct {
	Phase       string
	Token       string
	Active      bool
	Completed   bool
	Outstanding int
	Collections []CollectionStatus
}

// Snapshot captures the current activation of phase without mutating it.
func (d *Driver[S]) Snapshot(phase S) Report {
	r := Report{Phase: fmt.Sprint(phase)}
	cfg, ok := d.table[phase]
	if !ok {
		return r
	}
	r.Token = cfg.token
	r.Active = cfg.active
	r.Completed = cfg.completed
	r.Outstanding = cfg.outstanding
	for _, t := range cfg.trackers {
		loaded, failed := t.counts(d.engine)
		r.Collections = append(r.Collections, CollectionStatus{
			Name:   t.collection.Name(),
			Loaded: loaded,
			Total:  t.total(),
			Failed: failed,
		})
	}
	return r
}

// Render returns the report as canonical text: one field per line,
// collections in registration order. Stable across runs given a
// deterministic token source.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase: %s\n", r.Phase)
	fmt.Fprintf(&b, "token: %s\n", r.Token)
	fmt.Fprintf(&b, "active: %t\n", r.Active)
	fmt.Fprintf(&b, "completed: %t\n", r.Completed)
	fmt.Fprintf(&b, "outstanding: %d\n", r.Outstanding)
	if len(r.Collections) == 0 {
		b.WriteString("collections: none\n")
		return b.String()
	}
	b.WriteString("collections:\n")
	for _, c := range r.Collections {
		fmt.Fprintf(&b, "  %s: %d/%d loaded, %d failed\n", c.Name, c.Loaded, c.Total, c.Failed)
	}
	return b.String()
}
