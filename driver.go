package loadstate

import (
	"fmt"

	"go.uber.org/zap"
)

// Initializer runs after a phase's transition fires, in registration order.
// Each initializer sees every previously published collection resource.
type Initializer func(res Resources)

// phaseConfig is one entry in the phase configuration table: the declared
// shape of a phase plus the record of its current activation.
type phaseConfig[S comparable] struct {
	next         *S
	collections  []Collection
	initializers []Initializer

	// activation record, reset by Enter and by re-registration
	active      bool
	completed   bool
	outstanding int
	trackers    []*loadingHandles
	token       string
}

// Driver owns the phase configuration table and runs the loading lifecycle:
// Enter on phase activation, Poll once per tick, Exit after the runtime
// applies the state switch. One driver instance per state type; no process
// globals. Single-goroutine access from the tick loop.
type Driver[S comparable] struct {
	engine   Engine
	keys     *DynamicKeys
	res      Resources
	progress Progress
	observer Observer[S]
	tokens   TokenGenerator
	log      *zap.Logger

	table map[S]*phaseConfig[S]
}

// NewDriver creates a driver over engine. A nil keys registry gets a fresh
// one; a nil logger is replaced with a nop logger.
func NewDriver[S comparable](engine Engine, keys *DynamicKeys, log *zap.Logger) *Driver[S] {
	if keys == nil {
		keys = NewDynamicKeys()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver[S]{
		engine: engine,
		keys:   keys,
		tokens: UUIDv7Generator{},
		log:    log,
		table:  make(map[S]*phaseConfig[S]),
	}
}

// Keys returns the dynamic key registry. Application code may mutate it
// between ticks; not while a driver step is running.
func (d *Driver[S]) Keys() *DynamicKeys {
	return d.keys
}

// SetResources sets the store finished collections and initializer outputs
// are published into. Nil disables publishing.
func (d *Driver[S]) SetResources(res Resources) {
	d.res = res
}

// SetProgress sets the optional progress collaborator.
func (d *Driver[S]) SetProgress(p Progress) {
	d.progress = p
}

// SetObserver sets the optional lifecycle observer.
func (d *Driver[S]) SetObserver(o Observer[S]) {
	d.observer = o
}

// SetTokenGenerator replaces the activation token source. The default mints
// UUIDv7 tokens.
func (d *Driver[S]) SetTokenGenerator(g TokenGenerator) {
	d.tokens = g
}

// register installs or replaces a phase entry. Called by PhaseBuilder.
func (d *Driver[S]) register(phase S, next *S, collections []Collection, initializers []Initializer, keys map[string]string) {
	for k, v := range keys {
		d.keys.Set(k, v)
	}
	cfg := d.table[phase]
	if cfg == nil {
		cfg = &phaseConfig[S]{}
		d.table[phase] = cfg
	}
	cfg.next = next
	cfg.collections = collections
	cfg.initializers = initializers
	// counting happens at phase entry, so re-registration always restarts
	// the activation record at zero
	cfg.active = false
	cfg.completed = false
	cfg.outstanding = 0
	cfg.trackers = nil
	cfg.token = ""
}

// Enter activates phase: starts every attached collection in registration
// order, one outstanding unit per collection. A MissingKeyError aborts at
// the offending collection; earlier collections keep loading, but there is
// no recovery path and callers should treat the error as fatal. Entering a
// phase with no registered configuration is a no-op.
func (d *Driver[S]) Enter(phase S) error {
	cfg, ok := d.table[phase]
	if !ok {
		d.log.Debug("no loading configuration for phase", zap.Any("phase", phase))
		return nil
	}
	cfg.active = true
	cfg.completed = false
	cfg.outstanding = 0
	cfg.trackers = cfg.trackers[:0]
	cfg.token = d.tokens.Generate()
	d.log.Info("loading phase entered",
		zap.Any("phase", phase),
		zap.String("token", cfg.token),
		zap.Int("collections", len(cfg.collections)))
	for _, c := range cfg.collections {
		handles, err := c.StartLoad(d.keys, d.engine)
		if err != nil {
			return fmt.Errorf("start collection %s: %w", c.Name(), err)
		}
		cfg.trackers = append(cfg.trackers, newLoadingHandles(c, handles))
		cfg.outstanding++
	}
	return nil
}

// Poll advances phase by one tick: counts loaded handles per live tracker,
// finishes the collections whose handles are all loaded, and requests the
// configured transition the first time the outstanding count reaches zero.
// Polling an inactive or already completed phase mutates nothing and
// requests nothing.
func (d *Driver[S]) Poll(phase S, states StateRequester[S]) {
	cfg, ok := d.table[phase]
	if !ok || !cfg.active || cfg.completed {
		return
	}
	live := cfg.trackers[:0]
	for _, t := range cfg.trackers {
		loaded, newlyFailed := t.poll(d.engine)
		for _, h := range newlyFailed {
			d.log.Warn("asset load failed, collection will not complete",
				zap.Any("phase", phase),
				zap.String("collection", t.collection.Name()),
				zap.Uint64("handle", uint64(h)))
		}
		if loaded < t.total() {
			if d.progress != nil {
				d.progress.Track(t.total(), loaded)
			}
			live = append(live, t)
			continue
		}
		if d.progress != nil {
			d.progress.PersistDoneTasks(loaded)
		}
		d.finishCollection(phase, cfg, t)
	}
	cfg.trackers = live
	if cfg.outstanding == 0 {
		d.complete(phase, cfg, states)
	}
}

// finishCollection runs Finish and publishes the collection. A finish error
// leaves its unit outstanding forever: the phase stalls, same as a failed
// load, and the error is logged once.
func (d *Driver[S]) finishCollection(phase S, cfg *phaseConfig[S], t *loadingHandles) {
	name := t.collection.Name()
	if err := t.collection.Finish(d.engine); err != nil {
		d.log.Error("collection finish failed, phase will not complete",
			zap.Any("phase", phase),
			zap.String("collection", name),
			zap.Error(err))
		return
	}
	d.resources().Publish(name, t.collection)
	cfg.outstanding--
	d.log.Info("collection finished",
		zap.Any("phase", phase),
		zap.String("collection", name),
		zap.Int("remaining", cfg.outstanding))
	if d.observer != nil {
		d.observer.CollectionFinished(phase, name)
	}
}

// complete latches the activation as done and requests the transition when a
// next state is configured. The completed flag, not the counter, guards the
// exactly-once requirement.
func (d *Driver[S]) complete(phase S, cfg *phaseConfig[S], states StateRequester[S]) {
	cfg.completed = true
	if cfg.next != nil && states != nil {
		states.RequestTransition(*cfg.next)
		d.log.Info("loading phase complete, transition requested",
			zap.Any("phase", phase),
			zap.Any("next", *cfg.next),
			zap.String("token", cfg.token))
	} else {
		d.log.Info("loading phase complete",
			zap.Any("phase", phase),
			zap.String("token", cfg.token))
	}
	if d.observer != nil {
		d.observer.PhaseCompleted(phase, cfg.token)
	}
}

// Exit runs the phase's post-load initializers in registration order and
// closes the activation record. The runtime calls this after applying the
// switch away from phase, whatever caused it.
func (d *Driver[S]) Exit(phase S) {
	cfg, ok := d.table[phase]
	if !ok || !cfg.active {
		return
	}
	for _, init := range cfg.initializers {
		init(d.resources())
	}
	if len(cfg.initializers) > 0 {
		d.log.Debug("post-load initializers run",
			zap.Any("phase", phase),
			zap.Int("count", len(cfg.initializers)))
	}
	cfg.active = false
	cfg.trackers = nil
}

func (d *Driver[S]) resources() Resources {
	if d.res == nil {
		return nopResources{}
	}
	return d.res
}

type nopResources struct{}

func (nopResources) Publish(string, any) {}

func (nopResources) Lookup(string) (any, bool) { return nil, false }
