// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package refresh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/attackmap/internal/cache"
	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
	"github.com/tomtom215/attackmap/internal/radar"
)

// Defaults applied to zero Config fields.
const (
	DefaultInterval        = time.Minute
	DefaultWindowCacheTTL  = time.Minute
	DefaultWindowCacheSize = 64
)

var (
	// ErrEmptyResult is the fallback cause when the upstream answered with
	// no usable arcs.
	ErrEmptyResult = errors.New("upstream returned no arcs")

	// ErrAlreadyRunning is returned by Start on a running orchestrator.
	ErrAlreadyRunning = errors.New("refresh orchestrator is already running")

	// ErrNotRunning is returned by Stop when Start was not called.
	ErrNotRunning = errors.New("refresh orchestrator is not running")
)

// Fetcher is the upstream client contract.
type Fetcher interface {
	Fetch(ctx context.Context, opts radar.FetchOptions) (*radar.Result, error)
}

// Generator produces fallback arcs. Generate must return at least one arc
// for maxCount >= 1.
type Generator interface {
	Generate(maxCount int) []models.Arc
}

// Listener is called with every newly installed live snapshot.
type Listener func(snap *models.Snapshot)

// Config tunes the orchestrator.
type Config struct {
	Interval time.Duration
	// Limit is the arc count asked of the upstream and the generator.
	Limit int
	// LiveRange is the dateRange token of the live window, if any. Lookups
	// for it at the live limit are served from the live snapshot.
	LiveRange       string
	WindowCacheTTL  time.Duration
	WindowCacheSize int
}

// Orchestrator keeps exactly one live snapshot, refreshing it from the
// upstream on a fixed interval and falling back to synthetic arcs whenever
// the upstream fails or returns nothing. It never returns a fatal error.
type Orchestrator struct {
	cfg       Config
	fetcher   Fetcher
	lookups   Fetcher
	generator Generator
	store     *Store
	windows   *cache.Cache[*models.Snapshot]
	now       func() time.Time

	// refreshMu is held for the whole of one live refresh. Ticks that find
	// it held are skipped.
	refreshMu sync.Mutex
	wg        sync.WaitGroup
	trigger   chan struct{}

	listenersMu sync.RWMutex
	listeners   []Listener

	statusMu sync.RWMutex
	status   status

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
}

type status struct {
	lastRefresh          time.Time
	lastDuration         time.Duration
	lastFailure          error
	consecutiveFallbacks int
	refreshes            uint64
	skipped              uint64
	nextRefresh          time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLookupFetcher serves on-demand window lookups from f instead of the
// live fetcher, so caller-chosen windows cannot trip the live circuit
// breaker or spend its rate limit.
func WithLookupFetcher(f Fetcher) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.lookups = f
		}
	}
}

// New builds an orchestrator. fetcher and generator must not be nil.
func New(cfg Config, fetcher Fetcher, generator Generator, opts ...Option) (*Orchestrator, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("refresh: fetcher is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("refresh: generator is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	cfg.Limit = radar.NormalizeLimit(cfg.Limit)
	if cfg.WindowCacheTTL <= 0 {
		cfg.WindowCacheTTL = DefaultWindowCacheTTL
	}
	if cfg.WindowCacheSize <= 0 {
		cfg.WindowCacheSize = DefaultWindowCacheSize
	}

	o := &Orchestrator{
		cfg:       cfg,
		fetcher:   fetcher,
		lookups:   fetcher,
		generator: generator,
		store:     NewStore(),
		windows:   cache.New[*models.Snapshot](cfg.WindowCacheTTL, cache.WithMaxEntries(cfg.WindowCacheSize)),
		now:       time.Now,
		trigger:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Current returns the live snapshot without blocking. Before the first
// refresh completes it is the empty snapshot.
func (o *Orchestrator) Current() *models.Snapshot {
	return o.store.Load()
}

// Limit returns the live arc limit.
func (o *Orchestrator) Limit() int {
	return o.cfg.Limit
}

// Interval returns the refresh period.
func (o *Orchestrator) Interval() time.Duration {
	return o.cfg.Interval
}

// OnSnapshot registers fn to run after each live snapshot swap. Listeners run
// on the refresh goroutine and should return quickly.
func (o *Orchestrator) OnSnapshot(fn Listener) {
	if fn == nil {
		return
	}
	o.listenersMu.Lock()
	o.listeners = append(o.listeners, fn)
	o.listenersMu.Unlock()
}

// Refresh runs one live refresh tick in the calling goroutine. It reports
// false without doing anything when another refresh is already in flight.
func (o *Orchestrator) Refresh(ctx context.Context) (models.RefreshResult, bool) {
	if !o.refreshMu.TryLock() {
		o.recordSkip()
		return models.RefreshResult{}, false
	}
	defer o.refreshMu.Unlock()
	return o.refreshLocked(ctx), true
}

// TriggerRefresh asks a running orchestrator for an extra tick. It reports
// whether the request was queued; a request already pending absorbs this one.
func (o *Orchestrator) TriggerRefresh() bool {
	select {
	case o.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve runs the refresh loop until ctx is canceled: one tick immediately,
// then one per interval. Ticks that would overlap a running refresh are
// skipped. On cancellation Serve waits for an in-flight refresh to finish or
// time out before returning.
func (o *Orchestrator) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", o.cfg.Interval).
		Int("limit", o.cfg.Limit).
		Msg("Refresh orchestrator started")

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	o.setNextRefresh(o.now().Add(o.cfg.Interval))
	o.spawn(ctx)

	for {
		select {
		case <-ctx.Done():
			o.wg.Wait()
			o.setNextRefresh(time.Time{})
			logging.Info().Msg("Refresh orchestrator stopped")
			return ctx.Err()
		case <-ticker.C:
			o.setNextRefresh(o.now().Add(o.cfg.Interval))
			o.spawn(ctx)
		case <-o.trigger:
			o.spawn(ctx)
		}
	}
}

// Start runs Serve in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.lifecycleMu.Lock()
	defer o.lifecycleMu.Unlock()

	if o.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	o.cancel, o.done = cancel, done

	go func() {
		defer close(done)
		_ = o.Serve(ctx)
	}()
	return nil
}

// Stop cancels the loop started by Start and waits for it, including any
// in-flight fetch, to finish.
func (o *Orchestrator) Stop() error {
	o.lifecycleMu.Lock()
	defer o.lifecycleMu.Unlock()

	if o.cancel == nil {
		return ErrNotRunning
	}
	o.cancel()
	<-o.done
	o.cancel, o.done = nil, nil
	return nil
}

// Close releases the window cache. Call it once, after the last Stop; the
// orchestrator may be started and stopped any number of times before that.
func (o *Orchestrator) Close() {
	o.windows.Close()
}

// String names the service in supervisor logs.
func (o *Orchestrator) String() string {
	return "refresh-orchestrator"
}

// spawn starts a refresh goroutine unless one is in flight. The fetch is
// detached from ctx cancellation so shutdown lets it complete or time out.
func (o *Orchestrator) spawn(ctx context.Context) {
	if !o.refreshMu.TryLock() {
		o.recordSkip()
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.refreshMu.Unlock()
		o.refreshLocked(context.WithoutCancel(ctx))
	}()
}

// refreshLocked performs one live refresh. Caller holds refreshMu.
func (o *Orchestrator) refreshLocked(ctx context.Context) models.RefreshResult {
	start := o.now()

	result, window := o.resolve(ctx, o.fetcher, radar.FetchOptions{Limit: o.cfg.Limit})
	snap := result.Snapshot(uuid.NewString(), window, o.now())
	o.store.Swap(snap)

	duration := o.now().Sub(start)
	o.recordRefresh(result, duration)
	metrics.RecordRefresh(result.Kind.String(), snap.Len(), snap.Source == models.SourceSynthetic, duration)

	logging.Info().
		Str("snapshot_id", snap.ID).
		Str("source", string(snap.Source)).
		Int("arcs", snap.Len()).
		Str("window", snap.Window).
		Dur("duration", duration).
		Msg("Refresh completed")

	o.notify(snap)
	return result
}

// resolve fetches one window and applies the fallback policy. It always
// returns a non-empty result for limit >= 1.
func (o *Orchestrator) resolve(ctx context.Context, fetcher Fetcher, opts radar.FetchOptions) (models.RefreshResult, string) {
	limit := radar.NormalizeLimit(opts.Limit)
	window := opts.Window.Label()

	res, err := fetcher.Fetch(ctx, opts)
	switch {
	case err != nil:
		kind := string(radar.KindOf(err))
		if kind == "" {
			kind = "error"
		}
		logging.Warn().
			Err(err).
			Str("kind", kind).
			Str("window", window).
			Msg("Upstream fetch failed, serving synthetic arcs")
		metrics.RecordFallback(kind)
		return models.Fallback(o.generate(limit), err), window

	case res == nil || len(res.Arcs) == 0:
		records := 0
		if res != nil {
			records = res.Records
			window = resultWindow(res, window)
		}
		logging.Warn().
			Int("records", records).
			Str("window", window).
			Msg("Upstream returned no arcs, serving synthetic arcs")
		metrics.RecordFallback("empty")
		return models.Fallback(o.generate(limit), ErrEmptyResult), window

	default:
		return models.Fetched(res.Arcs, res.Meta), resultWindow(res, window)
	}
}

func resultWindow(res *radar.Result, fallback string) string {
	if res.Window.IsZero() {
		return fallback
	}
	return res.Window.Label()
}

func (o *Orchestrator) generate(limit int) []models.Arc {
	arcs := o.generator.Generate(limit)
	if len(arcs) > limit {
		arcs = arcs[:limit]
	}
	return arcs
}

// Lookup returns a snapshot for an arbitrary window and limit. The live
// window at the live limit is served from the live snapshot; anything else
// is fetched on demand with the same fallback policy and cached briefly.
// Lookups never replace the live snapshot.
func (o *Orchestrator) Lookup(ctx context.Context, window radar.Window, limit int) (*models.Snapshot, error) {
	limit = radar.NormalizeLimit(limit)
	if err := window.Validate(); err != nil {
		return nil, err
	}

	if o.isLive(window, limit) {
		metrics.WindowLookupsTotal.WithLabelValues("live").Inc()
		return o.Current(), nil
	}

	key := window.Label() + ":" + strconv.Itoa(limit)
	if snap, ok := o.windows.Get(key); ok {
		metrics.WindowLookupsTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	metrics.WindowLookupsTotal.WithLabelValues("miss").Inc()

	result, label := o.resolve(ctx, o.lookups, radar.FetchOptions{Window: window, Limit: limit})
	snap := result.Snapshot(uuid.NewString(), label, o.now())

	// A canceled caller produced a fallback that says nothing about the window.
	if ctx.Err() == nil {
		o.windows.Set(key, snap)
	}
	return snap, nil
}

func (o *Orchestrator) isLive(window radar.Window, limit int) bool {
	if limit != o.cfg.Limit {
		return false
	}
	return window.IsZero() || (o.cfg.LiveRange != "" && window.Range == o.cfg.LiveRange)
}

// Status reports refresh health for the status endpoint.
func (o *Orchestrator) Status() models.RefreshStatus {
	snap := o.Current()

	o.statusMu.RLock()
	st := o.status
	o.statusMu.RUnlock()

	out := models.RefreshStatus{
		Ready:                snap.Source != models.SourceNone,
		Source:               snap.Source,
		SnapshotID:           snap.ID,
		ArcCount:             snap.Len(),
		LastRefresh:          st.lastRefresh,
		LastDurationMS:       st.lastDuration.Milliseconds(),
		ConsecutiveFallbacks: st.consecutiveFallbacks,
		Refreshes:            st.refreshes,
		Skipped:              st.skipped,
		NextRefresh:          st.nextRefresh,
	}
	if st.lastFailure != nil {
		out.LastFailure = st.lastFailure.Error()
		out.LastFailureKind = failureKind(st.lastFailure)
	}
	if b, ok := o.fetcher.(interface{ State() string }); ok {
		out.CircuitBreaker = b.State()
	}
	return out
}

// Ready reports whether the first refresh has completed.
func (o *Orchestrator) Ready() bool {
	return o.Current().Source != models.SourceNone
}

func failureKind(err error) string {
	if errors.Is(err, ErrEmptyResult) {
		return "empty"
	}
	if kind := radar.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

func (o *Orchestrator) recordRefresh(result models.RefreshResult, duration time.Duration) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()

	o.status.refreshes++
	o.status.lastRefresh = o.now()
	o.status.lastDuration = duration
	if result.Kind == models.RefreshFallback {
		o.status.consecutiveFallbacks++
		o.status.lastFailure = result.Cause
		return
	}
	o.status.consecutiveFallbacks = 0
}

func (o *Orchestrator) recordSkip() {
	o.statusMu.Lock()
	o.status.skipped++
	o.statusMu.Unlock()

	metrics.RecordRefreshSkipped()
	logging.Debug().Msg("Refresh skipped, previous refresh still running")
}

func (o *Orchestrator) setNextRefresh(t time.Time) {
	o.statusMu.Lock()
	o.status.nextRefresh = t
	o.statusMu.Unlock()
}

func (o *Orchestrator) notify(snap *models.Snapshot) {
	o.listenersMu.RLock()
	listeners := make([]Listener, len(o.listeners))
	copy(listeners, o.listeners)
	o.listenersMu.RUnlock()

	for _, fn := range listeners {
		o.callListener(fn, snap)
	}
}

// callListener isolates the refresh loop from a panicking listener.
func (o *Orchestrator) callListener(fn Listener, snap *models.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("Snapshot listener panicked")
		}
	}()
	fn(snap)
}
