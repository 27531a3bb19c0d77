package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/calc"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/request"
	"github.com/xuefei993/renewables/internal/strategy"
)

var (
	ErrNotFound             = errors.New("configuration not found")
	ErrLastConfiguration    = errors.New("cannot remove the last configuration")
	ErrCategoryNotRequested = errors.New("equipment category was not requested")
	ErrUnknownEquipment     = errors.New("equipment not in catalog")
	ErrNoCatalog            = errors.New("catalog is required")
)

// Store holds the configurations under comparison and keeps each one's calculations in
// step with its selections.
//
// Every selection change dispatches one calculation in its own goroutine. A response
// is written only if it was computed for the configuration's current selections, and
// the loading flag clears only when the most recent dispatch returns, so a slow stale
// response can never overwrite a newer one.
type Store struct {
	client  calc.Client
	builder *request.Builder
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	catalog *model.Catalog
	entries []*entry
	// nextID is never handed out twice, so a removed configuration's id is not reused.
	nextID int

	// pubMu is taken before mu is released so events reach subscribers in the order
	// the changes were made.
	pubMu   sync.Mutex
	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type entry struct {
	cfg model.Configuration
	// seq numbers dispatches; only the latest may clear Loading.
	seq uint64
	// fingerprint of the request built from the current selections.
	fingerprint string
}

type Option func(*Store)

// WithTimeout bounds each calculation call. Zero means no store-level timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func New(client calc.Client, builder *request.Builder, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:  client,
		builder: builder,
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Flags returns the categories the user requested.
func (s *Store) Flags() model.EquipmentFlags {
	return s.builder.Flags
}

func (s *Store) Catalog() *model.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Initialize replaces all configurations with one per recommended strategy and starts
// calculating those that have something selected.
func (s *Store) Initialize(catalog *model.Catalog) error {
	if catalog == nil {
		return ErrNoCatalog
	}
	var (
		events []Event
		jobs   []job
	)

	s.mu.Lock()
	s.catalog = catalog
	s.entries = nil
	s.nextID = 1
	for _, strat := range strategy.Recommended() {
		e := &entry{cfg: model.Configuration{
			ID:           s.allocIDLocked(),
			Name:         strat.Name(),
			Selections:   strat.Select(catalog, s.builder.Flags),
			Calculations: analysis.Empty(),
		}}
		e.fingerprint = request.Fingerprint(s.builder.Build(e.cfg.Selections))
		s.entries = append(s.entries, e)
		events = append(events, Event{Kind: EventAdded, Configuration: e.cfg.Clone()})
		if e.cfg.Selections.HasValid() {
			ev, j := s.dispatchLocked(e)
			events = append(events, ev)
			jobs = append(jobs, j)
		}
	}
	s.unlockAndPublish(events...)
	s.start(jobs...)
	return nil
}

// SetSelection changes one category's pick and recalculates the configuration.
// An empty equipmentID clears the pick.
func (s *Store) SetSelection(id int, category model.Category, equipmentID string) error {
	if !s.builder.Flags.Has(category) {
		return fmt.Errorf("%s: %w", category, ErrCategoryNotRequested)
	}

	s.mu.Lock()
	e := s.findLocked(id)
	if e == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	if equipmentID != "" {
		if _, ok := s.catalog.Find(category, equipmentID); !ok {
			s.mu.Unlock()
			return fmt.Errorf("%s %q: %w", category, equipmentID, ErrUnknownEquipment)
		}
	}
	e.cfg.Selections = e.cfg.Selections.With(category, model.Pick(equipmentID))
	ev, jobs := s.recalculateLocked(e)
	s.unlockAndPublish(ev)
	s.start(jobs...)
	return nil
}

// Recalculate re-dispatches the configuration's current request, e.g. after a failure.
func (s *Store) Recalculate(id int) error {
	s.mu.Lock()
	e := s.findLocked(id)
	if e == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	ev, jobs := s.recalculateLocked(e)
	s.unlockAndPublish(ev)
	s.start(jobs...)
	return nil
}

// Add appends an empty configuration and returns it. It is not calculated until a
// selection is made.
func (s *Store) Add() model.Configuration {
	s.mu.Lock()
	id := s.allocIDLocked()
	e := &entry{cfg: model.Configuration{
		ID:           id,
		Name:         fmt.Sprintf("Configuration %d", id),
		Selections:   model.EmptySelection(s.builder.Flags),
		Calculations: analysis.Empty(),
	}}
	e.fingerprint = request.Fingerprint(s.builder.Build(e.cfg.Selections))
	s.entries = append(s.entries, e)
	snap := e.cfg.Clone()
	s.unlockAndPublish(Event{Kind: EventAdded, Configuration: snap})
	return snap
}

// Remove deletes a configuration. The last remaining configuration cannot be removed.
// Responses still in flight for it are discarded on arrival.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	idx := -1
	for i, e := range s.entries {
		if e.cfg.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	if len(s.entries) <= 1 {
		s.mu.Unlock()
		return ErrLastConfiguration
	}
	snap := s.entries[idx].cfg.Clone()
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.unlockAndPublish(Event{Kind: EventRemoved, Configuration: snap})
	return nil
}

// Rename changes display metadata only.
func (s *Store) Rename(id int, name string) error {
	s.mu.Lock()
	e := s.findLocked(id)
	if e == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	e.cfg.Name = name
	snap := e.cfg.Clone()
	s.unlockAndPublish(Event{Kind: EventRenamed, Configuration: snap})
	return nil
}

// List returns snapshots of all configurations in display order.
func (s *Store) List() []model.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Configuration, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.cfg.Clone())
	}
	return out
}

func (s *Store) Get(id int) (model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.findLocked(id)
	if e == nil {
		return model.Configuration{}, ErrNotFound
	}
	return e.cfg.Clone(), nil
}

// Series returns one monthly chart series of a configuration.
func (s *Store) Series(id int, metric analysis.Metric) (model.Monthly, error) {
	cfg, err := s.Get(id)
	if err != nil {
		return model.Monthly{}, err
	}
	return analysis.Series(cfg.Calculations, metric)
}

// Wait blocks until every dispatched calculation has returned.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight calculations and waits for them to finish.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextID == 0 {
		return 1
	}
	return s.nextID
}

func (s *Store) allocIDLocked() int {
	if s.nextID == 0 {
		s.nextID = 1
	}
	id := s.nextID
	s.nextID++
	return id
}

// unlockAndPublish releases mu and delivers events before any later change can publish.
func (s *Store) unlockAndPublish(events ...Event) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(events...)
}

func (s *Store) findLocked(id int) *entry {
	for _, e := range s.entries {
		if e.cfg.ID == id {
			return e
		}
	}
	return nil
}

// recalculateLocked dispatches a calculation for e, or resets it to empty results when
// nothing is selected. Either way earlier dispatches are superseded.
func (s *Store) recalculateLocked(e *entry) (Event, []job) {
	if e.cfg.Selections.HasValid() {
		ev, j := s.dispatchLocked(e)
		return ev, []job{j}
	}
	e.seq++
	e.fingerprint = request.Fingerprint(s.builder.Build(e.cfg.Selections))
	e.cfg.Calculations = analysis.Empty()
	e.cfg.Loading = false
	e.cfg.LastError = ""
	return Event{Kind: EventUpdated, Configuration: e.cfg.Clone()}, nil
}

// job is one dispatched calculation waiting to be started.
type job struct {
	entry *entry
	id    int
	seq   uint64
	fp    string
	req   model.CalculationRequest
}

// dispatchLocked marks e as loading and returns the job to run. The job is started by
// the caller after the loading event is published so subscribers see events in order.
func (s *Store) dispatchLocked(e *entry) (Event, job) {
	req := s.builder.Build(e.cfg.Selections)
	fp := request.Fingerprint(req)

	e.seq++
	e.fingerprint = fp
	e.cfg.Loading = true
	s.wg.Add(1)

	return Event{Kind: EventLoading, Configuration: e.cfg.Clone()}, job{entry: e, id: e.cfg.ID, seq: e.seq, fp: fp, req: req}
}

func (s *Store) start(jobs ...job) {
	for _, j := range jobs {
		go s.run(j)
	}
}

func (s *Store) run(j job) {
	defer s.wg.Done()

	ctx, cancel := s.callContext()
	defer cancel()

	resp, err := s.client.Compute(ctx, j.req)
	s.commit(j, resp, err)
}

func (s *Store) callContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(s.ctx, s.timeout)
	}
	return context.WithCancel(s.ctx)
}

// commit applies a calculation outcome and publishes the resulting event, if any.
func (s *Store) commit(j job, resp *model.ComparisonResponse, err error) {
	s.mu.Lock()
	ev, ok := s.applyLocked(j, resp, err)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.unlockAndPublish(ev)
}

func (s *Store) applyLocked(j job, resp *model.ComparisonResponse, err error) (Event, bool) {
	id := j.id
	e := s.findLocked(id)
	if e == nil || e != j.entry {
		log.Printf("[Store] Dropping result for removed configuration %d", id)
		return Event{}, false
	}
	latest := j.seq == e.seq

	if err != nil {
		if !latest {
			log.Printf("[Store] Ignoring superseded failure for configuration %d: %v", id, err)
			return Event{}, false
		}
		log.Printf("[Store] Calculation failed for configuration %d: %v", id, err)
		e.cfg.Loading = false
		e.cfg.LastError = err.Error()
		return Event{Kind: EventFailed, Configuration: e.cfg.Clone(), Err: err.Error()}, true
	}

	if j.fp != e.fingerprint {
		log.Printf("[Store] Discarding stale result for configuration %d", id)
		return Event{}, false
	}
	e.cfg.Calculations = analysis.Aggregate(resp)
	if latest {
		e.cfg.Loading = false
		e.cfg.LastError = ""
	}
	return Event{Kind: EventUpdated, Configuration: e.cfg.Clone()}, true
}
