package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aldo-g/earliest-elephant/metrics"
	"github.com/aldo-g/earliest-elephant/typedef"
)

// ErrDatasetLoad marks a fatal failure to fetch or parse a required dataset.
var ErrDatasetLoad = errors.New("dataset load failed")

const (
	DatasetBoundaries = "boundaries"
	DatasetSightings  = "sightings"
)

// LoadError records which dataset failed and where it was being read from.
type LoadError struct {
	Dataset string
	Ref     string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s dataset %q: %v", e.Dataset, e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrDatasetLoad }

// Sources names the two required datasets.
type Sources struct {
	Boundaries     string
	Sightings      string
	TopologyObject string
}

// Result is the joined outcome of both loads.
type Result struct {
	Entities []typedef.BoundaryEntity
	Records  *Index
}

// LoadAll fetches and decodes both datasets concurrently. Either failure cancels the other
// and the first error is returned as a *LoadError.
func LoadAll(ctx context.Context, f Fetcher, src Sources) (*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	res := &Result{}

	g.Go(func() error {
		start := time.Now()
		data, err := f.Fetch(ctx, src.Boundaries)
		if err == nil {
			res.Entities, err = DecodeBoundaries(data, src.TopologyObject)
		}
		return observe(DatasetBoundaries, src.Boundaries, start, err)
	})
	g.Go(func() error {
		start := time.Now()
		data, err := f.Fetch(ctx, src.Sightings)
		var records []typedef.SightingRecord
		if err == nil {
			records, err = DecodeSightings(data)
		}
		if err == nil {
			res.Records = NewIndex(records)
		}
		return observe(DatasetSightings, src.Sightings, start, err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func observe(dataset, ref string, start time.Time, err error) error {
	metrics.DatasetLoadSeconds.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatasetLoadFailuresTotal.WithLabelValues(dataset).Inc()
		return &LoadError{Dataset: dataset, Ref: ref, Err: err}
	}
	return nil
}

// State is the readiness of a Loader.
type State int32

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader runs LoadAll in the background and publishes its state so the game loop can poll
// it each frame without blocking.
type Loader struct {
	fetcher Fetcher
	sources Sources

	state  atomic.Int32
	once   sync.Once
	done   chan struct{}
	result *Result
	err    error
}

func NewLoader(f Fetcher, src Sources) *Loader {
	return &Loader{fetcher: f, sources: src, done: make(chan struct{})}
}

// Start begins loading; further calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	log.Printf("[LOADER] Loading %s and %s", l.sources.Boundaries, l.sources.Sightings)
	res, err := LoadAll(ctx, l.fetcher, l.sources)
	l.result, l.err = res, err
	if err != nil {
		log.Printf("[LOADER] %v", err)
		l.state.Store(int32(StateFailed))
	} else {
		log.Printf("[LOADER] Loaded %d boundaries and %d sighting records", len(res.Entities), res.Records.Len())
		l.state.Store(int32(StateReady))
	}
	close(l.done)
}

func (l *Loader) State() State { return State(l.state.Load()) }

// Done is closed once loading finished either way.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Result is only meaningful after Done is closed; before that it returns nil, nil.
func (l *Loader) Result() (*Result, error) {
	select {
	case <-l.done:
		return l.result, l.err
	default:
		return nil, nil
	}
}
