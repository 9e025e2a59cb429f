package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/updatelens/updatelens/pkg/dataset"
)

// ErrLoad wraps every dataset load failure.
var ErrLoad = errors.New("failed to load dataset")

// State is the loader lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Loader fetches and decodes the dataset once. Concurrent callers share a
// single in-flight load; a failed load leaves the loader uninitialized so a
// later call can retry.
type Loader struct {
	src   Source
	group singleflight.Group

	mu    sync.RWMutex
	state State
	store *dataset.Store
}

// NewLoader creates a Loader reading from src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// State reports the current lifecycle state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Load returns the loaded store, loading it first if needed. Cancelling ctx
// stops this caller's wait; the shared load keeps running for other callers.
func (l *Loader) Load(ctx context.Context) (*dataset.Store, error) {
	l.mu.RLock()
	if l.state == Ready {
		s := l.store
		l.mu.RUnlock()
		return s, nil
	}
	l.mu.RUnlock()

	ch := l.group.DoChan("dataset", func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dataset.Store), nil
	}
}

func (l *Loader) load(ctx context.Context) (*dataset.Store, error) {
	l.mu.Lock()
	if l.state == Ready {
		s := l.store
		l.mu.Unlock()
		return s, nil
	}
	l.state = Loading
	l.mu.Unlock()

	start := time.Now()
	log.Info().Str("source", l.src.String()).Msg("loading dataset")

	store, err := l.fetchAll(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = Uninitialized
		log.Error().Err(err).Str("source", l.src.String()).Msg("dataset load failed")
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	l.store = store
	l.state = Ready
	log.Info().
		Int("records", store.Records()).
		Bool("activity", store.Activity != nil).
		Bool("metadata", store.Metadata != nil).
		Dur("elapsed", time.Since(start)).
		Msg("dataset ready")
	return store, nil
}

// fetchAll fetches the four required tables in parallel, plus the optional
// pincode-level table and metadata.
func (l *Loader) fetchAll(ctx context.Context) (*dataset.Store, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	tables := make(map[dataset.Kind]*dataset.Table, len(dataset.Kinds)+1)
	fetchTable := func(kind dataset.Kind, optional bool) {
		g.Go(func() error {
			data, err := l.src.Fetch(gctx, kind.FileName())
			if err != nil {
				if optional && errors.Is(err, ErrNotFound) {
					log.Debug().Str("file", kind.FileName()).Msg("optional table not present")
					return nil
				}
				return err
			}
			t, err := dataset.DecodeBytes(data, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind.FileName(), err)
			}
			mu.Lock()
			tables[kind] = t
			mu.Unlock()
			return nil
		})
	}
	for _, kind := range dataset.Kinds {
		fetchTable(kind, false)
	}
	fetchTable(dataset.KindActivity, true)

	var meta *dataset.Metadata
	g.Go(func() error {
		data, err := l.src.Fetch(gctx, dataset.MetadataFile)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		m, err := dataset.DecodeMetadata(data)
		if err != nil {
			return fmt.Errorf("%s: %w", dataset.MetadataFile, err)
		}
		meta = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dataset.NewStore(tables, meta), nil
}
