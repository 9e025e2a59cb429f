package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/updatelens/updatelens/pkg/dataset"
)

// Metric is the interface that all updatelens metrics implement.
type Metric interface {
	// Key returns the machine-readable metric identifier.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// Evaluate computes the metric over the loaded tables.
	Evaluate(store *dataset.Store, opts Options) (*Result, error)
}

// Engine dispatches metric evaluations by key.
type Engine struct {
	metrics []Metric
	byKey   map[string]Metric
	now     func() time.Time
}

// NewEngine creates an engine with the given metrics. Later metrics with a
// duplicate key replace earlier ones.
func NewEngine(metrics ...Metric) *Engine {
	e := &Engine{byKey: make(map[string]Metric), now: time.Now}
	for _, m := range metrics {
		if _, dup := e.byKey[m.Key()]; !dup {
			e.metrics = append(e.metrics, m)
		} else {
			for i := range e.metrics {
				if e.metrics[i].Key() == m.Key() {
					e.metrics[i] = m
				}
			}
		}
		e.byKey[m.Key()] = m
	}
	return e
}

// Metrics returns the registered metrics in registration order.
func (e *Engine) Metrics() []Metric {
	out := make([]Metric, len(e.metrics))
	copy(out, e.metrics)
	return out
}

// Keys returns the registered metric keys, sorted.
func (e *Engine) Keys() []string {
	keys := make([]string, 0, len(e.byKey))
	for k := range e.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the metric registered under key.
func (e *Engine) Lookup(key string) (Metric, error) {
	m, ok := e.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
	}
	return m, nil
}

// Weights returns the composite weights the engine was configured with.
func (e *Engine) Weights() Weights {
	if m, ok := e.byKey["composite"].(*CompositeMetric); ok {
		return m.Weights
	}
	return Defaults().Weights
}

// Run evaluates one metric and stamps the result with a run ID and timestamp.
func (e *Engine) Run(store *dataset.Store, key string, opts Options) (*Result, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	m, err := e.Lookup(key)
	if err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	opts.Filter = opts.Filter.Normalize()

	res, err := m.Evaluate(store, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	res.RunID = uuid.New().String()
	res.ComputedAt = e.now().UTC()
	res.Filter = opts.Filter
	return res, nil
}

func validateOptions(opts Options) error {
	switch opts.Level {
	case "", LevelState, LevelDistrict:
	default:
		return fmt.Errorf("%w: level %q", ErrInvalidOption, opts.Level)
	}
	switch opts.Window {
	case "", WindowDaily, WindowMonthly, WindowQuarterly:
	default:
		return fmt.Errorf("%w: window %q", ErrInvalidOption, opts.Window)
	}
	if opts.Sigma < 0 {
		return fmt.Errorf("%w: sigma %v", ErrInvalidOption, opts.Sigma)
	}
	if opts.TopN < 0 {
		return fmt.Errorf("%w: top_n %d", ErrInvalidOption, opts.TopN)
	}
	if opts.Weights != nil {
		if err := opts.Weights.Validate(); err != nil {
			return err
		}
	}
	return nil
}
