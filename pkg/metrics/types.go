// Package metrics implements the updatelens metric engine. Every metric is a
// pure function of the loaded tables and the caller's options: nothing is
// cached between invocations and no input table is modified.
package metrics

import (
	"errors"
	"time"

	"github.com/updatelens/updatelens/pkg/dataset"
)

var (
	// ErrUnknownMetric is returned when a metric key is not registered.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrTableUnavailable is returned when a metric needs a table that was not loaded.
	ErrTableUnavailable = errors.New("required table not loaded")
	// ErrPincodeModeRequired is returned when a concentration metric is run
	// without stating how pincodes are counted.
	ErrPincodeModeRequired = errors.New("pincode mode must be specified")
	// ErrInsufficientPeriods is returned when a time series is too short to
	// split into baseline and recent partitions.
	ErrInsufficientPeriods = errors.New("not enough periods for baseline and recent windows")
	// ErrInvalidOption is returned for out-of-range option values.
	ErrInvalidOption = errors.New("invalid option")
)

// Result is the output of a single metric evaluation. Immutable once returned.
type Result struct {
	Key            string             `json:"key"`
	Name           string             `json:"name"`
	Value          float64            `json:"value"`
	Classification string             `json:"classification"`
	Totals         map[string]float64 `json:"totals,omitempty"`
	Breakdown      []Entry            `json:"breakdown,omitempty"`
	Chart          *ChartSeries       `json:"chart_series,omitempty"`
	Notes          []string           `json:"notes,omitempty"`
	RunID          string             `json:"run_id,omitempty"`
	ComputedAt     time.Time          `json:"computed_at,omitempty"`
	Filter         dataset.Filter     `json:"filter,omitempty"`
}

// Entry is one ranked entity in a result breakdown.
type Entry struct {
	Entity         string             `json:"entity"`
	Value          float64            `json:"value"`
	Classification string             `json:"classification"`
	Totals         map[string]float64 `json:"totals,omitempty"`
	Scores         map[string]float64 `json:"scores,omitempty"` // per-dimension components (z-scores, normalized inputs)
	Flags          []string           `json:"flags,omitempty"`  // dimensions that crossed a threshold
}

// ChartSeries is a labelled series ready for plotting.
type ChartSeries struct {
	Kind      string    `json:"kind"` // bar, line
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	Secondary []float64 `json:"secondary,omitempty"`
}

// Level selects the entity granularity of a breakdown.
type Level string

const (
	LevelState    Level = "state"
	LevelDistrict Level = "district"
)

// TimeWindow selects the period length of a time series.
type TimeWindow string

const (
	WindowDaily     TimeWindow = "daily"
	WindowMonthly   TimeWindow = "monthly"
	WindowQuarterly TimeWindow = "quarterly"
)

// PincodeMode states how pincodes are counted for concentration metrics.
type PincodeMode string

const (
	// PincodeDistinct counts distinct pincodes in pincode-level data.
	PincodeDistinct PincodeMode = "distinct"
	// PincodeDistrictProxy estimates pincodes as a fixed multiple of districts.
	PincodeDistrictProxy PincodeMode = "district_proxy"
)

// Options carries every caller-tunable input. Zero values select defaults
// where a default exists.
type Options struct {
	Filter           dataset.Filter `json:"filter"`
	Level            Level          `json:"level,omitempty"`
	Window           TimeWindow     `json:"window,omitempty"`
	PincodeMode      PincodeMode    `json:"pincode_mode,omitempty"`
	Sigma            float64        `json:"sigma,omitempty"`
	PincodeThreshold float64        `json:"pincode_threshold,omitempty"`
	TopN             int            `json:"top_n,omitempty"`
	Weights          *Weights       `json:"weights,omitempty"`
	TargetMonths     []int          `json:"target_months,omitempty"`
	EventDate        time.Time      `json:"event_date,omitempty"`
	WindowDays       int            `json:"window_days,omitempty"`
}

func (o Options) level() Level {
	if o.Level == "" {
		return LevelState
	}
	return o.Level
}
