package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// PolicyEvent is a dated administrative event whose impact can be measured.
type PolicyEvent struct {
	Key  string    `json:"key"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// PolicyEvents are the historical events offered as presets.
var PolicyEvents = []PolicyEvent{
	{Key: "nrc_freeze", Name: "Assam NRC Freeze", Date: time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)},
	{Key: "pan_link", Name: "PAN-Aadhaar Link Deadline", Date: time.Date(2018, 6, 30, 0, 0, 0, 0, time.UTC)},
	{Key: "mbu_drive", Name: "MBU Drive", Date: time.Date(2018, 9, 15, 0, 0, 0, 0, time.UTC)},
}

// LookupEvent finds a preset by key.
func LookupEvent(key string) (PolicyEvent, bool) {
	for _, e := range PolicyEvents {
		if e.Key == key {
			return e, true
		}
	}
	return PolicyEvent{}, false
}

// ShockMetric measures the percentage change in mean daily demographic
// volume between the WindowDays before an event and the WindowDays after it.
// The event day itself belongs to neither window.
type ShockMetric struct {
	WindowDays int
}

func (m *ShockMetric) Key() string  { return "shock" }
func (m *ShockMetric) Name() string { return "Policy Shock Analysis" }

func (m *ShockMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	if opts.EventDate.IsZero() {
		return nil, fmt.Errorf("%w: event date required", ErrInvalidOption)
	}
	days := opts.WindowDays
	if days == 0 {
		days = m.WindowDays
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: window days %d", ErrInvalidOption, days)
	}

	src, err := requireTable(store, dataset.KindDistrictDaily)
	if err != nil {
		return nil, err
	}
	t := opts.Filter.Apply(src)

	event := opts.EventDate.UTC().Truncate(24 * time.Hour)
	beforeStart := event.AddDate(0, 0, -days)
	afterEnd := event.AddDate(0, 0, days)

	var before, after []float64
	windowed := &dataset.Table{Kind: t.Kind, Fields: t.Fields}
	for _, r := range t.Records {
		d := r.Date
		switch {
		case !d.Before(beforeStart) && d.Before(event):
			before = append(before, float64(r.TotalDemo()))
		case d.After(event) && !d.After(afterEnd):
			after = append(after, float64(r.TotalDemo()))
		default:
			if !d.Equal(event) {
				continue
			}
		}
		windowed.Records = append(windowed.Records, r)
	}

	beforeMean, afterMean := mean(before), mean(after)
	change := 0.0
	if beforeMean > 0 {
		change = (afterMean - beforeMean) / beforeMean * 100
	}

	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          change,
		Classification: ShockScale.Classify(math.Abs(change)),
		Totals: map[string]float64{
			"before_mean": beforeMean,
			"after_mean":  afterMean,
			"before_rows": float64(len(before)),
			"after_rows":  float64(len(after)),
			"window_days": float64(days),
		},
		Notes: []string{fmt.Sprintf("event: %s", event.Format("2006-01-02"))},
	}
	if beforeMean == 0 && afterMean > 0 {
		res.Notes = append(res.Notes, "no activity before event; change undefined")
	}

	pts, err := demoSeries(windowed, aggregate.ByDate)
	if err != nil {
		return nil, err
	}
	res.Chart = &ChartSeries{Kind: "line", Labels: labels(pts), Values: values(pts)}
	return res, nil
}
