package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseWeights parses "bai=0.4,gfi=0.2,dpi=0.1,cci=0.3" as overrides of
// base. Weights not named keep their base value. An empty string returns nil.
func ParseWeights(s string, base Weights) (*Weights, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	overrides := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("%w: weight %q is not name=value", ErrInvalidOption, part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: weight %q: %v", ErrInvalidOption, name, err)
		}
		overrides[strings.ToLower(strings.TrimSpace(name))] = v
	}
	t, err := Tuning{Weights: base}.WithOverrides(overrides)
	if err != nil {
		return nil, err
	}
	return &t.Weights, nil
}

// ParseMonths accepts a season preset name (diwali, school, harvest) or a
// comma-separated list of calendar months 1-12.
func ParseMonths(s string) ([]int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if months, ok := SeasonPresets[s]; ok {
		return append([]int(nil), months...), nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		mo, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || mo < 1 || mo > 12 {
			return nil, fmt.Errorf("%w: month %q (want 1-12 or one of %s)",
				ErrInvalidOption, part, strings.Join(seasonNames(), ", "))
		}
		out = append(out, mo)
	}
	return out, nil
}

// ParseEvent accepts a policy event key or a YYYY-MM-DD date.
func ParseEvent(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if ev, ok := LookupEvent(s); ok {
		return ev.Date, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: event %q is neither a known event nor a date", ErrInvalidOption, s)
	}
	return d, nil
}

func seasonNames() []string {
	names := make([]string, 0, len(SeasonPresets))
	for k := range SeasonPresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
