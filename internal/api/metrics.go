package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
	"github.com/updatelens/updatelens/pkg/surface"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var contentTypes = map[string]string{
	"json":     "application/json",
	"text":     "text/plain; charset=utf-8",
	"terminal": "text/plain; charset=utf-8",
	"markdown": "text/markdown; charset=utf-8",
	"md":       "text/markdown; charset=utf-8",
	"xlsx":     xlsxContentType,
	"excel":    xlsxContentType,
}

// handleMetric evaluates one metric. Query parameters map onto
// metrics.Options; format selects the renderer (json by default).
func (h *Handler) handleMetric(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	q := r.URL.Query()

	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = "json"
	}
	renderer, err := surface.ForFormat(format, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.engine.Lookup(key); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	opts, err := parseOptions(q, h.engine.Weights())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	cacheKey := key + "?" + canonicalQuery(q)
	res := h.cache.Get(cacheKey)
	if res == nil {
		store, err := h.loader.Load(r.Context())
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		res, err = h.engine.Run(store, key, opts)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		h.cache.Put(cacheKey, res)
		log.Debug().Str("metric", key).Str("run_id", res.RunID).Msg("metric computed")
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, res); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ct := contentTypes[format]
	w.Header().Set("Content-Type", ct)
	if ct == xlsxContentType {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key+".xlsx"))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseOptions builds metric options from query parameters.
func parseOptions(q url.Values, base metrics.Weights) (metrics.Options, error) {
	opts := metrics.Options{
		Filter:      dataset.Filter{State: q.Get("state"), District: q.Get("district")},
		Level:       metrics.Level(strings.ToLower(q.Get("level"))),
		Window:      metrics.TimeWindow(strings.ToLower(q.Get("window"))),
		PincodeMode: metrics.PincodeMode(strings.ToLower(q.Get("pincode_mode"))),
	}

	var err error
	if opts.Sigma, err = floatParam(q, "sigma"); err != nil {
		return opts, err
	}
	if opts.PincodeThreshold, err = floatParam(q, "pincode_threshold"); err != nil {
		return opts, err
	}
	if opts.TopN, err = intParam(q, "top_n"); err != nil {
		return opts, err
	}
	if opts.WindowDays, err = intParam(q, "window_days"); err != nil {
		return opts, err
	}
	if opts.Weights, err = metrics.ParseWeights(q.Get("weights"), base); err != nil {
		return opts, err
	}

	months := q.Get("months")
	if months == "" {
		months = q.Get("season")
	}
	if opts.TargetMonths, err = metrics.ParseMonths(months); err != nil {
		return opts, err
	}

	event := q.Get("event")
	if event == "" {
		event = q.Get("event_date")
	}
	if opts.EventDate, err = metrics.ParseEvent(event); err != nil {
		return opts, err
	}
	return opts, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", metrics.ErrInvalidOption, name, v)
	}
	return f, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", metrics.ErrInvalidOption, name, v)
	}
	return n, nil
}

// canonicalQuery renders the option parameters in a stable order, leaving
// out the output format.
func canonicalQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		if k != "format" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), q[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}
	return sb.String()
}
