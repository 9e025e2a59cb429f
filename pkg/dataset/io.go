package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
)

// ErrInvalidRecord is returned when a row cannot be decoded into a Record.
var ErrInvalidRecord = errors.New("invalid record")

// dateLayouts are the date encodings seen in exported and raw files.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"02-01-2006",
}

// requiredKeys lists the key columns that must be present on every row of a table.
func requiredKeys(kind Kind) []string {
	switch kind {
	case KindStateSummary:
		return []string{"state"}
	case KindDistrictSummary:
		return []string{"state", "district"}
	case KindMonthlySummary:
		return []string{"state", "district", "month"}
	case KindDistrictDaily:
		return []string{"state", "district", "date"}
	case KindActivity:
		return []string{"state", "district", "pincode"}
	}
	return []string{"state"}
}

// Decode parses a JSON array of flat records. It fails on the first row with a
// missing key column, a non-numeric or negative measure, or an unparseable
// date. Absent measures default to zero; a column absent from every row is
// left out of the table's field set.
func Decode(r io.Reader, kind Kind) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}

	t := &Table{Kind: kind, Records: make([]Record, 0, len(rows))}
	keys := requiredKeys(kind)
	for i, row := range rows {
		rec, present, err := decodeRow(row, kind, keys)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", kind, i, err)
		}
		t.Fields |= present
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, kind Kind) (*Table, error) {
	return Decode(bytes.NewReader(data), kind)
}

// LoadTable reads a table from disk.
func LoadTable(path string, kind Kind) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", kind, err)
	}
	defer f.Close()
	return Decode(f, kind)
}

// DecodeMetadata parses metadata.json.
func DecodeMetadata(data []byte) (*Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	return &md, nil
}

func decodeRow(row map[string]any, kind Kind, keys []string) (Record, FieldSet, error) {
	var rec Record
	var present FieldSet

	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			return rec, 0, fmt.Errorf("%w: missing %q", ErrInvalidRecord, k)
		}
		if k == "month" || k == "date" {
			continue
		}
		if _, err := keyString(v); err != nil {
			return rec, 0, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, k, err)
		}
	}

	if v, ok := row["state"]; ok && v != nil {
		s, err := keyString(v)
		if err != nil {
			return rec, 0, fmt.Errorf("%w: state: %v", ErrInvalidRecord, err)
		}
		rec.State = CanonicalState(s)
		if rec.State == "" {
			return rec, 0, fmt.Errorf("%w: empty state", ErrInvalidRecord)
		}
	}
	if v, ok := row["district"]; ok && v != nil {
		s, err := keyString(v)
		if err != nil {
			return rec, 0, fmt.Errorf("%w: district: %v", ErrInvalidRecord, err)
		}
		rec.District = CanonicalDistrict(s)
	}
	if v, ok := row["pincode"]; ok && v != nil {
		s, err := keyString(v)
		if err != nil {
			return rec, 0, fmt.Errorf("%w: pincode: %v", ErrInvalidRecord, err)
		}
		rec.Pincode = s
	}
	if v, ok := row["date"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return rec, 0, fmt.Errorf("%w: date is not a string", ErrInvalidRecord)
		}
		d, err := ParseDate(s)
		if err != nil {
			return rec, 0, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		rec.Date = d
	}
	if v, ok := row["month"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return rec, 0, fmt.Errorf("%w: month is not a string", ErrInvalidRecord)
		}
		if _, err := time.Parse("2006-01", s); err != nil {
			return rec, 0, fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidRecord, s)
		}
		rec.Month = s
	}

	for f := Field(0); f < fieldCount; f++ {
		v, ok := row[f.String()]
		if !ok || v == nil {
			continue
		}
		n, err := measureValue(v)
		if err != nil {
			return rec, 0, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, f, err)
		}
		rec.Measures.set(f, n)
		present |= 1 << f
	}

	return rec, present, nil
}

// ParseDate accepts the date encodings written by the exporter and the raw registers.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func keyString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	}
	return "", fmt.Errorf("unexpected %T", v)
}

// measureValue accepts integers and integral floats (the exporter writes
// float32 for sampled tables) and rejects everything else.
func measureValue(v any) (int64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("non-numeric value %v", v)
	}
	if n, err := num.Int64(); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-numeric value %s", num)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value %s", num)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral value %s", num)
	}
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %s out of range", num)
	}
	return int64(f), nil
}
