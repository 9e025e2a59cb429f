package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights("", Defaults().Weights)
	if err != nil || w != nil {
		t.Fatalf("empty: got %v, %v", w, err)
	}

	w, err = ParseWeights("bai=0.4, gfi=0.1", Defaults().Weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.BAI != 0.4 || w.GFI != 0.1 || w.DPI != 0.2 || w.CCI != 0.3 {
		t.Errorf("unexpected weights %+v", *w)
	}

	for _, bad := range []string{"bai", "bai=x", "foo=1", "bai=0.9"} {
		if _, err := ParseWeights(bad, Defaults().Weights); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ParseWeights(%q): expected ErrInvalidOption, got %v", bad, err)
		}
	}
}

func TestParseWeightsKeepsBase(t *testing.T) {
	base := Weights{BAI: 0.25, GFI: 0.25, DPI: 0.25, CCI: 0.25}
	w, err := ParseWeights("bai=0.4,gfi=0.1", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.BAI != 0.4 || w.GFI != 0.1 || w.DPI != 0.25 || w.CCI != 0.25 {
		t.Errorf("unnamed weights should keep the base: %+v", *w)
	}

	if _, err := ParseWeights("bai=0.35", base); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption when overrides break the sum, got %v", err)
	}
}

func TestParseMonths(t *testing.T) {
	months, err := ParseMonths("Diwali")
	if err != nil || len(months) != 2 || months[0] != 10 {
		t.Fatalf("preset: got %v, %v", months, err)
	}
	months[0] = 1
	if SeasonPresets["diwali"][0] != 10 {
		t.Error("preset slice must not be shared")
	}

	months, err = ParseMonths("1, 2,12")
	if err != nil || len(months) != 3 || months[2] != 12 {
		t.Fatalf("list: got %v, %v", months, err)
	}

	for _, bad := range []string{"13", "0", "monsoon"} {
		if _, err := ParseMonths(bad); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ParseMonths(%q): expected ErrInvalidOption, got %v", bad, err)
		}
	}
}

func TestParseEvent(t *testing.T) {
	d, err := ParseEvent("pan_link")
	if err != nil || !d.Equal(time.Date(2018, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("preset: got %v, %v", d, err)
	}
	d, err = ParseEvent("2019-01-15")
	if err != nil || d.Day() != 15 {
		t.Fatalf("date: got %v, %v", d, err)
	}
	if _, err := ParseEvent("last tuesday"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}
