package quake

import (
	"encoding/json"
	"math"
	"slices"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"utc designator", "2024-04-03T00:00:00Z", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"explicit offset", "2024-04-03T07:58:09+08:00", time.Date(2024, 4, 2, 23, 58, 9, 0, time.UTC), true},
		{"no offset assumes utc+8", "2024-04-03 07:58:09", time.Date(2024, 4, 2, 23, 58, 9, 0, time.UTC), true},
		{"T separator no offset", "2024-04-03T08:00:00", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ok && got.Location() != time.UTC {
				t.Errorf("expected UTC location, got %v", got.Location())
			}
		})
	}
}

func TestRecordLocal(t *testing.T) {
	r := Record{OriginTime: time.Date(2024, 4, 2, 23, 58, 0, 0, time.UTC)}
	if got := r.Local().Format(DisplayLayout); got != "2024-04-03 07:58" {
		t.Errorf("expected 2024-04-03 07:58, got %s", got)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input any
		want  float64
		ok    bool
	}{
		{7.2, 7.2, true},
		{"5.8", 5.8, true},
		{"10.0公里", 10, true},
		{"M 6", 6, true},
		{json.Number("4.1"), 4.1, true},
		{3, 3, true},
		{nil, 0, false},
		{"—", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseFloat(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseFloat(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && *got != tt.want {
			t.Errorf("ParseFloat(%v) = %v, want %v", tt.input, *got, tt.want)
		}
	}
}

func TestLookup_FirstPresentCandidateWins(t *testing.T) {
	obj := Object{
		"magnitudeValue": "",
		"Value":          5.1,
		"value":          9.9,
	}
	v, ok := Lookup(obj, []string{"MagnitudeValue", "magnitudeValue", "Value", "value"})
	if !ok {
		t.Fatal("expected a value")
	}
	if v != 5.1 {
		t.Errorf("expected 5.1, got %v", v)
	}

	if _, ok := Lookup(obj, []string{"missing"}); ok {
		t.Error("expected missing key to report not found")
	}
	if _, ok := Lookup(nil, []string{"Value"}); ok {
		t.Error("expected nil object to report not found")
	}
}

func TestLookupObjectAndString(t *testing.T) {
	obj := Object{
		"epicenter": map[string]any{"location": " 花蓮縣近海 "},
	}
	epi := LookupObject(obj, []string{"Epicenter", "epicenter"})
	if got := LookupString(epi, []string{"Location", "location"}); got != "花蓮縣近海" {
		t.Errorf("expected trimmed location, got %q", got)
	}
	if got := LookupObject(obj, []string{"Nope"}); len(got) != 0 {
		t.Errorf("expected empty object, got %v", got)
	}
}

func TestByTimeDesc(t *testing.T) {
	old := Record{ID: "old", OriginTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := Record{ID: "new", OriginTime: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	unknown := Record{ID: "unknown"}

	records := []Record{unknown, old, recent}
	slices.SortStableFunc(records, ByTimeDesc)

	got := []string{records[0].ID, records[1].ID, records[2].ID}
	want := []string{"new", "old", "unknown"}
	if !slices.Equal(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}
