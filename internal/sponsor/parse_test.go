package sponsor

import (
	"testing"
	"time"
)

func TestParseDecimalMalformedInputIsAbsent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "   "},
		{name: "text", input: "ten dollars"},
		{name: "trailing_garbage", input: "5.00x"},
		{name: "double_dot", input: "1.2.3"},
		{name: "lone_dash", input: "-"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := ParseDecimal(tc.input); ok {
				t.Fatalf("ParseDecimal(%q) reported a value, want absence", tc.input)
			}
		})
	}
}

func TestParseDecimalTrimsAndPreservesPrecision(t *testing.T) {
	t.Parallel()
	d, ok := ParseDecimal("  10.05 ")
	if !ok {
		t.Fatalf("ParseDecimal returned absence for a valid value")
	}
	if got := d.String(); got != "10.05" {
		t.Fatalf("ParseDecimal = %s, want 10.05", got)
	}
}

func TestParseTimestampMalformedInputIsAbsent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		input    string
		dateOnly bool
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "  "},
		{name: "garbage", input: "not-a-date"},
		{name: "date_in_full_mode_garbage", input: "2023-13-40T99:00:00Z"},
		{name: "date_only_garbage", input: "2023-02-30", dateOnly: true},
		{name: "date_only_with_time", input: "2023-01-02T03:04:05Z", dateOnly: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := ParseTimestamp(tc.input, tc.dateOnly); ok {
				t.Fatalf("ParseTimestamp(%q, %v) reported a value, want absence", tc.input, tc.dateOnly)
			}
		})
	}
}

func TestParseTimestampDateOnlyAnchorsToMidnightUTC(t *testing.T) {
	t.Parallel()
	got, ok := ParseTimestamp("2023-05-17", true)
	if !ok {
		t.Fatalf("ParseTimestamp returned absence for a valid date")
	}
	want := time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseTimestamp = %v, want %v", got, want)
	}
}

func TestParseTimestampNormalizesToUTC(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "zulu", input: "2023-05-17T10:30:00Z", want: time.Date(2023, 5, 17, 10, 30, 0, 0, time.UTC)},
		{name: "offset", input: "2023-05-17T12:30:00+02:00", want: time.Date(2023, 5, 17, 10, 30, 0, 0, time.UTC)},
		{name: "no_offset", input: "2023-05-17T10:30:00", want: time.Date(2023, 5, 17, 10, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTimestamp(tc.input, false)
			if !ok {
				t.Fatalf("ParseTimestamp(%q) returned absence", tc.input)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("ParseTimestamp(%q) location = %v, want UTC", tc.input, got.Location())
			}
		})
	}
}
