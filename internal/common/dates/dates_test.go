package dates_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/dates"
)

func TestYearsBetween(t *testing.T) {
	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"exact birthday", dates.New(2000, 6, 1).Time, dates.New(2018, 6, 1).Time, 18},
		{"day before birthday", dates.New(2000, 6, 2).Time, dates.New(2018, 6, 1).Time, 17},
		{"month before birthday", dates.New(2000, 7, 1).Time, dates.New(2018, 6, 30).Time, 17},
		{"leap day on non-leap year", dates.New(2000, 2, 29).Time, dates.New(2018, 2, 28).Time, 17},
		{"leap day reached on march 1", dates.New(2000, 2, 29).Time, dates.New(2018, 3, 1).Time, 18},
		{"leap day on leap year", dates.New(2000, 2, 29).Time, dates.New(2020, 2, 29).Time, 20},
		{"same day", dates.New(2000, 1, 1).Time, dates.New(2000, 1, 1).Time, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dates.YearsBetween(tc.start, tc.end); got != tc.want {
				t.Errorf("YearsBetween = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	d, err := dates.Parse("1990-05-15")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.Year() != 1990 || d.Month() != time.May || d.Day() != 15 {
		t.Errorf("unexpected date %v", d)
	}

	for _, bad := range []string{"", "15-05-1990", "1990-13-01", "1990-02-30", "1990-05-15T00:00:00Z"} {
		if _, err := dates.Parse(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		BirthDate dates.Date `json:"birthDate"`
	}

	if err := json.Unmarshal([]byte(`{"birthDate":"2001-09-11"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.BirthDate.String() != "2001-09-11" {
		t.Errorf("unexpected date %s", payload.BirthDate)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"birthDate":"2001-09-11"}` {
		t.Errorf("unexpected json %s", out)
	}

	if err := json.Unmarshal([]byte(`{"birthDate":null}`), &payload); err != nil {
		t.Fatalf("unmarshal null failed: %v", err)
	}
	if !payload.BirthDate.IsZero() {
		t.Error("expected zero date for null")
	}

	if err := json.Unmarshal([]byte(`{"birthDate":"yesterday"}`), &payload); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, 6, 2, 1, 0, 0, 0, loc)

	if got := dates.Today(now); !got.Equal(dates.New(2024, 6, 1).Time) {
		t.Errorf("expected 2024-06-01 UTC, got %v", got)
	}
}
