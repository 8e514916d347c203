package dates

import (
	"testing"
	"time"
)

func TestDayBoundsHalfOpenInterval(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	at := time.Date(2025, 6, 15, 23, 45, 0, 0, loc)
	start, end := DayBounds(at, loc)

	if !start.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start: %s", start)
	}
	if !end.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected end: %s", end)
	}
}

func TestDayBoundsConvertsInstantToLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 20:00 UTC is already the next day in IST (+05:30).
	at := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)
	start, _ := DayBounds(at, loc)

	if start.Day() != 16 {
		t.Fatalf("expected local day 16, got %d", start.Day())
	}
}

func TestDayBoundsNilLocationDefaultsUTC(t *testing.T) {
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	start, end := DayBounds(at, nil)

	if start.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", start.Location())
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("expected 24h interval, got %s", end.Sub(start))
	}
}

func TestSameLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	a := time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)
	if SameLocalDay(a, b, loc) {
		t.Fatal("19:00 UTC crosses midnight IST, expected different local days")
	}
	if !SameLocalDay(a, a, loc) {
		t.Fatal("identical instants must share a local day")
	}
}
