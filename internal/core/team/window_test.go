package team

import (
	"errors"
	"testing"
	"time"
)

func TestMonthWindow_January2025(t *testing.T) {
	t.Parallel()

	w, err := MonthWindow(1, 2025)
	if err != nil {
		t.Fatalf("MonthWindow returned error: %v", err)
	}

	if got := w.Start.Format(time.RFC3339); got != "2024-12-31T18:30:00Z" {
		t.Fatalf("unexpected start: %s", got)
	}
	if got := w.End.Format(time.RFC3339); got != "2025-01-31T18:29:59Z" {
		t.Fatalf("unexpected end: %s", got)
	}
}

func TestMonthWindow_MonthLengths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		month, year int
		end         string
	}{
		{2, 2024, "2024-02-29T18:29:59Z"},
		{2, 2025, "2025-02-28T18:29:59Z"},
		{4, 2025, "2025-04-30T18:29:59Z"},
		{12, 2025, "2025-12-31T18:29:59Z"},
	}

	for _, tc := range cases {
		w, err := MonthWindow(tc.month, tc.year)
		if err != nil {
			t.Fatalf("MonthWindow(%d, %d) returned error: %v", tc.month, tc.year, err)
		}
		if got := w.End.Format(time.RFC3339); got != tc.end {
			t.Errorf("MonthWindow(%d, %d) end = %s, want %s", tc.month, tc.year, got, tc.end)
		}
		if w.Start.Location() != time.UTC {
			t.Errorf("expected UTC start, got %v", w.Start.Location())
		}
	}
}

func TestMonthWindow_Invalid(t *testing.T) {
	t.Parallel()

	for _, month := range []int{0, 13, -1} {
		if _, err := MonthWindow(month, 2025); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}

func TestDateWindow_ContainsIsInclusive(t *testing.T) {
	t.Parallel()

	w, _ := MonthWindow(1, 2025)
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Fatal("window bounds must be inclusive")
	}
	if w.Contains(w.End.Add(time.Second)) {
		t.Fatal("window must exclude the instant after end")
	}
}

func TestCurrentISTMonth_UsesFixedOffset(t *testing.T) {
	t.Parallel()

	// 2025-01-31T19:00Z は IST では 2 月 1 日です。
	month, year := currentISTMonth(time.Date(2025, 1, 31, 19, 0, 0, 0, time.UTC))
	if month != 2 || year != 2025 {
		t.Fatalf("expected 2/2025, got %d/%d", month, year)
	}
}
