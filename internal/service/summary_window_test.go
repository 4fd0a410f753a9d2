package service

import (
	"testing"
	"time"
)

func TestResolveSince_YesterdayAnchor(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 30, 0, time.Local)
	got := ResolveSince("09:00", nil, now)
	want := time.Date(2025, time.March, 9, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestResolveSince_SecondsZeroed(t *testing.T) {
	now := time.Date(2025, time.March, 10, 21, 30, 45, 123, time.Local)
	got := ResolveSince("21:30", nil, now)
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("seconds not zeroed: %v", got)
	}
}

func TestResolveSince_MalformedTimeFallsBack(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	got := ResolveSince("not-a-time", nil, now)
	want := now.Add(-24 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestResolveSince_StaleLoginOverrides(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	lastLogin := now.Add(-72 * time.Hour)
	got := ResolveSince("09:00", &lastLogin, now)
	if !got.Equal(lastLogin) {
		t.Fatalf("want %v, got %v", lastLogin, got)
	}
}

func TestResolveSince_RecentLoginIgnored(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	lastLogin := now.Add(-2 * time.Hour)
	got := ResolveSince("09:00", &lastLogin, now)
	want := time.Date(2025, time.March, 9, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
