package clock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testFallbackOffset = 5*time.Hour + 30*time.Minute

func TestResolverUsesAuthorityFieldsVerbatim(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("timeZone") != "Asia/Kolkata" {
			t.Errorf("expected timeZone query Asia/Kolkata, got %q", r.URL.Query().Get("timeZone"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"year":2026,"month":7,"day":4,"hour":23,"minute":58,"seconds":12,"milliSeconds":345}`))
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "Asia/Kolkata", time.UTC, testFallbackOffset)
	civil := resolver.Now(context.Background())

	want := CivilTime{Year: 2026, Month: 7, Day: 4, Hour: 23, Minute: 58, Second: 12, Millisecond: 345}
	if civil != want {
		t.Fatalf("expected %+v, got %+v", want, civil)
	}
}

func TestResolverFallsBackOnUnreachableAuthority(t *testing.T) {
	t.Parallel()

	resolver := NewResolver("http://127.0.0.1:1", "Asia/Kolkata", time.UTC, testFallbackOffset)
	resolver.now = func() time.Time {
		return time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)
	}

	civil := resolver.Now(context.Background())

	// 20:00 UTC + 5:30 rolls over to the next civil day.
	want := CivilTime{Year: 2026, Month: 3, Day: 15, Hour: 1, Minute: 30}
	if civil != want {
		t.Fatalf("expected fallback %+v, got %+v", want, civil)
	}
}

func TestResolverFallsBackOnNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "Asia/Kolkata", time.UTC, testFallbackOffset)
	resolver.now = func() time.Time {
		return time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	}

	civil := resolver.Now(context.Background())
	if civil.Year != 2026 || civil.Month != 1 || civil.Day != 2 {
		t.Fatalf("expected fallback date 2026-01-02, got %+v", civil)
	}
	if civil.Hour != 8 || civil.Minute != 34 || civil.Second != 5 {
		t.Fatalf("expected fallback time 08:34:05, got %+v", civil)
	}
}

func TestTodayKeyMatchesResolvedDay(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"year":2026,"month":12,"day":1,"hour":0,"minute":5,"seconds":0,"milliSeconds":0}`))
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "Asia/Kolkata", time.UTC, testFallbackOffset)
	if got := resolver.TodayKey(context.Background()); got != "2026-12-01" {
		t.Fatalf("expected today key 2026-12-01, got %q", got)
	}
}
