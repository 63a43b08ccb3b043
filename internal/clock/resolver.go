package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const authorityTimeout = 5 * time.Second

// Resolver resolves the current civil time in one configured zone. It asks an
// external time authority first and falls back to shifting the local clock by a
// fixed offset when the authority is unreachable, so callers always get a value.
type Resolver struct {
	client         *http.Client
	baseURL        string
	zone           string
	location       *time.Location
	fallbackOffset time.Duration
	now            func() time.Time
}

type authorityResponse struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	Day          int `json:"day"`
	Hour         int `json:"hour"`
	Minute       int `json:"minute"`
	Seconds      int `json:"seconds"`
	MilliSeconds int `json:"milliSeconds"`
}

func NewResolver(baseURL string, zone string, location *time.Location, fallbackOffset time.Duration) *Resolver {
	if location == nil {
		location = time.UTC
	}
	return &Resolver{
		client:         &http.Client{Timeout: authorityTimeout},
		baseURL:        baseURL,
		zone:           zone,
		location:       location,
		fallbackOffset: fallbackOffset,
		now:            time.Now,
	}
}

// Location returns the civil zone the resolver operates in.
func (resolver *Resolver) Location() *time.Location {
	return resolver.location
}

// Now returns the current civil time, never failing: authority errors of any
// kind degrade to the fixed-offset fallback.
func (resolver *Resolver) Now(ctx context.Context) CivilTime {
	civil, err := resolver.fetchAuthority(ctx)
	if err != nil {
		return resolver.fallbackNow()
	}
	return civil
}

// TodayKey returns the "YYYY-MM-DD" key of the current civil day.
func (resolver *Resolver) TodayKey(ctx context.Context) string {
	return DateKey(resolver.Now(ctx).Instant(resolver.location), resolver.location)
}

func (resolver *Resolver) fetchAuthority(ctx context.Context) (CivilTime, error) {
	endpoint := fmt.Sprintf(
		"%s/api/Time/current/zone?timeZone=%s",
		resolver.baseURL,
		url.QueryEscape(resolver.zone),
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CivilTime{}, fmt.Errorf("build time authority request: %w", err)
	}

	response, err := resolver.client.Do(request)
	if err != nil {
		return CivilTime{}, fmt.Errorf("query time authority: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return CivilTime{}, fmt.Errorf("time authority returned status %d", response.StatusCode)
	}

	var payload authorityResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return CivilTime{}, fmt.Errorf("decode time authority response: %w", err)
	}

	return CivilTime{
		Year:        payload.Year,
		Month:       payload.Month,
		Day:         payload.Day,
		Hour:        payload.Hour,
		Minute:      payload.Minute,
		Second:      payload.Seconds,
		Millisecond: payload.MilliSeconds,
	}, nil
}

// fallbackNow shifts the current instant by the fixed offset and reads UTC
// fields off the shifted value. For zones without daylight saving this matches
// the authority; elsewhere it can skew by the DST delta.
func (resolver *Resolver) fallbackNow() CivilTime {
	shifted := resolver.now().UTC().Add(resolver.fallbackOffset)
	return CivilTime{
		Year:        shifted.Year(),
		Month:       int(shifted.Month()),
		Day:         shifted.Day(),
		Hour:        shifted.Hour(),
		Minute:      shifted.Minute(),
		Second:      shifted.Second(),
		Millisecond: shifted.Nanosecond() / int(time.Millisecond),
	}
}
