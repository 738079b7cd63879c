package watch

import (
	"context"
	"fmt"
	"time"

	"gamedeck/internal/api"
)

const (
	defaultArtInterval    = 3 * time.Second
	defaultArtMaxAttempts = 100
)

// ArtProbe repeatedly checks whether an image URL has become available.
// Each attempt appends a fresh cache-busting query parameter so a cached
// 404 from an intermediary never masks the artifact appearing. Probing
// stops on the first success, on cancellation, or after the attempt cap.
type ArtProbe struct {
	client      *api.Client
	interval    time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewArtProbe builds a probe with the given cadence and attempt cap.
// Non-positive values fall back to three seconds and one hundred
// attempts.
func NewArtProbe(client *api.Client, interval time.Duration, maxAttempts int) *ArtProbe {
	if interval <= 0 {
		interval = defaultArtInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultArtMaxAttempts
	}
	return &ArtProbe{client: client, interval: interval, maxAttempts: maxAttempts, now: time.Now}
}

// BustURL returns url with a cache-busting timestamp parameter appended.
func (p *ArtProbe) BustURL(url string) string {
	sep := "?"
	for _, r := range url {
		if r == '?' {
			sep = "&"
			break
		}
	}
	return fmt.Sprintf("%s%st=%d", url, sep, p.now().UnixNano())
}

// Wait probes url until it answers successfully. It returns the busted
// URL that succeeded, so callers can load exactly the bytes that were
// confirmed present. It returns an error when ctx ends or the attempt
// cap is reached first.
func (p *ArtProbe) Wait(ctx context.Context, url string) (string, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		busted := p.BustURL(url)
		if err := p.client.ProbeImage(ctx, busted); err == nil {
			return busted, nil
		}
		if attempt >= p.maxAttempts {
			return "", fmt.Errorf("artifact not available after %d attempts: %s", attempt, url)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
