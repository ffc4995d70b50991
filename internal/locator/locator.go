// Package locator finds a named label on the current screen and taps it,
// consulting the location cache before falling back to scroll-and-rescan
// with OCR.
package locator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/athakur/ledgerhand/internal/device"
	"github.com/athakur/ledgerhand/internal/ocr"
	"github.com/athakur/ledgerhand/internal/profile"
	"github.com/athakur/ledgerhand/internal/uicache"
)

// DefaultMaxAttempts bounds the scroll-and-rescan loop. Failure after the
// budget is expected behavior when a list is shorter than the budget.
const DefaultMaxAttempts = 5

// Screen hints which selection screen is open; account lists carry logos
// in a left margin that is cropped out before OCR.
type Screen int

// Selection screens.
const (
	ScreenCategory Screen = iota
	ScreenAccount
)

// LocateError reports a label that could not be found within the retry
// budget. It stops the batch so the operator can intervene on the device.
type LocateError struct {
	Label    string
	Attempts int
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("could not find %q after %d attempts", e.Label, e.Attempts)
}

// Scanner finds a phrase on a captured screen.
type Scanner interface {
	FindPhrase(ctx context.Context, img image.Image, target string, cropLeft int) (ocr.Match, bool, error)
}

// Locator is the single reusable find-and-tap primitive.
type Locator struct {
	conn    device.Conn
	scanner Scanner
	cache   *uicache.Cache
	prof    profile.Profile
}

// New creates a locator. The connection is expected to be focus-guarded.
func New(conn device.Conn, scanner Scanner, cache *uicache.Cache, prof profile.Profile) *Locator {
	return &Locator{conn: conn, scanner: scanner, cache: cache, prof: prof}
}

// LocateAndSelect finds the label on the open selection screen and taps it.
// A cache hit replays the recorded swipes and taps blindly, with no OCR and
// no re-verification. On a miss it alternates capture/scan with single
// swipes, caching the discovered location on success.
func (l *Locator) LocateAndSelect(ctx context.Context, label string, screen Screen, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if entry, ok := l.cache.Get(label); ok {
		return l.selectCached(ctx, label, entry)
	}

	slog.Warn("Label not in cache, starting OCR fallback", "label", label)

	cropLeft := 0
	if screen == ScreenAccount {
		cropLeft = l.prof.AccountListCropPx
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		slog.Debug("Scan attempt", "label", label, "attempt", attempt+1, "max", maxAttempts)

		img, err := l.conn.Screenshot(ctx)
		if err != nil {
			if errors.Is(err, device.ErrSafetyAbort) || ctx.Err() != nil {
				return err
			}
			// Transient capture failure: treated as a miss, keep scrolling.
			slog.Warn("Screenshot failed, treating as miss", "label", label, "error", err)
			if err := l.swipe(ctx); err != nil {
				return err
			}
			continue
		}

		match, found, err := l.scanner.FindPhrase(ctx, img, label, cropLeft)
		if err != nil {
			return fmt.Errorf("scan for %q failed: %w", label, err)
		}

		if found {
			slog.Info("Found label via OCR, caching location",
				"label", label,
				"matched", match.Phrase,
				"swipes", attempt,
				"x", match.Point.X,
				"y", match.Point.Y)

			l.cache.Set(label, attempt, match.Point.X, match.Point.Y)
			if err := l.cache.Save(); err != nil {
				// Cache persistence is best-effort; the tap still proceeds.
				slog.Warn("Could not persist UI cache", "error", err)
			}

			return l.conn.Tap(ctx, match.Point, fmt.Sprintf("select %q", label))
		}

		slog.Debug("Label not on screen, swiping", "label", label)
		if err := l.swipe(ctx); err != nil {
			return err
		}
	}

	slog.Error("Exhausted scan attempts", "label", label, "attempts", maxAttempts)
	return &LocateError{Label: label, Attempts: maxAttempts}
}

// selectCached replays the cached path to a label: the exact recorded swipe
// count, then a blind tap at the recorded coordinates.
func (l *Locator) selectCached(ctx context.Context, label string, entry uicache.Entry) error {
	slog.Info("Found label in cache", "label", label, "swipes", entry.Swipes)

	for i := 0; i < entry.Swipes; i++ {
		if err := l.swipe(ctx); err != nil {
			return err
		}
	}

	pt := image.Pt(entry.Coords[0], entry.Coords[1])
	return l.conn.Tap(ctx, pt, fmt.Sprintf("select cached %q", label))
}

func (l *Locator) swipe(ctx context.Context) error {
	g := l.prof.ScrollGesture
	return l.conn.Swipe(ctx, g.From, g.To, g.Duration)
}
