// Package device provides the input-injection backend: simulated taps,
// swipes and typing on a connected Android device, plus screen capture.
package device

import (
	"context"
	"errors"
	"image"
	"time"
)

// ErrSafetyAbort is returned when the pinned application is not in the
// foreground. It is never recovered from: the caller must stop immediately
// so no input lands on an unintended surface.
var ErrSafetyAbort = errors.New("target app is not in the foreground")

// Conn is the connection to a device that accepts simulated input. Every
// action blocks until its settle delay has elapsed so the app has time to
// render before the next action.
type Conn interface {
	Tap(ctx context.Context, p image.Point, purpose string) error
	Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error
	TypeText(ctx context.Context, text string) error
	PressKey(ctx context.Context, keycode int) error
	Screenshot(ctx context.Context) (image.Image, error)
	ForegroundPackage(ctx context.Context) (string, error)
	Model(ctx context.Context) (string, error)
}

// settle pauses for the given delay, honoring cancellation.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
