package device

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"
)

// Guard wraps a Conn and verifies the pinned application is frontmost
// before every action. Any mismatch yields ErrSafetyAbort, which callers
// must treat as fatal for the whole process.
type Guard struct {
	conn        Conn
	packageName string
}

// NewGuard creates a guard that only allows input while packageName owns
// the foreground.
func NewGuard(conn Conn, packageName string) *Guard {
	return &Guard{conn: conn, packageName: packageName}
}

func (g *Guard) check(ctx context.Context) error {
	pkg, err := g.conn.ForegroundPackage(ctx)
	if err != nil {
		// Treat an unanswerable focus query the same as a wrong app: there
		// is no safe way to keep sending input.
		return fmt.Errorf("%w: focus check failed: %v", ErrSafetyAbort, err)
	}
	if !strings.Contains(pkg, g.packageName) {
		slog.Error("SAFETY ABORT: target app is not in the foreground",
			"expected", g.packageName,
			"focused", pkg)
		return fmt.Errorf("%w: expected %s, focused %s", ErrSafetyAbort, g.packageName, pkg)
	}
	return nil
}

// Tap verifies focus, then taps.
func (g *Guard) Tap(ctx context.Context, p image.Point, purpose string) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return g.conn.Tap(ctx, p, purpose)
}

// Swipe verifies focus, then swipes.
func (g *Guard) Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return g.conn.Swipe(ctx, from, to, duration)
}

// TypeText verifies focus, then types.
func (g *Guard) TypeText(ctx context.Context, text string) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return g.conn.TypeText(ctx, text)
}

// PressKey verifies focus, then presses.
func (g *Guard) PressKey(ctx context.Context, keycode int) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return g.conn.PressKey(ctx, keycode)
}

// Screenshot verifies focus, then captures the screen.
func (g *Guard) Screenshot(ctx context.Context) (image.Image, error) {
	if err := g.check(ctx); err != nil {
		return nil, err
	}
	return g.conn.Screenshot(ctx)
}

// ForegroundPackage passes through to the underlying connection.
func (g *Guard) ForegroundPackage(ctx context.Context) (string, error) {
	return g.conn.ForegroundPackage(ctx)
}

// Model passes through to the underlying connection.
func (g *Guard) Model(ctx context.Context) (string, error) {
	return g.conn.Model(ctx)
}
