package device

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // screencap produces PNG
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ADB drives a device through the adb command-line tool.
type ADB struct {
	path       string
	serial     string
	shortDelay time.Duration
	longDelay  time.Duration
}

// ADBOption customizes an ADB connection.
type ADBOption func(*ADB)

// WithSerial pins the connection to a specific device serial.
func WithSerial(serial string) ADBOption {
	return func(a *ADB) { a.serial = serial }
}

// WithDelays overrides the settle delays applied after each action.
func WithDelays(short, long time.Duration) ADBOption {
	return func(a *ADB) {
		a.shortDelay = short
		a.longDelay = long
	}
}

// NewADB creates an ADB-backed connection. It fails if the adb binary
// cannot be found.
func NewADB(path string, opts ...ADBOption) (*ADB, error) {
	if path == "" {
		path = "adb"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("adb not found at %q: %w", path, err)
	}

	a := &ADB{
		path:       resolved,
		shortDelay: 100 * time.Millisecond,
		longDelay:  600 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// run executes an adb command and returns its stdout.
func (a *ADB) run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+2)
	if a.serial != "" {
		full = append(full, "-s", a.serial)
	}
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, a.path, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (a *ADB) shell(ctx context.Context, args ...string) ([]byte, error) {
	return a.run(ctx, append([]string{"shell"}, args...)...)
}

// Tap sends a single tap.
func (a *ADB) Tap(ctx context.Context, p image.Point, purpose string) error {
	slog.Debug("Tapping", "purpose", purpose, "x", p.X, "y", p.Y)
	if _, err := a.shell(ctx, "input", "tap", strconv.Itoa(p.X), strconv.Itoa(p.Y)); err != nil {
		return err
	}
	return settle(ctx, a.shortDelay)
}

// Swipe performs one scroll gesture.
func (a *ADB) Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error {
	slog.Debug("Swiping screen to scroll",
		"from_x", from.X, "from_y", from.Y, "to_x", to.X, "to_y", to.Y)
	_, err := a.shell(ctx, "input", "swipe",
		strconv.Itoa(from.X), strconv.Itoa(from.Y),
		strconv.Itoa(to.X), strconv.Itoa(to.Y),
		strconv.Itoa(int(duration.Milliseconds())))
	if err != nil {
		return err
	}
	return settle(ctx, a.longDelay)
}

// TypeText types literal text into the focused field.
func (a *ADB) TypeText(ctx context.Context, text string) error {
	slog.Debug("Typing text", "text", text)
	if _, err := a.shell(ctx, "input", "text", formatInputText(text)); err != nil {
		return err
	}
	return settle(ctx, a.shortDelay)
}

// PressKey sends a raw Android keycode.
func (a *ADB) PressKey(ctx context.Context, keycode int) error {
	slog.Debug("Pressing keycode", "keycode", keycode)
	if _, err := a.shell(ctx, "input", "keyevent", strconv.Itoa(keycode)); err != nil {
		return err
	}
	return settle(ctx, a.shortDelay)
}

// Screenshot captures the full screen as a decoded image.
func (a *ADB) Screenshot(ctx context.Context) (image.Image, error) {
	data, err := a.run(ctx, "exec-out", "screencap", "-p")
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}

// ForegroundPackage reports the package that currently owns window focus.
func (a *ADB) ForegroundPackage(ctx context.Context) (string, error) {
	out, err := a.shell(ctx, "dumpsys", "window")
	if err != nil {
		return "", fmt.Errorf("could not query window focus: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "mCurrentFocus") || strings.Contains(line, "mFocusedApp") {
			if pkg := parseFocusedPackage(line); pkg != "" {
				return pkg, nil
			}
		}
	}
	return "", fmt.Errorf("no focused window found in dumpsys output")
}

// Model reports the device model identifier used for profile selection.
func (a *ADB) Model(ctx context.Context) (string, error) {
	out, err := a.shell(ctx, "getprop", "ro.product.model")
	if err != nil {
		return "", fmt.Errorf("could not query device model: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Devices lists the serials of connected devices in the "device" state.
func (a *ADB) Devices(ctx context.Context) ([]string, error) {
	out, err := a.run(ctx, "devices")
	if err != nil {
		return nil, err
	}

	var serials []string
	for _, line := range strings.Split(string(out), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == "device" {
			serials = append(serials, fields[0])
		}
	}
	return serials, nil
}

// formatInputText encodes text for `adb shell input text`: spaces become %s
// and shell metacharacters are escaped.
func formatInputText(text string) string {
	r := strings.NewReplacer(
		`"`, `\"`,
		`'`, `\'`,
		`$`, `\$`,
		` `, `%s`,
	)
	return r.Replace(text)
}

// parseFocusedPackage extracts a package name from a dumpsys focus line such
// as "mCurrentFocus=Window{f7d2c u0 com.raha.app.mymoney.pro/...}".
func parseFocusedPackage(line string) string {
	for _, field := range strings.Fields(line) {
		if idx := strings.IndexByte(field, '/'); idx > 0 {
			pkg := field[:idx]
			if strings.Contains(pkg, ".") {
				return strings.TrimPrefix(pkg, "Window{")
			}
		}
	}
	return ""
}
