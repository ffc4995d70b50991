package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Confirm asks a yes/no question and returns the answer. EOF and anything
// other than an explicit yes count as no.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, FormatPrompt(prompt+" [y/N]"))

	line, err := NewNonBlockingReader(in).ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Countdown counts down the given number of seconds, one line per second,
// so the operator has time to wake the device and bring the app foreground.
func Countdown(ctx context.Context, out io.Writer, seconds int) error {
	for i := seconds; i > 0; i-- {
		fmt.Fprintln(out, SubtleStyle.Render(fmt.Sprintf("Starting in %d...", i)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil
}
