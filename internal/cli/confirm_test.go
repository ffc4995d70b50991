package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "garbage defaults to no", input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			ok, err := Confirm(context.Background(), strings.NewReader(tt.input), &out, "Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Proceed?")
		})
	}
}

func TestConfirm_EOF(t *testing.T) {
	var out strings.Builder
	ok, err := Confirm(context.Background(), strings.NewReader(""), &out, "Proceed?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never delivers a line.
	blocked, w := io.Pipe()
	defer func() {
		_ = w.Close()
		_ = blocked.Close()
	}()

	var out strings.Builder
	_, err := Confirm(ctx, blocked, &out, "Proceed?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestCountdown_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := Countdown(ctx, &out, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Starting in 3...")
}

func TestCountdown_Zero(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Countdown(context.Background(), &out, 0))
	assert.Empty(t, out.String())
}
