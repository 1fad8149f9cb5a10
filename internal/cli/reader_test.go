package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single line", input: "12.50\n", want: []string{"12.50"}},
		{name: "surrounding whitespace", input: "  Lunch  \n", want: []string{"Lunch"}},
		{name: "empty line", input: "\n", want: []string{""}},
		{name: "several answers", input: "y\nFood\n20\n", want: []string{"y", "Food", "20"}},
		{name: "last line without newline", input: "n\nyes", want: []string{"n", "yes"}},
		{name: "windows line endings", input: "y\r\nn\r\n", want: []string{"y", "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			ctx := context.Background()

			for _, want := range tt.want {
				got, err := r.ReadLine(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err := r.ReadLine(ctx)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestLineReader_Cancellation(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		r := NewLineReader(strings.NewReader("y\n"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		r := NewLineReader(pr)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("line typed after a cancelled prompt is kept", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		r := NewLineReader(pr)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := r.ReadLine(ctx)
		require.ErrorIs(t, err, ErrInputCancelled)

		go func() { _, _ = io.WriteString(pw, "yes\n") }()

		got, err := r.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "yes", got)
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes uppercase", input: "YES\n", want: true},
		{name: "yes without newline", input: "yes", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "blank defaults to no", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got, err := Confirm(context.Background(), NewLineReader(strings.NewReader(tt.input)), &out, "Save anyway?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Save anyway?")
		})
	}
}

func TestConfirm_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Confirm(ctx, NewLineReader(pr), io.Discard, "Save anyway?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}
