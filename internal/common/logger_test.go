package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "WARN", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	slog.New(h).Info("hello", "count", 3)
	assert.Contains(t, buf.String(), `"count":3`)

	buf.Reset()
	h, err = NewHandler(&buf, slog.LevelInfo, "console")
	require.NoError(t, err)
	slog.New(h).Debug("hidden")
	assert.Empty(t, buf.String())

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUserError(t *testing.T) {
	base := errors.New("strconv failure")
	err := NewUserError("amount must be a number", base)

	assert.Equal(t, "amount must be a number: strconv failure", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "amount must be a number", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
