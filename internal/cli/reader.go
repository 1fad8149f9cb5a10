package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a prompt is abandoned through its context.
var ErrInputCancelled = errors.New("input canceled")

type scannedLine struct {
	err  error
	text string
}

// LineReader reads answers to terminal prompts one line at a time. A single
// background goroutine scans the input, so a prompt abandoned on cancel
// leaves its line for the next ReadLine instead of losing it.
type LineReader struct {
	src   io.Reader
	lines chan scannedLine
	start sync.Once
}

// NewLineReader returns a LineReader over r. Scanning starts on the first
// ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{src: r, lines: make(chan scannedLine)}
}

func (r *LineReader) scan() {
	defer close(r.lines)

	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		r.lines <- scannedLine{text: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		r.lines <- scannedLine{err: err}
	}
}

// ReadLine returns the next trimmed line. A final line without a trailing
// newline is still returned; after it ReadLine reports io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.scan() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", fmt.Errorf("failed to read input: %w", line.err)
		}
		return strings.TrimSpace(line.text), nil
	}
}

// Confirm asks a yes/no question on w and reads the answer from r.
// Anything other than y/yes counts as no; end of input is treated as no.
func Confirm(ctx context.Context, r *LineReader, w io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s %s ", PromptStyle.Render(question), SubtleStyle.Render("[y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := r.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
