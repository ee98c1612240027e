// Package sandbox runs snippets for real in isolated interpreters: goja for
// JavaScript and tengo for a Go subset.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
)

// DefaultTimeout bounds a run when the caller passes no timeout.
const DefaultTimeout = 2 * time.Second

// Result is the outcome of a sandboxed run.
type Result struct {
	Logs     []string `json:"logs"`
	Error    string   `json:"error,omitempty"`
	TimedOut bool     `json:"timedOut"`
}

// Executor runs source in isolation.
type Executor interface {
	Execute(ctx context.Context, source string, timeout time.Duration) Result
}

// For returns the executor for a dialect, if it has one.
func For(id dialect.ID) (Executor, bool) {
	switch id {
	case dialect.JavaScript:
		return NewJS(), true
	case dialect.Go:
		return NewGo(), true
	}
	return nil, false
}

// logBuffer collects printed lines. It is written by the interpreter
// goroutine and read by the caller on timeout.
type logBuffer struct {
	mu      sync.Mutex
	lines   []string
	partial strings.Builder
}

// WriteLine appends a complete line.
func (b *logBuffer) WriteLine(s string) {
	b.Write(s + "\n")
}

// Write appends text, splitting it into lines at newlines.
func (b *logBuffer) Write(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.partial.WriteString(s)
			return
		}
		b.partial.WriteString(s[:i])
		b.lines = append(b.lines, b.partial.String())
		b.partial.Reset()
		s = s[i+1:]
	}
}

// Lines returns a copy of the lines written so far, including an
// unterminated last line.
func (b *logBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines), len(b.lines)+1)
	copy(out, b.lines)
	if b.partial.Len() > 0 {
		out = append(out, b.partial.String())
	}
	return out
}

// settle runs fn under a deadline and returns exactly one result. When the
// deadline passes first, the logs printed so far are returned and whatever
// fn produces later is dropped.
func settle(ctx context.Context, timeout time.Duration, buf *logBuffer, fn func(ctx context.Context) Result) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- Result{Logs: buf.Lines(), Error: fmt.Sprintf("sandbox panic: %v", p)}
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		res := Result{Logs: buf.Lines()}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
			res.Error = fmt.Sprintf("execution timed out after %s", timeout)
		} else {
			res.Error = fmt.Sprintf("execution cancelled: %v", ctx.Err())
		}
		log.Warn().Dur("timeout", timeout).Bool("timed_out", res.TimedOut).Msg("sandbox run abandoned")
		return res
	}
}
