// Package subprocess runs the external audio tools (ffmpeg, edge-tts) with
// a timeout, stdin wired before start, and a graceful interrupt on cancel.
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single invocation when the caller's context has
// no deadline.
const DefaultTimeout = 30 * time.Second

// ErrNotInstalled is returned when the requested binary is not on PATH.
var ErrNotInstalled = errors.New("binary not found in PATH")

// Runner executes external commands.
type Runner struct {
	// Timeout applies when the context has no deadline. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// KillDelay is how long an interrupted process may take to exit before
	// it is killed.
	KillDelay time.Duration
}

// Available reports whether name resolves on PATH.
func Available(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	return nil
}

// Run starts name with args, feeds it stdin (which may be nil) and returns
// its standard output.
func (r Runner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	// stdin is set before Start so the child never races an empty pipe.
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	} else {
		cmd.Stdin = strings.NewReader("")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Ask politely first, then kill.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = r.KillDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = 100 * time.Millisecond
	}

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", name, ctxErr)
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}
