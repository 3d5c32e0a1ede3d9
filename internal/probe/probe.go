// Package probe runs the system traceroute command and captures its output.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrLaunch is returned when the traceroute process could not be started.
	ErrLaunch = errors.New("traceroute could not be started")
	// ErrTimeout is returned when traceroute did not finish in time.
	ErrTimeout = errors.New("traceroute timed out")
)

// Runner produces raw traceroute output for a destination.
type Runner interface {
	Run(ctx context.Context, destination string) (string, error)
}

// ExitError reports a traceroute process that exited with a non-zero code.
type ExitError struct {
	Stderr string
	Code   int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("traceroute exited with code %d: %s", e.Code, strings.TrimSpace(e.Stderr))
}

// Traceroute executes an external traceroute binary.
type Traceroute struct {
	// Binary is the command name or path, "traceroute" when empty.
	Binary string
	// Timeout bounds the run; zero waits indefinitely.
	Timeout time.Duration
}

// Run invokes the binary with destination as its only argument.
// The destination is passed as-is without a shell.
func (t Traceroute) Run(ctx context.Context, destination string) (string, error) {
	binary := t.Binary
	if binary == "" {
		binary = "traceroute"
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, destination)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Info().
		Str("destination", destination).
		Str("binary", binary).
		Dur("timeout", t.Timeout).
		Msg("Running traceroute")

	start := time.Now()
	err := cmd.Run()

	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Error().Dur("timeout", t.Timeout).Msg("Traceroute timed out")
			return "", fmt.Errorf("%w after %s", ErrTimeout, t.Timeout)
		}
		log.Error().Err(ctx.Err()).Msg("Traceroute cancelled")
		return "", ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr := &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
			log.Error().
				Int("code", perr.Code).
				Str("stderr", strings.TrimSpace(perr.Stderr)).
				Msg("Traceroute error")
			return "", perr
		}

		log.Error().Err(err).Msg("Error running traceroute")
		return "", fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	log.Debug().
		Int("bytes", stdout.Len()).
		Dur("duration", time.Since(start)).
		Msg("Traceroute finished")

	return stdout.String(), nil
}
