package command_gateway

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// DefaultOutputLimit caps each of stdout and stderr.
const DefaultOutputLimit = 4 << 20

// RunOutput is what a Runner reports about a finished process.
type RunOutput struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	Truncated bool // stdout or stderr exceeded the output limit.
}

// Runner spawns a process and waits for it. It must stop the process, and everything the process
// started, when ctx is done.
type Runner interface {
	Run(ctx context.Context, name string, args []string, outputLimit int) (RunOutput, error)
}

// ExecRunner runs processes with os/exec. Arguments are passed as a vector; no shell is involved.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for the output pipes after the process was killed.
	WaitDelay time.Duration
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{WaitDelay: 2 * time.Second}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args []string, outputLimit int) (RunOutput, error) {
	if outputLimit <= 0 {
		outputLimit = DefaultOutputLimit
	}
	stdout := &cappedBuffer{limit: outputLimit}
	stderr := &cappedBuffer{limit: outputLimit}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = r.WaitDelay
	killProcessTreeOnCancel(cmd)

	err := cmd.Run()
	out := RunOutput{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.truncated || stderr.truncated,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		out.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return out, ErrTimeout
		}
		return out, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	out.ExitCode = -1
	return out, fmt.Errorf("%s: %v: %w", name, err, ErrStartFailed)
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.limit - len(b.buf)
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf = append(b.buf, p[:remaining]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}
