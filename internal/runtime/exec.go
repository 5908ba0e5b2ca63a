package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runs commands as host processes.
//
// The zero value is ready to use. Runs are independent; any number may be
// in flight at once.
type Exec struct {
	Logger *slog.Logger // Receives streamed output lines. Nil uses [slog.Default].
}

// Runs cmd and waits for it to exit.
//
// A nonzero exit status is reported in the result with a nil error. An error
// wrapping [ErrSpawn] is returned only if the process could not be started.
// There is no timeout; cancelling ctx kills the process.
func (e Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("task", cmd.label())

	logger.Info("running command", "command", cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}

	var stdout, stderr bytes.Buffer
	outLog := newLineWriter(logger, "stdout")
	errLog := newLineWriter(logger, "stderr")
	c.Stdout = io.MultiWriter(&stdout, outLog)
	c.Stderr = io.MultiWriter(&stderr, errLog)

	start := time.Now()
	err := c.Run()
	outLog.Flush()
	errLog.Flush()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSpawn, cmd.Name, err)
		}
		exitCode = exitErr.ExitCode()
	}

	logger.Debug("command finished", "exit", exitCode, "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Context:  cmd.Context,
		Command:  cmd.Name,
		Args:     append([]string(nil), cmd.Args...),
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		ExitCode: exitCode,
	}, nil
}
