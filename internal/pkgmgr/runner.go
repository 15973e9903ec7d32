package pkgmgr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// CommandError is returned when a command exits unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if tail := lastLine(e.Output); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands on the host.
type ExecRunner struct {
	Logger *slog.Logger
}

// Run executes name with args, inheriting the process environment plus env.
// Output is logged line by line at debug level once the command finishes.
func (r *ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Debug("running command", "cmd", name, "args", args)
	err := cmd.Run()

	scanner := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for scanner.Scan() {
		logger.Debug(scanner.Text(), "cmd", name)
	}

	if err != nil {
		if ctx.Err() != nil {
			return out.Bytes(), fmt.Errorf("run %s: %w", name, ctx.Err())
		}
		cmdErr := &CommandError{
			Args:     append([]string{name}, args...),
			ExitCode: -1,
			Output:   out.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return out.Bytes(), cmdErr
	}

	return out.Bytes(), nil
}

// lastLine returns the last non-empty line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
