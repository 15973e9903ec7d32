package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds the whole UCI handshake.
const DefaultProbeTimeout = 10 * time.Second

// Identity is what an engine reports about itself during the handshake.
type Identity struct {
	Name    string
	Author  string
	Version string // canonical semver, empty when Name carries none
}

func (id *Identity) String() string {
	if id.Author == "" {
		return id.Name
	}
	return id.Name + " by " + id.Author
}

// Probe starts the engine at path, performs the UCI handshake and quits it.
// A context without a deadline gets DefaultProbeTimeout.
func Probe(ctx context.Context, path string) (*Identity, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.WaitDelay = time.Second

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open engine stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	id, handshakeErr := handshake(stdin, stdout)
	// quit is best effort; a dead engine is reported by handshake or Wait
	_, _ = io.WriteString(stdin, "quit\n")
	_ = stdin.Close()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("uci handshake: %w", ctx.Err())
	}
	if handshakeErr != nil {
		return nil, handshakeErr
	}
	if waitErr != nil {
		return nil, fmt.Errorf("engine exit: %w", waitErr)
	}
	return id, nil
}

// handshake sends "uci" and reads until "uciok".
func handshake(w io.Writer, r io.Reader) (*Identity, error) {
	if _, err := io.WriteString(w, "uci\n"); err != nil {
		return nil, fmt.Errorf("send uci: %w", err)
	}

	id := &Identity{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "uciok":
			if id.Name == "" {
				return nil, fmt.Errorf("engine did not report its name")
			}
			if v, err := ParseVersion(id.Name); err == nil {
				id.Version = v
			}
			return id, nil
		case strings.HasPrefix(line, "id name "):
			id.Name = strings.TrimSpace(strings.TrimPrefix(line, "id name "))
		case strings.HasPrefix(line, "id author "):
			id.Author = strings.TrimSpace(strings.TrimPrefix(line, "id author "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read engine output: %w", err)
	}
	return nil, fmt.Errorf("engine closed output before uciok")
}
