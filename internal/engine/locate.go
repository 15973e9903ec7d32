package engine

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

// ErrNotFound is returned when no engine executable can be found.
var ErrNotFound = errors.New("stockfish executable not found")

// Command is the executable name looked up on PATH.
const Command = "stockfish"

// DistroPaths are the locations distribution packages install to. Debian
// and Ubuntu place games in /usr/games, which is often not on PATH.
var DistroPaths = []string{
	"/usr/games/stockfish",
	"/usr/bin/stockfish",
	"/usr/local/bin/stockfish",
}

// LookPathFunc resolves a command name against PATH.
type LookPathFunc func(file string) (string, error)

// Locate returns the first usable engine: Command on PATH, then
// DistroPaths, then each of extra in order.
func Locate(lookPath LookPathFunc, extra ...string) (string, error) {
	if lookPath != nil {
		if path, err := lookPath(Command); err == nil {
			return path, nil
		}
	}

	candidates := append(append([]string{}, DistroPaths...), extra...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if IsExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w (searched PATH and %d locations)", ErrNotFound, len(candidates))
}

// IsExecutable reports whether path is a regular file with an execute bit.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
