package testutil

import (
	"fmt"
	"testing"
)

// UCIScript returns a shell body that answers the UCI handshake as an
// engine called name.
func UCIScript(name string) string {
	return fmt.Sprintf(`while read -r line; do
  case "$line" in
    uci) echo "id name %s"; echo "id author the Stockfish developers"; echo "uciok" ;;
    isready) echo "readyok" ;;
    quit) exit 0 ;;
  esac
done`, name)
}

// FakeEngine writes a scripted UCI engine into dir and returns its path.
func FakeEngine(t *testing.T, dir, file, name string) string {
	t.Helper()
	return FakeExecutable(t, dir, file, UCIScript(name))
}
