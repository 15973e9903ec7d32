// Package engine finds an installed Stockfish executable and talks to it
// over the UCI protocol to learn its identity and version.
package engine
