// Package config loads the installer configuration from an optional Lua file.
//
// The file is evaluated in a sandboxed gopher-lua VM with a read-only
// `platform` table describing the host, so a single config can pick the
// right release asset for every machine it is deployed to:
//
//	stockfish = {
//	  version = "sf_17",
//	  asset = platform.cpu.avx2 and "stockfish-ubuntu-x86-64-avx2.tar"
//	    or "stockfish-ubuntu-x86-64.tar",
//	  package_manager = "auto",
//	}
//
// Every field is optional; anything left out keeps its Default() value. A
// missing file is not an error for Load. Unknown fields and fields of the
// wrong type are rejected with a *ParseError, and the merged result is
// checked by Validate before it is returned.
//
// The sandbox removes os, io, module loading, the debug library and raw
// metatable access. Evaluation is bounded by the context deadline, or by
// DefaultParseTimeout when the context has none.
package config
