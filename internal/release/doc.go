// Package release fetches a Stockfish release archive and pulls the engine
// executable out of it.
//
// # Fetch pipeline
//
//  1. Release.URL builds <base>/<tag>/<asset>.
//  2. Downloader.DownloadToFile streams the body to <dest>.tmp and renames it
//     into place, retrying transient failures with exponential backoff.
//  3. Verifier checks a pinned SHA256 digest and/or a detached OpenPGP
//     signature when the caller has configured one.
//  4. Extractor.ExtractMember sniffs the archive format (tar, tar.gz, zip)
//     and writes the single executable member into a directory.
//
// Stockfish does not publish checksums or signatures next to its release
// assets, so verification is opt-in.
package release
