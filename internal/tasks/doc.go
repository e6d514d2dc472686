// Package tasks runs bulk favourites operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [BulkImport] : Add many favourites through a worker pool
//     - Drops rows that repeat an earlier symbol
//     - Paces adds with a token-bucket rate limiter
//     - Returns per-row results; failures never stop the run
//
//  2. [Export] : Write the current favourites to a file
//     - Formats: csv, markdown, txt, json (see package formatter)
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Dependencies
//
// Operations take small interfaces ([Adder], [Lister]) that favourites.Repository
// satisfies, so the fail-open and unauthenticated rules of the repository apply
// to every row.
package tasks
