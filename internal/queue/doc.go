// Package queue persists the transcription index in SQLite. Each video tracked
// by the tool has one row whose status advances through the fetch, transcribe,
// and export stages. The index is the source of truth for idempotent re-runs;
// an index.json snapshot is exported for downstream consumers.
package queue
