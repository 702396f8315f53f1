// Package workflow orchestrates the batch: it seeds the index from a video
// list and drives each item through fetch, transcribe, and export, continuing
// past per-item failures.
package workflow
