// Package stage defines the handler contract shared by the fetch, transcribe,
// and export stages.
package stage
