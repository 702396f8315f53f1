// Package transcript defines the provider-independent transcription result and
// its on-disk JSON format.
package transcript
