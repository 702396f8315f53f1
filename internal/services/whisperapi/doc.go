// Package whisperapi implements the hosted transcription provider backed by
// OpenAI-compatible Whisper endpoints.
package whisperapi
