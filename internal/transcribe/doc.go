// Package transcribe implements the transcription stage: provider selection,
// submission with retry on transient failures, and staging of raw transcripts.
package transcribe
