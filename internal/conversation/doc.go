// Package conversation reconstructs ordered speaker turns from diarized
// transcripts and persists them next to the transcript files.
package conversation
