// Package assemblyai implements the hosted transcription provider backed by
// the AssemblyAI REST API (upload, submit, poll).
package assemblyai
