// Package export implements the final stage: publishing transcripts and
// conversations into the library and cleaning up staging.
package export
