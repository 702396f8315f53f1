// Package logging wraps log/slog with the project's handler setup, attribute
// helpers, and context-derived correlation fields.
package logging
