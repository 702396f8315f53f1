// Package services holds cross-cutting helpers shared by the service clients:
// error classification markers and context annotation for correlated logging.
package services
