// Package textutil provides filename sanitization for filesystem paths
// derived from video titles and identifiers.
package textutil
