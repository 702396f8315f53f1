// Package fetch implements the audio download stage on top of the yt-dlp
// client.
package fetch
