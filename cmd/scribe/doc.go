// Command scribe transcribes batches of videos: it downloads audio with
// yt-dlp, submits it to a hosted speech-to-text provider, and maintains a
// resumable transcript library.
package main
