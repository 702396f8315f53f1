// Package ytdlp invokes the yt-dlp binary to download the audio track of a
// video into the staging area.
package ytdlp
