package backend

// Package backend adapts the go-ytdlp wrapper around the yt-dlp binary
// to the download.Backend interface.
