package download

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mediafetch/mediafetch/internal/model"
)

// containersWithAudio are container extensions assumed to carry an audio
// track even when the backend reports no audio codec for the file.
var containersWithAudio = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
}

// pureAudioExtensions are extensions that never carry video.
var pureAudioExtensions = map[string]bool{
	".mp3": true,
	".aac": true,
	".m4a": true,
	".wav": true,
	".ogg": true,
}

// classify inspects a completed single-file download and decides which
// outcome shape it maps to. Codec metadata wins when present; otherwise
// the container extension stands in for it. A completed file is always a
// success: a video-only file is reported as such and flagged for
// supplementary audio rather than failed.
func classify(fs afero.Fs, path, vcodec, acodec string) model.DownloadOutcome {
	ext := strings.ToLower(filepath.Ext(path))

	hasAudio := model.HasCodec(acodec) || containersWithAudio[ext]
	hasVideo := model.HasCodec(vcodec) || !pureAudioExtensions[ext]

	out := model.DownloadOutcome{Success: true}
	if size, err := fileSize(fs, path); err == nil {
		out.FileSize = size
	}

	switch {
	case hasVideo && hasAudio:
		out.FilePath = path
	case hasVideo:
		out.VideoPath = path
		out.SeparateAV = true
		out.NeedsAudioExtraction = true
	default:
		out.FilePath = path
	}
	return out
}

func fileSize(fs afero.Fs, path string) (int64, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
