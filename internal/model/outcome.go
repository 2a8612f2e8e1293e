package model

// CancelledMessage is the error text carried by a cancellation outcome,
// distinguishable from ordinary strategy failures.
const CancelledMessage = "download cancelled by user"

// DownloadOutcome is the structured result of one top-level download
// request. Exactly one of {combined FilePath, VideoPath+AudioPath pair,
// failure} holds at completion.
type DownloadOutcome struct {
	Success   bool
	Cancelled bool
	Error     string

	FilePath  string // single combined (or audio) deliverable
	VideoPath string // set with AudioPath when SeparateAV
	AudioPath string

	// SeparateAV marks a video+audio pair that needs an external merge.
	SeparateAV bool

	// NeedsExtraction marks a combined file from which the caller must
	// demux audio with an external tool.
	NeedsExtraction bool

	// NeedsAudioExtraction marks a video-only file pending a
	// supplementary audio fetch.
	NeedsAudioExtraction bool

	FileSize int64
}

// NewFailedOutcome returns a terminal failure carrying a human-readable
// error message.
func NewFailedOutcome(msg string) DownloadOutcome {
	return DownloadOutcome{Error: msg}
}

// NewCancelledOutcome returns the distinct cancelled-by-user outcome.
func NewCancelledOutcome() DownloadOutcome {
	return DownloadOutcome{Cancelled: true, Error: CancelledMessage}
}
