package model

import "fmt"

// ProgressStatus represents the phase of a download reported by the
// extraction backend.
type ProgressStatus string

const (
	// ProgressDownloading means bytes are being transferred
	ProgressDownloading ProgressStatus = "downloading"

	// ProgressFinished means one file completed
	ProgressFinished ProgressStatus = "finished"

	// ProgressError means the backend reported a download error
	ProgressError ProgressStatus = "error"
)

// String returns the string representation of ProgressStatus
func (ps ProgressStatus) String() string {
	return string(ps)
}

// IsTerminal returns true for statuses that must bypass throttling.
func (ps ProgressStatus) IsTerminal() bool {
	return ps == ProgressFinished || ps == ProgressError
}

// Progress is one throttled progress event delivered to the host's sink.
type Progress struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64   // exact or estimated; 0 when unknown
	Speed           float64 // bytes per second
	ETASec          int     // -1 when unknown
	Filename        string
}

// Percent returns completion in [0,100], or 0 when the total is unknown.
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
}

// ETAString returns the ETA formatted as hh:mm:ss, or "—" if unknown
func (p Progress) ETAString() string {
	if p.ETASec <= 0 {
		return "—"
	}

	hours := p.ETASec / 3600
	minutes := (p.ETASec % 3600) / 60
	seconds := p.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
