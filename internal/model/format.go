package model

import "strings"

// Codec sentinels used by extraction backends to mark an absent stream.
// Backends are inconsistent: some report the literal string "none", some
// "null", some an empty string, and some omit the field entirely (which
// decodes to an empty string).
const CodecNone = "none"

// HasCodec reports whether a codec field names a real codec rather than
// one of the absent-stream sentinels.
func HasCodec(codec string) bool {
	return codec != "" && codec != "none" && codec != "null"
}

// StreamDescriptor is one entry in the raw catalog returned by the
// extraction backend's metadata query. JSON tags follow the backend's
// info-dict field names.
type StreamDescriptor struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	FPS            float64 `json:"fps"`
	TBR            float64 `json:"tbr"` // total bitrate, kbps
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	Protocol       string  `json:"protocol"`
	FormatNote     string  `json:"format_note"`
	URL            string  `json:"url"`
}

// Size returns the exact filesize when known, falling back to the
// backend's approximation.
func (d StreamDescriptor) Size() int64 {
	if d.Filesize > 0 {
		return d.Filesize
	}
	return d.FilesizeApprox
}

// NormalizedFormat is the derived, sortable view of one stream descriptor,
// or of a synthesized video+audio pairing of two descriptors.
type NormalizedFormat struct {
	FormatID      string // composite "{video_id}+{audio_id}" when paired
	VideoFormatID string // set only on paired formats
	AudioFormatID string // set only on paired formats
	Ext           string
	Resolution    string
	Height        int // sort key; synthetic for unknown resolutions
	Width         int
	QualityLabel  string
	Filesize      int64 // combined when paired
	VCodec        string
	ACodec        string
	HasVideo      bool
	HasAudio      bool
	FPS           float64
	FormatNote    string
	TBR           float64 // combined when paired
	URL           string
	IsDASHPaired  bool
}

// MediaInfo is the raw metadata-query result handed back by the
// extraction backend.
type MediaInfo struct {
	Title       string
	Uploader    string
	Duration    float64 // seconds
	Thumbnail   string
	Description string
	Formats     []StreamDescriptor
}

// VideoInfo is the public info-query result. Error is set instead of
// returning a raw failure so hosts always receive a structured value.
type VideoInfo struct {
	Title       string
	Uploader    string
	Duration    float64 // seconds
	Thumbnail   string
	Description string
	Formats     []NormalizedFormat
	Error       string
}

// DisplayTitle returns the title, or the page URL when the extractor
// could not produce one.
func (vi VideoInfo) DisplayTitle(url string) string {
	if vi.Title != "" && !strings.HasPrefix(vi.Title, "http") {
		return vi.Title
	}
	return url
}
