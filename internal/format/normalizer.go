package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/mediafetch/mediafetch/internal/model"
)

// Container extension sets used by the codec remediation heuristic. Generic
// extractors often report null codecs for direct file links; the extension
// is the only signal left.
var (
	videoExtensions = []string{"mp4", "webm", "mkv", "avi", "mov", "flv", "m4v", "mpg", "mpeg", "wmv"}
	audioExtensions = []string{"mp3", "aac", "m4a", "wav", "ogg", "opus", "flac"}
)

// Segmented delivery protocols that split audio and video into separate
// tracks the client must pair.
var segmentedProtocols = []string{"http_dash_segments", "m3u8_native", "m3u8"}

// Quality labels for formats without a measured resolution.
const (
	LabelOriginalQuality = "Original Quality"
	LabelAudioOnly       = "Audio Only"
)

// originalQualityHeight sorts unknown-resolution video formats before all
// measured ones.
const originalQualityHeight = 9999

// CatalogAnalysis summarizes split-stream indicators in a raw catalog,
// used to pick between the simple and the DASH-oriented strategy path.
type CatalogAnalysis struct {
	HasDASHStreams bool
	HasAudioOnly   bool
	HasVideoOnly   bool
}

// Normalize converts a raw stream catalog into a normalized, sortable
// format list. Descriptors resolving to neither video nor audio are
// dropped. When the catalog carries exactly one segmented audio-only track
// and at least one video-only track, a combined virtual format is
// synthesized per distinct video height. Unpaired video-only descriptors
// are omitted: without a merge step they are not independently playable.
func Normalize(descriptors []model.StreamDescriptor) []model.NormalizedFormat {
	var formats []model.NormalizedFormat
	var videoOnly, dashAudio []model.StreamDescriptor

	for _, d := range descriptors {
		hasVideo, hasAudio := resolvePresence(d)
		switch {
		case !hasVideo && !hasAudio:
			// neither stream; dropped
		case hasVideo && !hasAudio:
			videoOnly = append(videoOnly, d)
		case !hasVideo && isSegmentedAudio(d):
			dashAudio = append(dashAudio, d)
		default:
			formats = append(formats, mapDescriptor(d, hasVideo, hasAudio))
		}
	}

	if len(dashAudio) == 1 && len(videoOnly) > 0 {
		formats = append(formats, pairWithDASHAudio(videoOnly, dashAudio[0])...)
	} else {
		for _, d := range dashAudio {
			formats = append(formats, mapDescriptor(d, false, true))
		}
	}

	// Video before audio-only, larger heights first, catalog order on ties.
	sort.SliceStable(formats, func(i, j int) bool {
		if formats[i].HasVideo != formats[j].HasVideo {
			return formats[i].HasVideo
		}
		return formats[i].Height > formats[j].Height
	})

	return formats
}

// Analyze probes the raw catalog for split-stream indicators. Unlike
// Normalize it works on raw codec fields without remediation, since the
// question is what the backend will actually deliver per track.
func Analyze(descriptors []model.StreamDescriptor) CatalogAnalysis {
	var analysis CatalogAnalysis
	for _, d := range descriptors {
		hasVideo := model.HasCodec(d.VCodec)
		hasAudio := model.HasCodec(d.ACodec)

		if strings.Contains(strings.ToLower(d.FormatID), "dash") || lo.Contains(segmentedProtocols, d.Protocol) {
			analysis.HasDASHStreams = true
		}
		if hasAudio && !hasVideo {
			analysis.HasAudioOnly = true
		}
		if hasVideo && !hasAudio {
			analysis.HasVideoOnly = true
		}
	}
	return analysis
}

// resolvePresence derives the video/audio flags from the codec fields,
// applying the extension remediation heuristic for descriptors whose
// codecs the extractor could not introspect.
func resolvePresence(d model.StreamDescriptor) (hasVideo, hasAudio bool) {
	hasVideo = model.HasCodec(d.VCodec)
	hasAudio = model.HasCodec(d.ACodec)

	switch {
	case lo.Contains(videoExtensions, d.Ext) && !hasVideo && !hasAudio:
		// Direct file link with unknown codecs; assume a full video file.
		hasVideo = true
		hasAudio = true
	case lo.Contains(audioExtensions, d.Ext) && !hasAudio:
		hasAudio = true
	}
	return hasVideo, hasAudio
}

// isSegmentedAudio reports whether an audio-only descriptor belongs to a
// DASH/HLS track set, by protocol or by DASH markers in its id or note.
func isSegmentedAudio(d model.StreamDescriptor) bool {
	if lo.Contains(segmentedProtocols, d.Protocol) {
		return true
	}
	return strings.Contains(strings.ToLower(d.FormatNote), "dash") ||
		strings.Contains(strings.ToLower(d.FormatID), "dash")
}

// pairWithDASHAudio synthesizes one combined virtual format per distinct
// height among the video-only descriptors, pairing the highest-bitrate
// track of each height with the single segmented audio track.
func pairWithDASHAudio(videoOnly []model.StreamDescriptor, audio model.StreamDescriptor) []model.NormalizedFormat {
	groups := lo.GroupBy(videoOnly, func(d model.StreamDescriptor) int {
		return d.Height
	})

	heights := lo.Keys(groups)
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	paired := make([]model.NormalizedFormat, 0, len(heights))
	for _, height := range heights {
		best := lo.MaxBy(groups[height], func(a, b model.StreamDescriptor) bool {
			return a.TBR > b.TBR
		})

		ext := best.Ext
		if ext == "" {
			ext = "mp4"
		}

		var resolution string
		if height > 0 && best.Width > 0 {
			resolution = fmt.Sprintf("%dx%d", best.Width, height)
		}

		paired = append(paired, model.NormalizedFormat{
			FormatID:      fmt.Sprintf("%s+%s", best.FormatID, audio.FormatID),
			VideoFormatID: best.FormatID,
			AudioFormatID: audio.FormatID,
			Ext:           ext,
			Resolution:    resolution,
			Height:        height,
			Width:         best.Width,
			QualityLabel:  fmt.Sprintf("%dp", height),
			Filesize:      best.Size() + audio.Size(),
			VCodec:        best.VCodec,
			ACodec:        audio.ACodec,
			HasVideo:      true,
			HasAudio:      true,
			FPS:           best.FPS,
			FormatNote:    fmt.Sprintf("DASH %dp (Video+Audio)", height),
			TBR:           best.TBR + audio.TBR,
			URL:           best.URL,
			IsDASHPaired:  true,
		})
	}
	return paired
}

// mapDescriptor converts a single descriptor to its normalized view.
func mapDescriptor(d model.StreamDescriptor, hasVideo, hasAudio bool) model.NormalizedFormat {
	height := d.Height
	var resolution, qualityLabel string

	switch {
	case d.Height > 0 && d.Width > 0:
		resolution = fmt.Sprintf("%dx%d", d.Width, d.Height)
		qualityLabel = fmt.Sprintf("%dp", d.Height)
	case hasVideo:
		qualityLabel = LabelOriginalQuality
		height = originalQualityHeight
	}

	if !hasVideo && hasAudio {
		qualityLabel = LabelAudioOnly
		resolution = "Audio"
		height = 0
	}

	return model.NormalizedFormat{
		FormatID:     d.FormatID,
		Ext:          d.Ext,
		Resolution:   resolution,
		Height:       height,
		Width:        d.Width,
		QualityLabel: qualityLabel,
		Filesize:     d.Size(),
		VCodec:       d.VCodec,
		ACodec:       d.ACodec,
		HasVideo:     hasVideo,
		HasAudio:     hasAudio,
		FPS:          d.FPS,
		FormatNote:   d.FormatNote,
		TBR:          d.TBR,
		URL:          d.URL,
	}
}
