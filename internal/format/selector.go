package format

// SelectionStrategy is an ordered list of selector expressions understood
// by the extraction backend. The first entry is always the most preferred;
// each expression carries its own internal fallback chain.
type SelectionStrategy []string

// qualitySelectors maps abstract quality tokens to selector expressions.
// Merged-format requests are avoided on purpose: merging is handled
// externally, never by the backend.
var qualitySelectors = map[string]string{
	"2160p": "best[height<=2160]/best",
	"1440p": "best[height<=1440]/best",
	"1080p": "best[height<=1080]/best",
	"720p":  "best[height<=720]/best",
	"480p":  "best[height<=480]/best",
	"360p":  "best[height<=360]/best",

	"worst":     "worst",
	"best":      "best",
	"audio_mp3": "bestaudio[ext=mp3]/bestaudio",
	"audio_aac": "bestaudio[ext=m4a]/bestaudio[ext=aac]/bestaudio",
}

// genericFallbacks are appended after the quality-based expression so a
// request still yields something when the preferred shape is unavailable.
var genericFallbacks = []string{
	"bestvideo+bestaudio/best",
	"best",
}

// StrategiesFor maps a quality token to an ordered list of candidate
// selector expressions. Unknown tokens resolve to the "best" strategy.
func StrategiesFor(quality string) SelectionStrategy {
	expr, ok := qualitySelectors[quality]
	if !ok {
		expr = qualitySelectors["best"]
	}

	strategy := SelectionStrategy{expr}
	for _, fallback := range genericFallbacks {
		if fallback != expr {
			strategy = append(strategy, fallback)
		}
	}
	return strategy
}

// AudioOnlyExpressions is the first audio tier: selectors constrained to
// audio-only streams, preferred containers first.
func AudioOnlyExpressions() SelectionStrategy {
	return SelectionStrategy{
		"bestaudio",
		"bestaudio[ext=m4a]/bestaudio[ext=aac]/bestaudio[ext=mp3]/bestaudio",
		"bestaudio[ext=m4a]/bestaudio",
		"bestaudio[ext=aac]/bestaudio",
		"bestaudio[ext=mp3]/bestaudio",
		"bestaudio[ext=opus]/bestaudio",
		"bestaudio[ext=ogg]/bestaudio",
		"bestaudio[protocol*=dash]/bestaudio",
		"bestaudio[protocol*=m3u8]/bestaudio",
	}
}

// DASHAudioExpressions is the second audio tier: selectors that target
// segmented-protocol audio tracks. They overlap the first tier's generic
// fallbacks but some backends resolve them differently when protocol
// hints are present.
func DASHAudioExpressions() SelectionStrategy {
	return SelectionStrategy{
		"bestaudio",
		"bestaudio[protocol*=dash]/bestaudio",
		"bestaudio[protocol*=m3u8]/bestaudio",
		"bestaudio[protocol*=dash][ext=m4a]/bestaudio[protocol*=dash]/bestaudio",
		"bestaudio[protocol*=m3u8][ext=m4a]/bestaudio[protocol*=m3u8]/bestaudio",
		"bestaudio[ext=m4a]/bestaudio",
		"bestaudio[ext=aac]/bestaudio",
		"bestaudio[ext=mp3]/bestaudio",
	}
}

// SupplementaryAudioExpressions is the chain used when a video download
// yielded a file without audio and a separate audio fetch is needed.
func SupplementaryAudioExpressions() SelectionStrategy {
	return SelectionStrategy{
		"bestaudio",
		"bestaudio[ext=m4a]/bestaudio[ext=aac]/bestaudio[ext=mp3]/bestaudio",
		"bestaudio[protocol*=dash]/bestaudio",
		"bestaudio[protocol*=m3u8]/bestaudio",
		"bestaudio[ext=m4a]/bestaudio",
		"bestaudio[ext=aac]/bestaudio",
		"bestaudio[ext=mp3]/bestaudio",
	}
}

// PreferredAudioExpression maps a requested audio container to a selector
// biased toward it. Unknown or empty formats yield no bias.
func PreferredAudioExpression(audioFormat string) string {
	switch audioFormat {
	case "mp3":
		return "bestaudio[ext=mp3]/bestaudio"
	case "aac", "m4a":
		return "bestaudio[ext=m4a]/bestaudio[ext=aac]/bestaudio"
	}
	return ""
}

// ExtractionFallbackExpression caps the last-resort combined download at a
// modest resolution to conserve bandwidth when audio must be demuxed from
// a video container afterwards.
const ExtractionFallbackExpression = "best[height<=720]"
