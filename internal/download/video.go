package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mediafetch/mediafetch/internal/config"
	"github.com/mediafetch/mediafetch/internal/format"
	"github.com/mediafetch/mediafetch/internal/model"
)

// Output templates handed to the backend. The DASH template embeds the
// format id so split tracks land under reconstructable names.
const (
	defaultOutputTemplate   = "%(title)s.%(ext)s"
	dashOutputTemplate      = "%(title)s.f%(format_id)s.%(ext)s"
	audioSupplementTemplate = "%(title)s_audio.%(ext)s"
)

const errNoOutputFiles = "download completed but no output files were found"

// Extensions probed when reconstructing or scanning for split DASH tracks.
// "webm" is in both lists: probeTrack disambiguates it by track id, while
// the directory scan resolves it as video.
var (
	dashVideoExts = []string{"mp4", "webm", "mkv"}
	dashAudioExts = []string{"m4a", "webm", "mp3", "aac", "ogg"}
)

// videoOrchestrator runs the video strategy loop: try each candidate
// selector in order, classify whatever the first successful attempt
// produced, and recover split DASH output into a video+audio pair.
type videoOrchestrator struct {
	backend Backend
	opts    config.Options
	outDir  string
	fs      afero.Fs
	token   *CancelToken
	log     *logrus.Entry
}

func (o *videoOrchestrator) run(ctx context.Context, url, quality string, progress *throttler) model.DownloadOutcome {
	if o.token.Cancelled() {
		return model.NewCancelledOutcome()
	}

	// Probe the catalog first so the attempt loop knows whether split
	// DASH handling applies. A failed probe degrades to the plain path.
	var analysis format.CatalogAnalysis
	if info, err := o.backend.QueryInfo(ctx, url); err != nil {
		o.log.WithError(err).Warn("metadata probe failed, assuming plain streams")
	} else {
		analysis = format.Analyze(info.Formats)
	}
	dash := analysis.HasDASHStreams || analysis.HasVideoOnly

	strategies := format.StrategiesFor(quality)
	if !o.opts.EnableFallbacks {
		strategies = strategies[:1]
	}

	var lastErr string
	for i, selector := range strategies {
		if o.token.Cancelled() {
			return model.NewCancelledOutcome()
		}

		log := o.log.WithFields(logrus.Fields{"strategy": i + 1, "selector": selector})
		log.Debug("trying download strategy")

		outcome, errMsg := o.attempt(ctx, url, selector, dash, progress)
		if outcome.Success {
			if outcome.NeedsAudioExtraction && outcome.AudioPath == "" {
				if audioPath, ok := o.downloadSupplementaryAudio(ctx, url, progress); ok {
					outcome.AudioPath = audioPath
					outcome.SeparateAV = true
					outcome.NeedsAudioExtraction = false
				}
			}
			return outcome
		}

		lastErr = errMsg
		log.WithField("error", errMsg).Debug("download strategy failed")
	}

	if !o.opts.EnableFallbacks {
		return model.NewFailedOutcome(fmt.Sprintf("primary download strategy failed: %s", lastErr))
	}
	return model.NewFailedOutcome(fmt.Sprintf("all download strategies failed; last error: %s", lastErr))
}

// attempt executes one selector to completion and maps the result to an
// outcome. A non-success return carries the error text for the caller's
// fallback accounting.
func (o *videoOrchestrator) attempt(ctx context.Context, url, selector string, dash bool, progress *throttler) (model.DownloadOutcome, string) {
	template := defaultOutputTemplate
	if dash {
		template = dashOutputTemplate
	}

	report, err := o.backend.Download(ctx, o.request(url, selector, template, dash, progress))
	if err != nil {
		return model.DownloadOutcome{}, err.Error()
	}

	if dash {
		if outcome, ok := o.recoverDASH(report); ok {
			return outcome, ""
		}
		return model.DownloadOutcome{}, errNoOutputFiles
	}

	path, file, ok := o.firstExistingFile(report)
	if !ok {
		return model.DownloadOutcome{}, errNoOutputFiles
	}
	return classify(o.fs, path, file.VCodec, file.ACodec), ""
}

func (o *videoOrchestrator) request(url, selector, template string, keepVideo bool, progress *throttler) Request {
	req := Request{
		URL:                 url,
		Selector:            selector,
		OutputTemplate:      filepath.Join(o.outDir, template),
		KeepVideo:           keepVideo,
		Retries:             o.opts.Retries,
		FragmentRetries:     o.opts.FragmentRetries,
		SocketTimeout:       o.opts.SocketTimeout(),
		ConcurrentFragments: o.opts.ConcurrentFragments,
		Headers:             o.opts.HTTPHeaders,
	}
	if progress != nil {
		req.OnProgress = progress.Forward
	}
	return req
}

// firstExistingFile returns the first reported file that actually exists
// on disk, together with its metadata.
func (o *videoOrchestrator) firstExistingFile(report *Report) (string, ReportedFile, bool) {
	for _, f := range report.Files {
		if _, err := o.fs.Stat(f.Path); err == nil {
			return f.Path, f, true
		}
	}
	return "", ReportedFile{}, false
}

// recoverDASH locates the output of a split-track download. Backends are
// inconsistent about reporting split files, so three tiers are tried:
// the reported file list, reconstruction of the per-track names from the
// combined format id, and finally a scan of the output directory.
func (o *videoOrchestrator) recoverDASH(report *Report) (model.DownloadOutcome, bool) {
	if outcome, ok := o.pairReported(report); ok {
		return outcome, true
	}
	if outcome, ok := o.probeReconstructed(report); ok {
		return outcome, true
	}
	return o.scanOutputDir()
}

// pairReported works off the files the backend claims it wrote. A file
// carrying both tracks wins outright; otherwise the first existing
// video-only and audio-only files are paired.
func (o *videoOrchestrator) pairReported(report *Report) (model.DownloadOutcome, bool) {
	files := append(append([]ReportedFile{}, report.Files...), report.RequestedFormats...)

	var videoPath, audioPath string
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		if _, err := o.fs.Stat(f.Path); err != nil {
			continue
		}

		hasVideo := model.HasCodec(f.VCodec)
		hasAudio := model.HasCodec(f.ACodec)
		switch {
		case hasVideo && hasAudio:
			return classify(o.fs, f.Path, f.VCodec, f.ACodec), true
		case hasVideo && videoPath == "":
			videoPath = f.Path
		case hasAudio && audioPath == "":
			audioPath = f.Path
		}
	}

	if videoPath != "" && audioPath != "" {
		return o.separateOutcome(videoPath, audioPath), true
	}
	return model.DownloadOutcome{}, false
}

// probeReconstructed rebuilds the names the backend gives split tracks
// under the DASH template: <title>.f<combined>.f<track>.<ext>.
func (o *videoOrchestrator) probeReconstructed(report *Report) (model.DownloadOutcome, bool) {
	combined := report.FormatID
	if report.Title == "" || !strings.Contains(combined, "+") {
		return model.DownloadOutcome{}, false
	}

	ids := strings.SplitN(combined, "+", 2)
	videoPath := o.probeTrack(report.Title, combined, ids[0], dashVideoExts)
	audioPath := o.probeTrack(report.Title, combined, ids[1], dashAudioExts)

	if videoPath != "" && audioPath != "" {
		return o.separateOutcome(videoPath, audioPath), true
	}
	return model.DownloadOutcome{}, false
}

func (o *videoOrchestrator) probeTrack(title, combined, id string, exts []string) string {
	for _, ext := range exts {
		path := filepath.Join(o.outDir, fmt.Sprintf("%s.f%s.f%s.%s", title, combined, id, ext))
		if _, err := o.fs.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// scanOutputDir is the last recovery tier: take the largest video file
// and the largest audio file present in the output directory.
func (o *videoOrchestrator) scanOutputDir() (model.DownloadOutcome, bool) {
	entries, err := afero.ReadDir(o.fs, o.outDir)
	if err != nil {
		return model.DownloadOutcome{}, false
	}

	var videoPath, audioPath string
	var videoSize, audioSize int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		path := filepath.Join(o.outDir, entry.Name())

		switch {
		case lo.Contains(dashVideoExts, ext) && entry.Size() > videoSize:
			videoPath, videoSize = path, entry.Size()
		case lo.Contains(dashAudioExts, ext) && entry.Size() > audioSize:
			audioPath, audioSize = path, entry.Size()
		}
	}

	switch {
	case videoPath != "" && audioPath != "":
		return o.separateOutcome(videoPath, audioPath), true
	case videoPath != "":
		// No audio counterpart found: the containers scanned for here
		// commonly carry an embedded audio track, so a lone video file
		// counts as a complete download.
		return classify(o.fs, videoPath, "", ""), true
	}
	return model.DownloadOutcome{}, false
}

func (o *videoOrchestrator) separateOutcome(videoPath, audioPath string) model.DownloadOutcome {
	out := model.DownloadOutcome{
		Success:    true,
		VideoPath:  videoPath,
		AudioPath:  audioPath,
		SeparateAV: true,
	}
	if vs, err := fileSize(o.fs, videoPath); err == nil {
		out.FileSize += vs
	}
	if as, err := fileSize(o.fs, audioPath); err == nil {
		out.FileSize += as
	}
	return out
}

// downloadSupplementaryAudio fetches a standalone audio track to
// accompany a video-only download, under a distinct _audio name so the
// two never collide.
func (o *videoOrchestrator) downloadSupplementaryAudio(ctx context.Context, url string, progress *throttler) (string, bool) {
	for _, selector := range format.SupplementaryAudioExpressions() {
		if o.token.Cancelled() {
			return "", false
		}

		report, err := o.backend.Download(ctx, o.request(url, selector, audioSupplementTemplate, false, progress))
		if err != nil {
			o.log.WithField("selector", selector).WithError(err).Debug("supplementary audio attempt failed")
			continue
		}

		if path, _, ok := o.firstExistingFile(report); ok {
			return path, true
		}
		if path, ok := o.scanForSupplementaryAudio(); ok {
			return path, true
		}
	}
	return "", false
}

func (o *videoOrchestrator) scanForSupplementaryAudio() (string, bool) {
	entries, err := afero.ReadDir(o.fs, o.outDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.Contains(entry.Name(), "_audio.") {
			return filepath.Join(o.outDir, entry.Name()), true
		}
	}
	return "", false
}
