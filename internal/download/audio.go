package download

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mediafetch/mediafetch/internal/audiofix"
	"github.com/mediafetch/mediafetch/internal/config"
	"github.com/mediafetch/mediafetch/internal/format"
	"github.com/mediafetch/mediafetch/internal/model"
)

// audioOrchestrator runs the audio strategy tiers: audio-only selectors
// first, segmented-protocol selectors second, and as a last resort a
// capped combined download flagged for external audio extraction.
type audioOrchestrator struct {
	backend   Backend
	opts      config.Options
	outDir    string
	fs        afero.Fs
	token     *CancelToken
	log       *logrus.Entry
	validator *audiofix.Validator
}

func (o *audioOrchestrator) run(ctx context.Context, url, audioFormat string, progress *throttler) model.DownloadOutcome {
	if o.token.Cancelled() {
		return model.NewCancelledOutcome()
	}

	audioOnly := format.AudioOnlyExpressions()
	if preferred := format.PreferredAudioExpression(audioFormat); preferred != "" {
		audioOnly = append(format.SelectionStrategy{preferred}, audioOnly...)
	}

	tiers := []struct {
		name        string
		expressions format.SelectionStrategy
	}{
		{"audio-only", audioOnly},
		{"segmented-audio", format.DASHAudioExpressions()},
	}

	for _, tier := range tiers {
		outcome, done := o.tryExpressions(ctx, url, tier.name, tier.expressions, progress)
		if done {
			return outcome
		}
	}

	return o.downloadForExtraction(ctx, url, progress)
}

// tryExpressions walks one tier's selector chain. It returns done=true on
// success or cancellation; exhausting the chain falls through to the next
// tier.
func (o *audioOrchestrator) tryExpressions(ctx context.Context, url, tier string, expressions format.SelectionStrategy, progress *throttler) (model.DownloadOutcome, bool) {
	for _, selector := range expressions {
		if o.token.Cancelled() {
			return model.NewCancelledOutcome(), true
		}

		log := o.log.WithFields(logrus.Fields{"tier": tier, "selector": selector})
		log.Debug("trying audio selector")

		report, err := o.backend.Download(ctx, o.request(url, selector, progress))
		if err != nil {
			log.WithError(err).Debug("audio selector failed")
			continue
		}

		path, ok := o.locateOutput(report)
		if !ok {
			log.Debug("audio selector reported success but produced no file")
			continue
		}

		// The backend occasionally serves raw ADTS under an MP4 name;
		// validate before handing the path out.
		path = o.validator.Validate(path)

		out := model.DownloadOutcome{Success: true, FilePath: path}
		if size, err := fileSize(o.fs, path); err == nil {
			out.FileSize = size
		}
		return out, true
	}
	return model.DownloadOutcome{}, false
}

// downloadForExtraction is the last tier: fetch a modest combined file
// and flag it so the host extracts the audio track externally.
func (o *audioOrchestrator) downloadForExtraction(ctx context.Context, url string, progress *throttler) model.DownloadOutcome {
	if o.token.Cancelled() {
		return model.NewCancelledOutcome()
	}

	o.log.Debug("no audio formats available, falling back to video download for extraction")

	report, err := o.backend.Download(ctx, o.request(url, format.ExtractionFallbackExpression, progress))
	if err == nil {
		if path, ok := o.locateOutput(report); ok {
			out := model.DownloadOutcome{Success: true, FilePath: path, NeedsExtraction: true}
			if size, err := fileSize(o.fs, path); err == nil {
				out.FileSize = size
			}
			return out
		}
	}

	return model.NewFailedOutcome("no audio formats available and could not download video for extraction")
}

func (o *audioOrchestrator) request(url, selector string, progress *throttler) Request {
	req := Request{
		URL:                 url,
		Selector:            selector,
		OutputTemplate:      filepath.Join(o.outDir, defaultOutputTemplate),
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

func (o *audioOrchestrator) locateOutput(report *Report) (string, bool) {
	for _, f := range report.Files {
		if f.Path == "" {
			continue
		}
		if _, err := o.fs.Stat(f.Path); err == nil {
			return f.Path, true
		}
	}
	return "", false
}
