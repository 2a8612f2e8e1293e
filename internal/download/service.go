package download

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mediafetch/mediafetch/internal/audiofix"
	"github.com/mediafetch/mediafetch/internal/config"
	"github.com/mediafetch/mediafetch/internal/format"
	"github.com/mediafetch/mediafetch/internal/model"
)

const unknownField = "Unknown"

// Service is the engine's public surface: metadata queries, video and
// audio downloads, and cooperative cancellation. A Service is safe for
// use from a single requester at a time; cancellation may come from any
// goroutine.
type Service struct {
	backend Backend
	opts    config.Options
	fs      afero.Fs
	token   *CancelToken
	log     *logrus.Entry
}

// NewService wires a Service around the given backend.
func NewService(backend Backend, opts config.Options) *Service {
	logger := logrus.New()
	if opts.VerboseTracing {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	return &Service{
		backend: backend,
		opts:    opts,
		fs:      afero.NewOsFs(),
		token:   &CancelToken{},
		log:     logrus.NewEntry(logger),
	}
}

// SetFilesystem swaps the filesystem used for output inspection. Tests
// use this with an in-memory filesystem.
func (s *Service) SetFilesystem(fs afero.Fs) {
	s.fs = fs
}

// GetInfo fetches metadata and the normalized format list for a URL.
// Failures are reported in-band through the Error field so hosts always
// receive a renderable struct.
func (s *Service) GetInfo(ctx context.Context, url string) model.VideoInfo {
	info, err := s.backend.QueryInfo(ctx, url)
	if err != nil {
		return model.VideoInfo{
			Title:    unknownField,
			Uploader: unknownField,
			Error:    err.Error(),
		}
	}

	out := model.VideoInfo{
		Title:       info.Title,
		Uploader:    info.Uploader,
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		Description: info.Description,
		Formats:     format.Normalize(info.Formats),
	}
	if out.Title == "" {
		out.Title = unknownField
	}
	if out.Uploader == "" {
		out.Uploader = unknownField
	}
	return out
}

// DownloadVideo runs the video strategy loop for url at the requested
// quality token, writing into outputDir. It resets any cancellation left
// over from a previous request.
func (s *Service) DownloadVideo(ctx context.Context, url, outputDir, quality string, onProgress ProgressFunc) model.DownloadOutcome {
	s.token.Reset()

	o := &videoOrchestrator{
		backend: s.backend,
		opts:    s.opts,
		outDir:  outputDir,
		fs:      s.fs,
		token:   s.token,
		log:     s.requestLog(url).WithField("quality", quality),
	}
	return o.run(ctx, url, quality, newThrottler(onProgress))
}

// DownloadAudio runs the tiered audio strategy for url, writing into
// outputDir. audioFormat ("mp3", "aac", "m4a") biases the first tier
// toward that container; empty means no preference. It resets any
// cancellation left over from a previous request.
func (s *Service) DownloadAudio(ctx context.Context, url, outputDir, audioFormat string, onProgress ProgressFunc) model.DownloadOutcome {
	s.token.Reset()

	o := &audioOrchestrator{
		backend:   s.backend,
		opts:      s.opts,
		outDir:    outputDir,
		fs:        s.fs,
		token:     s.token,
		log:       s.requestLog(url),
		validator: audiofix.NewValidator(s.fs),
	}
	return o.run(ctx, url, audioFormat, newThrottler(onProgress))
}

// Cancel requests cancellation of the in-flight download, if any. The
// running request aborts at its next strategy boundary.
func (s *Service) Cancel() {
	s.token.Cancel()
}

// ResetCancellation clears a pending cancellation without starting a new
// request.
func (s *Service) ResetCancellation() {
	s.token.Reset()
}

// IsCancelled reports whether cancellation is currently requested.
func (s *Service) IsCancelled() bool {
	return s.token.Cancelled()
}

func (s *Service) requestLog(url string) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"url":        url,
	})
}
