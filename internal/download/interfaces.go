package download

import (
	"context"
	"time"

	"github.com/mediafetch/mediafetch/internal/model"
)

// ProgressFunc receives progress events. The engine throttles delivery to
// one downloading update per 500ms; finished and error events always pass.
type ProgressFunc func(model.Progress)

// Request describes one fetch attempt handed to the extraction backend.
type Request struct {
	URL            string
	Selector       string // format selector expression
	OutputTemplate string // backend output path template

	// KeepVideo retains intermediate files when the backend downloads
	// split tracks without merging them (DASH branch).
	KeepVideo bool

	Retries             int
	FragmentRetries     int
	SocketTimeout       time.Duration
	ConcurrentFragments int
	Headers             map[string]string

	// OnProgress may be nil.
	OnProgress ProgressFunc
}

// ReportedFile is the backend's per-file bookkeeping for one download.
type ReportedFile struct {
	Path     string
	FormatID string
	Ext      string
	VCodec   string
	ACodec   string
}

// Report is what the backend hands back once a download call completes.
// Files mirrors the backend's success-reporting structure and is not
// guaranteed populated identically across extraction paths; the
// orchestrator carries its own recovery tiers for that reason.
type Report struct {
	Title    string
	FormatID string // combined format id, e.g. "137+251"

	Files            []ReportedFile // files the backend claims it wrote
	RequestedFormats []ReportedFile // formats the selector resolved to
}

// Backend is the narrow surface of the extraction library this engine
// drives. QueryInfo fetches the raw stream catalog without downloading;
// Download executes one selector expression to completion.
type Backend interface {
	QueryInfo(ctx context.Context, url string) (*model.MediaInfo, error)
	Download(ctx context.Context, req Request) (*Report, error)
}
