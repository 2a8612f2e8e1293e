package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/mediafetch/mediafetch/internal/download"
	"github.com/mediafetch/mediafetch/internal/model"
)

// progressPollInterval is how often the backend surfaces raw progress
// updates. The engine applies its own throttling on top.
const progressPollInterval = 100 * time.Millisecond

// Client drives the yt-dlp binary through go-ytdlp and implements
// download.Backend.
type Client struct{}

// New returns a Client. The yt-dlp binary must be available on PATH.
func New() *Client {
	return &Client{}
}

// infoJSON is the subset of yt-dlp's info dict this engine reads.
type infoJSON struct {
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description"`
	FormatID    string  `json:"format_id"`

	Formats []model.StreamDescriptor `json:"formats"`

	RequestedDownloads []fileJSON `json:"requested_downloads"`
	RequestedFormats   []fileJSON `json:"requested_formats"`
}

type fileJSON struct {
	Filepath string `json:"filepath"`
	Filename string `json:"filename"`
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

func (f fileJSON) path() string {
	if f.Filepath != "" {
		return f.Filepath
	}
	return f.Filename
}

// QueryInfo fetches the info dict for url without downloading anything.
func (c *Client) QueryInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		IgnoreErrors().
		NoCheckCertificates().
		NoPlaylist()

	res, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}

	info, err := parseInfo([]byte(res.Stdout))
	if err != nil {
		return nil, err
	}

	return &model.MediaInfo{
		Title:       info.Title,
		Uploader:    info.Uploader,
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		Description: info.Description,
		Formats:     info.Formats,
	}, nil
}

// Download executes one selector expression to completion.
func (c *Client) Download(ctx context.Context, req download.Request) (*download.Report, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		Format(req.Selector).
		Output(req.OutputTemplate).
		NoPlaylist().
		NoCheckCertificates().
		SkipUnavailableFragments().
		DumpSingleJSON().
		NoSimulate()

	if req.Retries > 0 {
		dl.Retries(strconv.Itoa(req.Retries))
	}
	if req.FragmentRetries > 0 {
		dl.FragmentRetries(strconv.Itoa(req.FragmentRetries))
	}
	if req.SocketTimeout > 0 {
		dl.SocketTimeout(req.SocketTimeout.Seconds())
	}
	if req.ConcurrentFragments > 0 {
		dl.ConcurrentFragments(req.ConcurrentFragments)
	}
	if req.KeepVideo {
		dl.KeepVideo()
	}
	for key, value := range req.Headers {
		dl.AddHeaders(fmt.Sprintf("%s: %s", key, value))
	}

	if req.OnProgress != nil {
		dl.ProgressFunc(progressPollInterval, func(update ytdlp.ProgressUpdate) {
			req.OnProgress(toProgress(update))
		})
	}

	res, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("running download: %w", err)
	}

	info, err := parseInfo([]byte(res.Stdout))
	if err != nil {
		return nil, err
	}
	return toReport(info), nil
}

func parseInfo(data []byte) (*infoJSON, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing info dict: %w", err)
	}
	return &info, nil
}

func toReport(info *infoJSON) *download.Report {
	report := &download.Report{
		Title:    info.Title,
		FormatID: info.FormatID,
	}
	for _, f := range info.RequestedDownloads {
		report.Files = append(report.Files, toReportedFile(f))
	}
	for _, f := range info.RequestedFormats {
		report.RequestedFormats = append(report.RequestedFormats, toReportedFile(f))
	}
	return report
}

func toReportedFile(f fileJSON) download.ReportedFile {
	return download.ReportedFile{
		Path:     f.path(),
		FormatID: f.FormatID,
		Ext:      f.Ext,
		VCodec:   f.VCodec,
		ACodec:   f.ACodec,
	}
}

// toProgress maps a raw yt-dlp progress update to the engine's progress
// event.
func toProgress(update ytdlp.ProgressUpdate) model.Progress {
	p := model.Progress{
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETASec:          -1,
	}

	switch string(update.Status) {
	case "finished":
		p.Status = model.ProgressFinished
	case "error":
		p.Status = model.ProgressError
	default:
		p.Status = model.ProgressDownloading
	}

	if !update.Started.IsZero() {
		if elapsed := time.Since(update.Started); elapsed > 0 {
			p.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}
	if eta := update.ETA(); eta > 0 {
		p.ETASec = int(eta.Seconds())
	}
	if update.Info != nil && update.Info.Filename != nil {
		p.Filename = *update.Info.Filename
	}

	return p
}
