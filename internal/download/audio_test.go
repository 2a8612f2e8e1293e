package download

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/mediafetch/mediafetch/internal/config"
	"github.com/mediafetch/mediafetch/internal/format"
)

// audioTierSize is the full selector count of the two audio tiers before
// the extraction fallback.
func audioTierSize() int {
	return len(format.AudioOnlyExpressions()) + len(format.DASHAudioExpressions())
}

func scriptedFailures(n int) []downloadResult {
	results := make([]downloadResult, n)
	for i := range results {
		results[i] = downloadResult{err: errors.New("requested format is not available")}
	}
	return results
}

func TestDownloadAudioFirstSelectorWins(t *testing.T) {
	backend := &fakeBackend{
		results: []downloadResult{
			{report: &Report{Title: "Track", Files: []ReportedFile{
				{Path: "/out/Track.m4a", ACodec: "mp4a"},
			}}},
		},
	}
	s, fs := newTestService(t, backend, config.Default())
	backend.onDownload = func(call int, req Request) {
		mustWrite(t, fs, "/out/Track.m4a", 512)
	}

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "", nil)

	if !out.Success {
		t.Fatalf("outcome not successful: %q", out.Error)
	}
	if out.FilePath != "/out/Track.m4a" {
		t.Errorf("FilePath = %q", out.FilePath)
	}
	if out.NeedsExtraction {
		t.Error("NeedsExtraction should be false for a direct audio download")
	}
	if calls := backend.downloadCalls(); calls != 1 {
		t.Errorf("download calls = %d, want 1", calls)
	}
	if backend.requests[0].Selector != "bestaudio" {
		t.Errorf("first selector = %q, want bestaudio", backend.requests[0].Selector)
	}
}

func TestDownloadAudioPreferredFormatBiasesFirstTier(t *testing.T) {
	backend := &fakeBackend{
		results: []downloadResult{
			{report: &Report{Title: "Track", Files: []ReportedFile{
				{Path: "/out/Track.mp3", ACodec: "mp3"},
			}}},
		},
	}
	s, fs := newTestService(t, backend, config.Default())
	backend.onDownload = func(call int, req Request) {
		mustWrite(t, fs, "/out/Track.mp3", 512)
	}

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "mp3", nil)

	if !out.Success {
		t.Fatalf("outcome not successful: %q", out.Error)
	}
	if backend.requests[0].Selector != "bestaudio[ext=mp3]/bestaudio" {
		t.Errorf("first selector = %q, want the mp3-biased expression", backend.requests[0].Selector)
	}
}

func TestDownloadAudioFallsThroughToExtraction(t *testing.T) {
	results := scriptedFailures(audioTierSize())
	results = append(results, downloadResult{
		report: &Report{Title: "Clip", Files: []ReportedFile{
			{Path: "/out/Clip.mp4", VCodec: "avc1", ACodec: "mp4a"},
		}},
	})
	backend := &fakeBackend{results: results}
	s, fs := newTestService(t, backend, config.Default())
	backend.onDownload = func(call int, req Request) {
		if call == audioTierSize() {
			mustWrite(t, fs, "/out/Clip.mp4", 4096)
		}
	}

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "", nil)

	if !out.Success {
		t.Fatalf("outcome not successful: %q", out.Error)
	}
	if !out.NeedsExtraction {
		t.Error("NeedsExtraction should be set on the extraction fallback")
	}
	if out.FilePath != "/out/Clip.mp4" {
		t.Errorf("FilePath = %q", out.FilePath)
	}

	wantCalls := audioTierSize() + 1
	if calls := backend.downloadCalls(); calls != wantCalls {
		t.Errorf("download calls = %d, want %d", calls, wantCalls)
	}
	last := backend.requests[len(backend.requests)-1]
	if last.Selector != format.ExtractionFallbackExpression {
		t.Errorf("last selector = %q, want %q", last.Selector, format.ExtractionFallbackExpression)
	}
}

func TestDownloadAudioAllTiersFail(t *testing.T) {
	backend := &fakeBackend{results: scriptedFailures(audioTierSize() + 1)}
	s, _ := newTestService(t, backend, config.Default())

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "", nil)

	if out.Success {
		t.Fatal("outcome should not be successful")
	}
	if !strings.Contains(out.Error, "no audio formats available") {
		t.Errorf("Error = %q", out.Error)
	}
	wantCalls := audioTierSize() + 1
	if calls := backend.downloadCalls(); calls != wantCalls {
		t.Errorf("download calls = %d, want %d", calls, wantCalls)
	}
}

func TestDownloadAudioCancelMidTier(t *testing.T) {
	backend := &fakeBackend{results: scriptedFailures(audioTierSize() + 1)}
	s, _ := newTestService(t, backend, config.Default())
	backend.onDownload = func(call int, req Request) {
		if call == 2 {
			s.Cancel()
		}
	}

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "", nil)

	if !out.Cancelled {
		t.Fatalf("outcome should be cancelled, got error %q", out.Error)
	}
	if calls := backend.downloadCalls(); calls != 3 {
		t.Errorf("download calls = %d, want 3", calls)
	}
}

func TestDownloadAudioRepairsMislabeledContainer(t *testing.T) {
	backend := &fakeBackend{
		results: []downloadResult{
			{report: &Report{Title: "Track", Files: []ReportedFile{
				{Path: "/out/Track.mp4", ACodec: "mp4a"},
			}}},
		},
	}
	s, fs := newTestService(t, backend, config.Default())
	backend.onDownload = func(call int, req Request) {
		content := append([]byte{0xFF, 0xF1, 0x50, 0x80, 0x00, 0x1F, 0xFC, 0x00}, make([]byte, 2048)...)
		if err := afero.WriteFile(fs, "/out/Track.mp4", content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := s.DownloadAudio(context.Background(), "https://example.com/v", "/out", "", nil)

	if !out.Success {
		t.Fatalf("outcome not successful: %q", out.Error)
	}
	if out.FilePath != "/out/Track.m4a" {
		t.Errorf("FilePath = %q, want repaired /out/Track.m4a", out.FilePath)
	}
	if _, err := fs.Stat("/out/Track.m4a"); err != nil {
		t.Error("repaired file should exist")
	}
}
