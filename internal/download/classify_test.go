package download

import (
	"testing"

	"github.com/spf13/afero"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		vcodec string
		acodec string

		wantFilePath  string
		wantVideoPath string
		wantSeparate  bool
		wantNeedsAud  bool
	}{
		{
			name:         "combined codecs",
			path:         "/out/clip.mp4",
			vcodec:       "avc1.64001F",
			acodec:       "mp4a.40.2",
			wantFilePath: "/out/clip.mp4",
		},
		{
			name:          "video only container without audio assumption",
			path:          "/out/clip.m4v",
			vcodec:        "avc1",
			acodec:        "none",
			wantVideoPath: "/out/clip.m4v",
			wantSeparate:  true,
			wantNeedsAud:  true,
		},
		{
			name:         "mp4 with unknown audio codec assumed complete",
			path:         "/out/clip.mp4",
			vcodec:       "avc1",
			acodec:       "none",
			wantFilePath: "/out/clip.mp4",
		},
		{
			name:         "pure audio extension with null codecs",
			path:         "/out/track.mp3",
			vcodec:       "null",
			acodec:       "null",
			wantFilePath: "/out/track.mp3",
		},
		{
			name:         "direct link with empty codecs",
			path:         "/out/movie.mkv",
			vcodec:       "",
			acodec:       "",
			wantFilePath: "/out/movie.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, tt.path, make([]byte, 2048), 0o644); err != nil {
				t.Fatal(err)
			}

			out := classify(fs, tt.path, tt.vcodec, tt.acodec)

			if !out.Success {
				t.Fatal("classify should always succeed for a completed file")
			}
			if out.FilePath != tt.wantFilePath {
				t.Errorf("FilePath = %q, want %q", out.FilePath, tt.wantFilePath)
			}
			if out.VideoPath != tt.wantVideoPath {
				t.Errorf("VideoPath = %q, want %q", out.VideoPath, tt.wantVideoPath)
			}
			if out.SeparateAV != tt.wantSeparate {
				t.Errorf("SeparateAV = %v, want %v", out.SeparateAV, tt.wantSeparate)
			}
			if out.NeedsAudioExtraction != tt.wantNeedsAud {
				t.Errorf("NeedsAudioExtraction = %v, want %v", out.NeedsAudioExtraction, tt.wantNeedsAud)
			}
			if out.FileSize != 2048 {
				t.Errorf("FileSize = %d, want 2048", out.FileSize)
			}
		})
	}
}

func TestClassifyMissingFileStillSucceeds(t *testing.T) {
	fs := afero.NewMemMapFs()

	out := classify(fs, "/out/gone.mp4", "avc1", "mp4a")

	if !out.Success {
		t.Fatal("classify should not fail on a stat error")
	}
	if out.FileSize != 0 {
		t.Errorf("FileSize = %d, want 0", out.FileSize)
	}
}
