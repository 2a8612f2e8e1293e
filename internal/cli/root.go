package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mediafetch/mediafetch/internal/backend"
	"github.com/mediafetch/mediafetch/internal/config"
	"github.com/mediafetch/mediafetch/internal/download"
	"github.com/mediafetch/mediafetch/internal/model"
)

var (
	outputDir   string
	verbose     bool
	noFallbacks bool
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "mediafetch",
	Short: "Download video and audio through yt-dlp with automatic format fallbacks",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", ".", "directory downloads are written to")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug tracing")
	rootCmd.PersistentFlags().BoolVar(&noFallbacks, "no-fallbacks", false, "fail immediately when the primary strategy fails")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (YAML)")

	rootCmd.AddCommand(infoCmd, videoCmd, audioCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func newService() *download.Service {
	return download.NewService(backend.New(), loadOptions())
}

func loadOptions() config.Options {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "mediafetch", "config.yaml")
		}
	}

	opts, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("Warning: %v, using defaults", err))
		opts = config.Default()
	}

	if verbose {
		opts.VerboseTracing = true
	}
	if noFallbacks {
		opts.EnableFallbacks = false
	}
	return opts
}

func printProgress(p model.Progress) {
	switch p.Status {
	case model.ProgressFinished:
		fmt.Printf("\rdownloaded %s%20s\n", formatBytes(p.DownloadedBytes), "")
	case model.ProgressError:
		fmt.Fprintln(os.Stderr, color.RedString("download error"))
	default:
		if p.TotalBytes > 0 {
			fmt.Printf("\r%5.1f%%  %s / %s  %s/s  ETA %s",
				p.Percent(),
				formatBytes(p.DownloadedBytes),
				formatBytes(p.TotalBytes),
				formatBytes(int64(p.Speed)),
				p.ETAString())
		} else {
			fmt.Printf("\r%s  %s/s", formatBytes(p.DownloadedBytes), formatBytes(int64(p.Speed)))
		}
	}
}

func renderOutcome(out model.DownloadOutcome) error {
	if out.Cancelled {
		fmt.Println(color.YellowString(out.Error))
		return nil
	}
	if !out.Success {
		return errors.New(out.Error)
	}

	green := color.New(color.FgGreen)
	switch {
	case out.SeparateAV:
		green.Printf("Saved video: %s\n", out.VideoPath)
		if out.AudioPath != "" {
			green.Printf("Saved audio: %s\n", out.AudioPath)
			fmt.Println("Merge the tracks with an external tool, e.g. ffmpeg.")
		}
		if out.NeedsAudioExtraction {
			fmt.Println(color.YellowString("No separate audio track was available, extract audio from the video file if needed."))
		}
	default:
		green.Printf("Saved: %s\n", out.FilePath)
		if out.NeedsExtraction {
			fmt.Println(color.YellowString("Only a combined file was available, extract the audio track externally."))
		}
	}

	if out.FileSize > 0 {
		fmt.Printf("Size: %s\n", formatBytes(out.FileSize))
	}
	return nil
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
