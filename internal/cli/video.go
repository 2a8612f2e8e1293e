package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var quality string

var videoCmd = &cobra.Command{
	Use:   "video [url]",
	Short: "Download a video at the requested quality",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		stop := cancelOnInterrupt(svc.Cancel)
		defer stop()

		out := svc.DownloadVideo(cmd.Context(), args[0], outputDir, quality, printProgress)
		return renderOutcome(out)
	},
}

func init() {
	videoCmd.Flags().StringVarP(&quality, "quality", "q", "best",
		"quality token (2160p, 1440p, 1080p, 720p, 480p, 360p, best, worst)")
}

// cancelOnInterrupt invokes cancel on the first SIGINT so an in-flight
// download winds down at its next strategy boundary.
func cancelOnInterrupt(cancel func()) (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		if _, ok := <-sig; ok {
			cancel()
		}
	}()
	return func() {
		signal.Stop(sig)
		close(sig)
	}
}
