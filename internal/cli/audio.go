package cli

import (
	"github.com/spf13/cobra"
)

var audioFormat string

var audioCmd = &cobra.Command{
	Use:   "audio [url]",
	Short: "Download the best available audio track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		stop := cancelOnInterrupt(svc.Cancel)
		defer stop()

		out := svc.DownloadAudio(cmd.Context(), args[0], outputDir, audioFormat, printProgress)
		return renderOutcome(out)
	},
}

func init() {
	audioCmd.Flags().StringVarP(&audioFormat, "format", "f", "mp3",
		"preferred audio container (mp3, aac, m4a)")
}
