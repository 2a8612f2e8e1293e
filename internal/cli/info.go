package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show metadata and available formats without downloading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		info := newService().GetInfo(cmd.Context(), url)
		if info.Error != "" {
			return errors.New(info.Error)
		}

		bold := color.New(color.Bold)
		bold.Println(info.DisplayTitle(url))
		if info.Uploader != "" {
			fmt.Printf("Uploader: %s\n", info.Uploader)
		}
		if info.Duration > 0 {
			fmt.Printf("Duration: %s\n", formatDuration(int(info.Duration)))
		}

		if len(info.Formats) == 0 {
			fmt.Println("No formats reported.")
			return nil
		}

		fmt.Println()
		bold.Printf("%-12s %-16s %-6s %-12s %10s  %s\n",
			"ID", "QUALITY", "EXT", "RESOLUTION", "SIZE", "NOTE")
		for _, f := range info.Formats {
			size := "-"
			if f.Filesize > 0 {
				size = formatBytes(f.Filesize)
			}
			fmt.Printf("%-12s %-16s %-6s %-12s %10s  %s\n",
				f.FormatID, f.QualityLabel, f.Ext, f.Resolution, size, f.FormatNote)
		}
		return nil
	},
}

// formatDuration formats seconds into HH:MM:SS, dropping the hour part
// for short clips.
func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
