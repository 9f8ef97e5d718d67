package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tessro/lounge/internal/audio"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Audio     bool   `json:"audio"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Audio:     audio.Available,
		}

		if JSONOutput() {
			return PrintJSON(info)
		}

		fmt.Printf("lounge %s\n", info.Version)
		if Verbose() {
			Normal("  commit    ", info.Commit)
			Normal("  built     ", info.BuildDate)
			Normal("  go version", info.GoVersion)
			Normal("  platform  ", info.Platform)
			Normal("  audio     ", StatusIcon(info.Audio))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
