package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/AnyUserName/cubeview-cli/internal/viewer"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cubeview",
	Short: "Render, compare and inspect RGBE cube maps",
	Long: `cubeview decodes HDR cube maps stored as shared-exponent RGBE texels
(six faces stacked vertically, exponent in the alpha channel) and turns
them into display files.

Faces are tone mapped and sRGB encoded, or, against a reference cube,
shown as a per-texel relative difference centered on mid-grey.
Output filenames are content-addressed and described by a manifest.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			viewer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"cubeview %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[cubeview] "+format+"\n", args...)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
