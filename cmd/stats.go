package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/cubeview-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a rendered output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// manifestPath accepts an output directory or the manifest file itself.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if b := m.BuildInfo; b != nil {
		fmt.Printf("  Tone operator:    %s", b.ToneMap)
		if b.Exposure != 0 {
			fmt.Printf(" (%+g stops)", b.Exposure)
		}
		fmt.Println()
		fmt.Printf("  Format:           %s\n", b.Format)
		fmt.Printf("  Workers:          %d\n", b.Workers)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Cube maps:        %d (%d compared, %d degraded, %d failed)\n",
		s.TotalRenders, s.Compared, s.Degraded, s.Failed)
	fmt.Printf("  Files:            %d\n", s.TotalFiles)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	sizes := map[int]int{}
	var saturated, black int
	for _, r := range m.Renders {
		sizes[r.Size]++
		for _, f := range r.Files() {
			fs := formatStats[f.Format]
			fs.count++
			fs.bytes += f.Size
			formatStats[f.Format] = fs
		}
		for _, f := range r.Faces {
			saturated += f.Stats.Saturated
			black += f.Stats.Black
		}
	}

	var formats []string
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Format breakdown:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	var edges []int
	for size := range sizes {
		edges = append(edges, size)
	}
	sort.Ints(edges)
	fmt.Println("  Face sizes:")
	for _, size := range edges {
		fmt.Printf("    %5d  %4d cube maps\n", size, sizes[size])
	}
	fmt.Println()
	fmt.Printf("  Texels above 1:   %d (clipped by clamp)\n", saturated)
	fmt.Printf("  Black texels:     %d\n", black)

	var warnings []string
	for key, r := range m.Renders {
		if r.Mismatch != "" {
			warnings = append(warnings, fmt.Sprintf("render %q: %s", key, r.Mismatch))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ! %s\n", w)
		}
	}
	fmt.Println()
}
