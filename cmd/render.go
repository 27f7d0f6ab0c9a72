package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/cubeview-cli/internal/manifest"
	"github.com/AnyUserName/cubeview-cli/internal/pipeline"
	"github.com/AnyUserName/cubeview-cli/internal/profile"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
	"github.com/spf13/cobra"
)

// renderOptions are the flags shared by render and compare.
type renderOptions struct {
	outDir    string
	config    string
	reference string
	raw       bool
	flags     profile.Flags
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render cube maps to display files + manifest",
	Long: `Renders one cube map file, or every cube map in a directory, to six
face files and a horizontal cross contact sheet, and writes a manifest.

Input formats: PNG, TIFF, BMP, WebP, TGA (RGBE bytes in RGBA) and
Radiance .hdr. Output filenames are content-addressed:
<key>.<face>.<hash>.<ext>, for example sky.px.1a2b3c4d.png.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd.Context(), args[0], renderOpts)
	},
}

func addRenderFlags(cmd *cobra.Command, o *renderOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.outDir, "out", "o", "./cubeview_out", "output directory")
	f.StringVarP(&o.flags.Profile, "profile", "p", "", "render profile ("+strings.Join(profile.Names(), ", ")+")")
	f.StringVarP(&o.config, "config", "c", "", "JSON config file (overrides profile, overridden by flags)")
	f.StringVarP(&o.flags.ToneMap, "tone", "t", "", "tone operator ("+strings.Join(append(tonemap.Names(), tonemap.GlobalNames()...), ", ")+")")
	f.Float64VarP(&o.flags.Exposure, "exposure", "e", 0, "exposure in stops before a per-channel operator")
	f.StringVarP(&o.flags.Format, "format", "f", "", "face file format (png, webp, jpeg)")
	f.IntVarP(&o.flags.Quality, "quality", "q", 0, "quality 1-100 for lossy formats (0 = profile default)")
	f.IntVar(&o.flags.Scale, "scale", 0, "contact sheet upscale factor (0 = profile default)")
	f.BoolVar(&o.flags.NoSheet, "no-sheet", false, "skip the contact sheet")
	f.StringVar(&o.flags.EXR, "exr", "", "also export a linear EXR cube with this compression (none, rle, zips, zip, piz)")
	f.BoolVar(&o.raw, "raw", false, "also write each face's RGBE texels as a PNG")
	f.IntVarP(&o.flags.Workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
}

func init() {
	addRenderFlags(renderCmd, &renderOpts)
	renderCmd.Flags().StringVarP(&renderOpts.reference, "reference", "r", "", "reference cube map file or directory to compare against")
	rootCmd.AddCommand(renderCmd)
}

func resolveProfile(o renderOptions) (profile.Profile, error) {
	var cfg *profile.Config
	if o.config != "" {
		c, err := profile.Load(o.config)
		if err != nil {
			return profile.Profile{}, err
		}
		cfg = &c
	}
	prof := profile.Resolve(cfg, o.flags)
	if !profile.Known(prof.Name) {
		fmt.Fprintf(os.Stderr, "[cubeview] warning: unknown profile %q, using %s defaults\n", prof.Name, profile.DefaultName)
	}
	return prof, nil
}

func runRender(ctx context.Context, input string, o renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	absOutput, err := filepath.Abs(o.outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveProfile(o)
	if err != nil {
		return err
	}

	logVerbose("input:     %s", input)
	if o.reference != "" {
		logVerbose("reference: %s", o.reference)
	}
	logVerbose("output:    %s", absOutput)
	logVerbose("profile:   %s (tone=%s, exposure=%g, format=%s, scale=%d, workers=%d)",
		prof.Name, prof.ToneMap, prof.Exposure, prof.Format, prof.Scale, prof.Workers)

	jobs, err := pipeline.Jobs(input, o.reference)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Config{
		OutputDir: absOutput,
		Profile:   prof,
		Raw:       o.raw,
		Verbose:   verbose,
	})
	if err != nil {
		return err
	}

	m, err := p.Run(ctx, jobs)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printRenderReport(m, time.Since(start))
	return nil
}

func printRenderReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  cubeview render complete")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Cube maps:   %d", s.TotalRenders)
	if s.Compared > 0 || s.Degraded > 0 {
		fmt.Printf("  (%d compared, %d degraded)", s.Compared, s.Degraded)
	}
	fmt.Println()
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Files:       %d\n", s.TotalFiles)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	keys := make([]string, 0, len(m.Renders))
	for k := range m.Renders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r := m.Renders[k]
		fmt.Printf("  %-40s %4d²  %-8s %s\n", truncKey(k, 40), r.Size, r.Mode, r.Title)
		if r.Mismatch != "" {
			fmt.Printf("    ! %s\n", r.Mismatch)
		}
	}
	fmt.Println()
	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
