package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AnyUserName/cubeview-cli/internal/compare"
	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/pipeline"
	"github.com/AnyUserName/cubeview-cli/internal/profile"
	"github.com/AnyUserName/cubeview-cli/internal/source"
	"github.com/AnyUserName/cubeview-cli/internal/viewer"
	"github.com/spf13/cobra"
)

var (
	probeReference string
	probeJSON      bool
	probeFlags     profile.Flags
)

var probeCmd = &cobra.Command{
	Use:   "probe <input> <face> <x> <y>",
	Short: "Print the values of one texel",
	Long: `Prints the raw RGBE texel, its decoded linear radiance and the display
bytes at (x, y) of a face. Faces are given as an index (0-5), a signed
axis (+x, -z), a short name (px, nz) or a full name ("Positive X").

With --reference the matching reference texel and the linear delta
(reference - input) are printed too.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runProbe(ctx, args)
	},
}

func init() {
	f := probeCmd.Flags()
	f.StringVarP(&probeReference, "reference", "r", "", "reference cube map")
	f.BoolVar(&probeJSON, "json", false, "print JSON")
	f.StringVarP(&probeFlags.ToneMap, "tone", "t", "", "tone operator for the display bytes")
	f.Float64VarP(&probeFlags.Exposure, "exposure", "e", 0, "exposure in stops")
	rootCmd.AddCommand(probeCmd)
}

func loadCube(path string) (*cubemap.CubeMap, error) {
	buf, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	logVerbose("loaded %s: %dx%d %s", buf.Name, buf.Width, buf.Height, buf.Format)
	return buf.CubeMap()
}

func runProbe(ctx context.Context, args []string) error {
	id, err := cubemap.ParseFace(args[1])
	if err != nil {
		return err
	}
	x, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}

	opts, err := pipeline.ViewerOptions(profile.Resolve(nil, probeFlags))
	if err != nil {
		return err
	}

	m, err := loadCube(args[0])
	if err != nil {
		return err
	}
	v, err := viewer.New(ctx, args[0], m, opts)
	if err != nil {
		return err
	}
	defer v.Close()

	if probeReference != "" {
		ref, err := loadCube(probeReference)
		if err != nil {
			return fmt.Errorf("reference: %w", err)
		}
		err = v.Compare(ctx, probeReference, ref)
		switch {
		case errors.Is(err, compare.ErrSizeMismatch):
			fmt.Fprintf(os.Stderr, "[cubeview] warning: %v, probing %s alone\n", err, args[0])
		case err != nil:
			return err
		}
	}

	p, err := v.Probe(id, x, y)
	if err != nil {
		return err
	}

	if probeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(probeReport(v, p))
	}

	fmt.Printf("  %s  %s (%s) at (%d, %d)\n", v.Title(), id, id.Short(), x, y)
	fmt.Printf("  texel:    R=%d G=%d B=%d E=%d\n", p.Texel.R, p.Texel.G, p.Texel.B, p.Texel.E)
	fmt.Printf("  radiance: %.6g %.6g %.6g\n", p.RGB.R, p.RGB.G, p.RGB.B)
	if p.Compared {
		fmt.Printf("  ref:      R=%d G=%d B=%d E=%d\n", p.RefTexel.R, p.RefTexel.G, p.RefTexel.B, p.RefTexel.E)
		fmt.Printf("  ref rgb:  %.6g %.6g %.6g\n", p.RefRGB.R, p.RefRGB.G, p.RefRGB.B)
		fmt.Printf("  delta:    %+.6g %+.6g %+.6g\n", p.Delta.R, p.Delta.G, p.Delta.B)
	}
	fmt.Printf("  display:  %d %d %d\n", p.Display[0], p.Display[1], p.Display[2])
	return nil
}

type probeJSONReport struct {
	Title    string      `json:"title"`
	Face     string      `json:"face"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Texel    [4]uint8    `json:"texel"`
	RGB      [3]float64  `json:"rgb"`
	Display  [3]uint8    `json:"display"`
	RefTexel *[4]uint8   `json:"ref_texel,omitempty"`
	RefRGB   *[3]float64 `json:"ref_rgb,omitempty"`
	Delta    *[3]float64 `json:"delta,omitempty"`
}

func probeReport(v *viewer.Viewer, p viewer.Probe) probeJSONReport {
	r := probeJSONReport{
		Title:   v.Title(),
		Face:    p.Face.Short(),
		X:       p.X,
		Y:       p.Y,
		Texel:   [4]uint8{p.Texel.R, p.Texel.G, p.Texel.B, p.Texel.E},
		RGB:     [3]float64{p.RGB.R, p.RGB.G, p.RGB.B},
		Display: p.Display,
	}
	if p.Compared {
		r.RefTexel = &[4]uint8{p.RefTexel.R, p.RefTexel.G, p.RefTexel.B, p.RefTexel.E}
		r.RefRGB = &[3]float64{p.RefRGB.R, p.RefRGB.G, p.RefRGB.B}
		r.Delta = &[3]float64{p.Delta.R, p.Delta.G, p.Delta.B}
	}
	return r
}
