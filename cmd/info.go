package cmd

import (
	"fmt"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/display"
	"github.com/AnyUserName/cubeview-cli/internal/hasher"
	"github.com/AnyUserName/cubeview-cli/internal/source"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Describe a cube map file: layout, orientation and texel statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	buf, err := source.Load(args[0])
	if err != nil {
		return err
	}
	m, err := buf.CubeMap()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  File:      %s (%s)\n", buf.Name, buf.Format)
	fmt.Printf("  Image:     %d x %d\n", buf.Width, buf.Height)
	fmt.Printf("  Face size: %d\n", m.Size)
	fmt.Printf("  Texels:    %s\n", hasher.ContentHash(m.Bytes(), hasher.FullLen))
	fmt.Println()

	for _, id := range cubemap.AllFaces() {
		f := m.Face(id)
		e := f.Edges()
		st := display.Stats(f)
		fmt.Printf("  %d %-2s %-10s  s=%s t=%s  edges %s|%s %s|%s  black=%d saturated=%d max=%.4g mean=%.4g\n",
			int(id), id.Short(), id, f.S, f.T, e.MinS, e.MaxS, e.MinT, e.MaxT,
			st.Black, st.Saturated, st.Max, st.Mean)
	}
	fmt.Println()
	return nil
}
