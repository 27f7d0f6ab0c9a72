package pipeline

import (
	"image"
	"image/color"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/display"
	"github.com/disintegration/imaging"
)

// crossCells places each face in a 4×3 horizontal cross:
//
//	    +Y
//	-X  +Z  +X  -Z
//	    -Y
var crossCells = [cubemap.NumFaces]image.Point{
	cubemap.PositiveX: {2, 1},
	cubemap.NegativeX: {0, 1},
	cubemap.PositiveY: {1, 0},
	cubemap.NegativeY: {1, 2},
	cubemap.PositiveZ: {1, 1},
	cubemap.NegativeZ: {3, 1},
}

// Sheet composes the six face buffers into a horizontal cross, upscaled
// by scale with nearest-neighbour filtering. Empty cells are transparent.
func Sheet(faces [cubemap.NumFaces]display.Buffer, scale int) *image.NRGBA {
	size := faces[0].Size
	sheet := imaging.New(4*size, 3*size, color.NRGBA{})
	for id, cell := range crossCells {
		sheet = imaging.Paste(sheet, faces[id].Image(), cell.Mul(size))
	}
	if scale > 1 {
		sheet = imaging.Resize(sheet, 4*size*scale, 3*size*scale, imaging.NearestNeighbor)
	}
	return sheet
}
