package cubemap

import (
	"fmt"
	"strconv"
	"strings"
)

// FaceID identifies one of the six cube faces in storage order.
type FaceID int

const (
	PositiveX FaceID = iota
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

// NumFaces is the number of faces in a cube map.
const NumFaces = 6

// faceTable is the fixed storage order and orientation of the faces.
// Index i of the table is FaceID(i).
var faceTable = [NumFaces]struct {
	name  string
	short string
	s, t  Axis
}{
	{"Positive X", "+X", "-z", "-y"},
	{"Negative X", "-X", "+z", "-y"},
	{"Positive Y", "+Y", "+x", "+z"},
	{"Negative Y", "-Y", "+x", "-z"},
	{"Positive Z", "+Z", "+x", "-y"},
	{"Negative Z", "-Z", "-x", "-y"},
}

// AllFaces returns the face IDs in storage order.
func AllFaces() []FaceID {
	return []FaceID{PositiveX, NegativeX, PositiveY, NegativeY, PositiveZ, NegativeZ}
}

// Valid reports whether id names one of the six faces.
func (id FaceID) Valid() bool { return id >= 0 && id < NumFaces }

func (id FaceID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("FaceID(%d)", int(id))
	}
	return faceTable[id].name
}

// Short returns the compact label used in file names, e.g. "+X".
func (id FaceID) Short() string {
	if !id.Valid() {
		return "?"
	}
	return faceTable[id].short
}

// Axes returns the horizontal (s) and vertical (t) axis labels of the face.
func (id FaceID) Axes() (s, t Axis) {
	if !id.Valid() {
		return "", ""
	}
	return faceTable[id].s, faceTable[id].t
}

// ParseFace accepts a storage index ("0".."5"), a short label ("+x",
// "-Z"), a compact label ("px", "nz") or the full name ("Positive Y").
func ParseFace(s string) (FaceID, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		if id := FaceID(n); id.Valid() {
			return id, nil
		}
		return 0, fmt.Errorf("face index %d out of range [0,%d)", n, NumFaces)
	}
	for i, f := range faceTable {
		short := strings.ToLower(f.short)
		compact := strings.NewReplacer("+", "p", "-", "n").Replace(short)
		if v == short || v == compact || v == strings.ToLower(f.name) {
			return FaceID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown face %q", s)
}

// Axis is a signed axis label such as "+x" or "-z".
type Axis string

// ParseAxis validates a signed axis label.
func ParseAxis(s string) (Axis, error) {
	a := Axis(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("invalid axis label %q", s)
	}
	return a, nil
}

// Valid reports whether a is a sign followed by x, y or z.
func (a Axis) Valid() bool {
	if len(a) != 2 || (a[0] != '+' && a[0] != '-') {
		return false
	}
	switch a[1] {
	case 'x', 'y', 'z':
		return true
	}
	return false
}

// Positive reports whether the label points along the positive axis.
func (a Axis) Positive() bool { return len(a) > 0 && a[0] == '+' }

// Letter returns the axis letter without its sign.
func (a Axis) Letter() string {
	if len(a) < 2 {
		return ""
	}
	return string(a[1:])
}

// Flip negates the sign and keeps the axis letter: "+x" becomes "-x".
// Labels without a sign are returned unchanged.
func (a Axis) Flip() Axis {
	if len(a) == 0 {
		return a
	}
	switch a[0] {
	case '+':
		return "-" + a[1:]
	case '-':
		return "+" + a[1:]
	}
	return a
}

// Edges labels the four borders of a face: the min edges carry the
// flipped axis, the max edges the axis itself.
type Edges struct {
	MinS Axis `json:"min_s"`
	MaxS Axis `json:"max_s"`
	MinT Axis `json:"min_t"`
	MaxT Axis `json:"max_t"`
}
