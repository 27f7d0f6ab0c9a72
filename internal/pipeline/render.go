package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/cubeview-cli/internal/compare"
	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/display"
	"github.com/AnyUserName/cubeview-cli/internal/encoder"
	"github.com/AnyUserName/cubeview-cli/internal/exrout"
	"github.com/AnyUserName/cubeview-cli/internal/hasher"
	"github.com/AnyUserName/cubeview-cli/internal/manifest"
	"github.com/AnyUserName/cubeview-cli/internal/source"
	"github.com/AnyUserName/cubeview-cli/internal/viewer"
)

// renderResult holds the result of rendering a single job.
type renderResult struct {
	key    string
	render manifest.Render
	err    error
}

// loaded is a decoded source with its file metadata.
type loaded struct {
	info manifest.SourceInfo
	cube *cubemap.CubeMap
}

func load(path string) (loaded, error) {
	buf, err := source.Load(path)
	if err != nil {
		return loaded{}, err
	}
	m, err := buf.CubeMap()
	if err != nil {
		return loaded{}, err
	}

	info := manifest.SourceInfo{
		Name:   buf.Name,
		Format: buf.Format,
		Width:  buf.Width,
		Height: buf.Height,
	}
	if st, err := os.Stat(path); err == nil {
		info.Size = st.Size()
	}
	if info.Hash, err = hasher.FileHash(path, hasher.FullLen); err != nil {
		return loaded{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return loaded{info: info, cube: m}, nil
}

// fileTag is the face part of an output file name ("px" for +X).
func fileTag(id cubemap.FaceID) string {
	return strings.NewReplacer("+", "p", "-", "n").Replace(strings.ToLower(id.Short()))
}

// renderCube handles a single job: load, optional compare, encode, write.
func (p *Pipeline) renderCube(ctx context.Context, job Job, workers int) renderResult {
	result := renderResult{key: job.Key}

	src, err := load(job.Path)
	if err != nil {
		result.err = err
		return result
	}

	opts := p.opts
	opts.Workers = workers
	v, err := viewer.New(ctx, src.info.Name, src.cube, opts)
	if err != nil {
		result.err = err
		return result
	}
	defer v.Close()

	r := manifest.Render{Source: src.info, Size: v.Size()}

	if job.Reference != "" {
		ref, err := load(job.Reference)
		if err != nil {
			result.err = fmt.Errorf("reference: %w", err)
			return result
		}
		r.Reference = &ref.info
		err = v.Compare(ctx, ref.info.Name, ref.cube)
		switch {
		case errors.Is(err, compare.ErrSizeMismatch):
			r.Mismatch = err.Error()
			fmt.Fprintf(os.Stderr, "[cubeview] warning: %s: %v, showing %s alone\n", job.Key, err, src.info.Name)
		case err != nil:
			result.err = fmt.Errorf("compare %s: %w", job.Key, err)
			return result
		}
	}
	r.Mode = v.Mode().String()
	r.Title = v.Title()

	keyDir := filepath.Dir(job.Key)
	if err := os.MkdirAll(filepath.Join(p.cfg.OutputDir, keyDir), 0o755); err != nil {
		result.err = fmt.Errorf("create %s: %w", keyDir, err)
		return result
	}
	base := filepath.Base(job.Key)

	var shown [cubemap.NumFaces]display.Buffer
	for _, id := range cubemap.AllFaces() {
		f := v.CubeMap().Face(id)
		shown[id] = v.Display(id)
		st := display.Stats(f)
		e := f.Edges()
		face := manifest.Face{
			Index: int(id),
			Name:  id.String(),
			Short: id.Short(),
			S:     string(f.S),
			T:     string(f.T),
			Edges: manifest.Edges{MinS: string(e.MinS), MaxS: string(e.MaxS), MinT: string(e.MinT), MaxT: string(e.MaxT)},
			Stats: manifest.FaceStats{Black: st.Black, Saturated: st.Saturated, Max: st.Max, Mean: st.Mean},
		}

		if p.cfg.Profile.Faces {
			file, err := p.write(p.enc, shown[id].Image(), keyDir, base+"."+fileTag(id))
			if err != nil {
				result.err = err
				return result
			}
			face.File = &file
		}
		if p.cfg.Raw {
			file, err := p.write(p.raw, f.RawImage(), keyDir, base+".raw."+fileTag(id))
			if err != nil {
				result.err = err
				return result
			}
			face.Raw = &file
		}
		r.Faces = append(r.Faces, face)
	}

	if p.cfg.Profile.Sheet {
		file, err := p.write(p.enc, Sheet(shown, p.cfg.Profile.Scale), keyDir, base+".sheet")
		if err != nil {
			result.err = err
			return result
		}
		r.Sheet = &file
	}

	if p.exrOn {
		file, err := p.writeEXR(v.CubeMap(), keyDir, base)
		if err != nil {
			result.err = err
			return result
		}
		r.EXR = &file
	}

	result.render = r
	return result
}

// write encodes img and stores it as <stem>.<hash>.<ext> under keyDir.
func (p *Pipeline) write(enc encoder.Encoder, img image.Image, keyDir, stem string) (manifest.File, error) {
	data, err := enc.Encode(img, p.cfg.Profile.Quality)
	if err != nil {
		return manifest.File{}, fmt.Errorf("encode %s as %s: %w", stem, enc.Format(), err)
	}

	contentHash := hasher.ContentHash(data, hasher.FullLen)
	name := fmt.Sprintf("%s.%s.%s", stem, contentHash[:hasher.NameLen], enc.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, name))

	if err := os.WriteFile(filepath.Join(p.cfg.OutputDir, relPath), data, 0o644); err != nil {
		return manifest.File{}, fmt.Errorf("write %s: %w", relPath, err)
	}

	b := img.Bounds()
	return manifest.File{
		Format: enc.Format(),
		Width:  b.Dx(),
		Height: b.Dy(),
		Size:   int64(len(data)),
		Hash:   contentHash,
		Path:   relPath,
	}, nil
}

// writeEXR names the export after the cube's texel bytes, since the EXR
// writer needs a seekable file before the output hash is known.
func (p *Pipeline) writeEXR(m *cubemap.CubeMap, keyDir, base string) (manifest.File, error) {
	name := fmt.Sprintf("%s.%s.exr", base, hasher.Digest(hasher.NameLen, m.Bytes()))
	relPath := filepath.ToSlash(filepath.Join(keyDir, name))
	full := filepath.Join(p.cfg.OutputDir, relPath)

	if err := exrout.WriteFile(full, m, p.exr); err != nil {
		return manifest.File{}, fmt.Errorf("write %s: %w", relPath, err)
	}
	st, err := os.Stat(full)
	if err != nil {
		return manifest.File{}, err
	}
	contentHash, err := hasher.FileHash(full, hasher.FullLen)
	if err != nil {
		return manifest.File{}, err
	}
	return manifest.File{
		Format: "exr",
		Width:  m.Size,
		Height: m.Size * cubemap.NumFaces,
		Size:   st.Size(),
		Hash:   contentHash,
		Path:   relPath,
	}, nil
}
