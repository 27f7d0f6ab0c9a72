package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a discovered source file.
type File struct {
	// Path is the path to the file on disk.
	Path string
	// Key is the path relative to the scanned directory, without
	// extension, using forward slashes.
	Key string
	// Format is the normalized format name (png, tiff, bmp, webp, tga, hdr).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// extensions maps recognized file extensions to format names.
var extensions = map[string]string{
	".png":  "png",
	".tif":  "tiff",
	".tiff": "tiff",
	".bmp":  "bmp",
	".webp": "webp",
	".tga":  "tga",
	".hdr":  "hdr",
	".pic":  "hdr",
}

// Supported reports whether path has a recognized extension.
func Supported(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scan walks dir and returns every supported file, sorted by key.
// Hidden directories are skipped.
func Scan(dir string) ([]File, error) {
	var files []File

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := extensions[ext]
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		files = append(files, File{
			Path:   path,
			Key:    filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))),
			Format: format,
			Size:   info.Size(),
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, err
}
