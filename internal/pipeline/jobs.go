package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/cubeview-cli/internal/source"
)

// Job is one cube map to render, optionally against a reference.
type Job struct {
	Key       string // output key, relative path without extension
	Path      string
	Reference string // empty for direct display
}

// Jobs expands input into jobs. input is a file or a directory scanned
// recursively. reference may be empty, a single file used for every job,
// or a directory whose files are paired with input files by key.
func Jobs(input, reference string) ([]Job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", input, err)
	}

	var jobs []Job
	if info.IsDir() {
		files, err := source.Scan(input)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no cube maps found in %s", input)
		}
		for _, f := range files {
			jobs = append(jobs, Job{Key: f.Key, Path: f.Path})
		}
	} else {
		base := filepath.Base(input)
		jobs = []Job{{Key: strings.TrimSuffix(base, filepath.Ext(base)), Path: input}}
	}

	if reference == "" {
		return jobs, nil
	}

	refInfo, err := os.Stat(reference)
	if err != nil {
		return nil, fmt.Errorf("stat reference %s: %w", reference, err)
	}
	if !refInfo.IsDir() {
		for i := range jobs {
			jobs[i].Reference = reference
		}
		return jobs, nil
	}

	refs, err := source.Scan(reference)
	if err != nil {
		return nil, fmt.Errorf("scan reference: %w", err)
	}
	byKey := make(map[string]string, len(refs))
	for _, r := range refs {
		byKey[r.Key] = r.Path
	}
	for i := range jobs {
		ref, ok := byKey[jobs[i].Key]
		if !ok {
			return nil, fmt.Errorf("no reference for %q in %s", jobs[i].Key, reference)
		}
		jobs[i].Reference = ref
	}
	return jobs, nil
}
