package encoder

import (
	"fmt"
	"strings"
)

// order is the listing order of formats.
var order = []string{"png", "webp", "jpeg"}

// aliases maps alternative spellings to format names.
var aliases = map[string]string{
	"jpg": "jpeg",
}

// Registry holds the available encoders keyed by format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry of every available encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&PNGEncoder{},
		&WebPEncoder{},
		&JPEGEncoder{},
	}
	for _, enc := range all {
		r.Register(enc)
	}
	return r
}

// Register adds enc if it is available, replacing any encoder of the
// same format.
func (r *Registry) Register(enc Encoder) {
	if enc.Available() {
		r.encoders[enc.Format()] = enc
	}
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Resolve is Get with an error naming the available formats.
func (r *Registry) Resolve(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported output format %q (%s)", format, r)
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	for f := range r.encoders {
		if !contains(order, f) {
			result = append(result, f)
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
