package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio/npy"
)

// LoadSeries reads a one-dimensional float array saved with numpy.save.
// float32 and float64 payloads are both accepted.
func LoadSeries(path string) ([]float64, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()

	r, err := npy.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read series header %s: %w", path, err)
	}

	switch r.Header.Descr.Type {
	case "<f8", "f8", "float64":
		var out []float64
		if err := r.Read(&out); err != nil {
			return nil, fmt.Errorf("read series %s: %w", path, err)
		}
		return out, nil
	case "<f4", "f4", "float32":
		var raw []float32
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("read series %s: %w", path, err)
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("read series %s: unsupported dtype %q", path, r.Header.Descr.Type)
	}
}
