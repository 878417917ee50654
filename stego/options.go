package stego

import (
	"image/png"

	"github.com/creasty/defaults"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// Options contains optional parameters about Hide.
type Options struct {
	// VideoWorkers is the number of goroutines that write video frame
	// bits, zero means the number of CPU cores.
	VideoWorkers int `default:"0"`

	// PNGCompression is the compression level about the png encoder,
	// zero means the best compression.
	PNGCompression png.CompressionLevel `default:"-3"`
}

// Apply is used to apply default value and check value range.
func (opts *Options) Apply() (*Options, error) {
	cp := deepcopy.Copy(opts).(*Options)
	err := defaults.Set(cp)
	if err != nil {
		return nil, err
	}
	if cp.VideoWorkers < 0 {
		return nil, errors.New("negative video worker number")
	}
	if cp.PNGCompression < png.BestCompression || cp.PNGCompression > png.DefaultCompression {
		return nil, errors.New("invalid png compression level")
	}
	return cp, nil
}
