package render

import (
	"image"
	"image/png"
	"os"

	"github.com/vcnlab/stackscope/internal/errors"
)

// WritePNG writes a display frame as an 8-bit grayscale PNG.
// PNGs are the quick-look format; the lossless 16-bit data goes to TIFF.
func WritePNG(path string, d *DisplayFrame) error {
	if d == nil || d.Width <= 0 || d.Height <= 0 {
		return errors.Wrap(errors.ErrEmptyValue, "display frame")
	}

	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	copy(img.Pix, d.Pix)

	f, err := os.Create(path) // #nosec G304 -- caller controls the artifact path
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
