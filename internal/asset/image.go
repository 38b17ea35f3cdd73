package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the longest edge kept for uploaded images.
const MaxDimension = 4096

var ErrUnsupportedFormat = errors.New("unsupported image format")

var supportedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
}

// Decoded is an uploaded image ready to be stored.
type Decoded struct {
	Image         image.Image
	Format        string
	NaturalWidth  int
	NaturalHeight int
}

// Decode reads a PNG, JPEG or WebP image and scales it down so that its longest
// edge is at most maxDim. NaturalWidth and NaturalHeight describe the stored image.
func Decode(r io.Reader, maxDim int) (*Decoded, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if !supportedFormats[format] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	img = Downscale(img, maxDim)
	b := img.Bounds()
	return &Decoded{
		Image:         img,
		Format:        format,
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
	}, nil
}

// Downscale returns img unchanged when it fits within maxDim, otherwise a copy
// scaled with Catmull-Rom keeping the aspect ratio.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
