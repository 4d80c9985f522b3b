package shrink

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/acm19/imageshrink/internal/logger"
	"github.com/dustin/go-humanize"
)

// Downscaler defines the interface for shrinking a single image file
type Downscaler interface {
	// Shrink writes a copy of path reduced by factor next to the original.
	// Failures are reported in the Outcome, never as a panic.
	Shrink(path string, factor Factor) Outcome
}

// downscaler implements the Downscaler interface
type downscaler struct {
	codec      Codec
	extensions Extensions
	mode       OutputMode
}

// NewDownscaler creates a Downscaler backed by the standard codecs
func NewDownscaler(opts Options) Downscaler {
	return NewDownscalerWithCodec(NewCodec(opts.JPEGQuality), opts)
}

// NewDownscalerWithCodec creates a Downscaler with a custom codec
func NewDownscalerWithCodec(codec Codec, opts Options) Downscaler {
	mode := opts.OutputMode
	if mode == "" {
		mode = OutputSource
	}
	return &downscaler{
		codec:      codec,
		extensions: NewExtensions(),
		mode:       mode,
	}
}

func (d *downscaler) Shrink(path string, factor Factor) (out Outcome) {
	out = Outcome{Name: filepath.Base(path), Source: path}

	if err := factor.Validate(); err != nil {
		out.Err = err
		return out
	}

	format := d.extensions.Format(path)
	dest, ok := d.extensions.SmallerPath(path)
	if format == FormatUnknown || !ok {
		logger.Debug("Skipping unsupported file", "file", out.Name)
		out.Err = fmt.Errorf("%w: %s", ErrUnsupportedType, out.Name)
		return out
	}
	if d.mode == OutputJPEG {
		format = FormatJPEG
	}

	defer func() {
		if r := recover(); r != nil {
			out.Output = ""
			out.Err = fmt.Errorf("%w: %s: %v", ErrDecode, out.Name, r)
		}
	}()

	img, err := d.codec.Decode(path)
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrDecode, out.Name, err)
		return out
	}

	small, err := Resample(img, factor)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", out.Name, err)
		return out
	}
	logger.Debug("Resampled image",
		"file", out.Name,
		"from", img.Bounds().Size(),
		"to", small.Bounds().Size(),
		"factor", factor)

	if err := d.codec.Encode(dest, small, format); err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrEncode, filepath.Base(dest), err)
		return out
	}
	out.Output = dest

	if info, err := os.Stat(path); err == nil {
		out.InputBytes = info.Size()
	}
	if info, err := os.Stat(dest); err == nil {
		out.OutputBytes = info.Size()
	}
	logger.Debug("Wrote shrunken image",
		"file", filepath.Base(dest),
		"format", format,
		"input_size", humanize.Bytes(uint64(out.InputBytes)),
		"output_size", humanize.Bytes(uint64(out.OutputBytes)))
	return out
}

// MaxOutputPixels bounds the output of factors below 1, which enlarge the image.
const MaxOutputPixels = 1 << 28

// TargetSize returns the output dimensions ceil(w/f) x ceil(h/f), at least 1x1.
// It fails with ErrInvalidFactor when the result would exceed MaxOutputPixels.
func TargetSize(w, h int, f Factor) (int, int, error) {
	if err := f.Validate(); err != nil {
		return 0, 0, err
	}
	fw, fh := scaledLength(w, f), scaledLength(h, f)
	if math.IsInf(fw, 0) || math.IsInf(fh, 0) || fw*fh > MaxOutputPixels {
		return 0, 0, fmt.Errorf("%w: factor %v gives a %.0fx%.0f image, over %d pixels",
			ErrInvalidFactor, f, fw, fh, MaxOutputPixels)
	}
	return int(fw), int(fh), nil
}

// scaledLength stays in float64 so huge results are caught before int conversion
func scaledLength(n int, f Factor) float64 {
	return max(math.Ceil(float64(n)/float64(f)), 1)
}

// Resample point-samples src into an opaque RGBA image of TargetSize.
// Output pixel (x, y) copies source pixel (floor(x*f), floor(y*f)).
func Resample(src image.Image, f Factor) (*image.RGBA, error) {
	b := src.Bounds()
	w, h, err := TargetSize(b.Dx(), b.Dy(), f)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for oy := 0; oy < h; oy++ {
		sy := b.Min.Y + sampleIndex(oy, f, b.Dy())
		for ox := 0; ox < w; ox++ {
			sx := b.Min.X + sampleIndex(ox, f, b.Dx())
			// alpha is dropped, not composited
			c := color.NRGBAModel.Convert(src.At(sx, sy)).(color.NRGBA)
			dst.SetRGBA(ox, oy, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst, nil
}

func sampleIndex(o int, f Factor, n int) int {
	return min(int(math.Floor(float64(o)*float64(f))), n-1)
}
