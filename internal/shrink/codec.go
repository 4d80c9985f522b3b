package shrink

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// Codec reads and writes image files.
type Codec interface {
	// Decode reads the image at path. The format is sniffed from the content.
	Decode(path string) (image.Image, error)
	// Encode writes img to path in the given format, replacing any existing file.
	Encode(path string, img image.Image, format Format) error
}

// imageCodec implements the Codec interface
type imageCodec struct {
	jpegQuality int
}

// NewCodec creates a Codec writing JPEGs at the given quality
func NewCodec(jpegQuality int) Codec {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = jpeg.DefaultQuality
	}
	return &imageCodec{jpegQuality: jpegQuality}
}

func (c *imageCodec) Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// Encode writes to a temporary sibling first so a failed write never leaves a truncated output
func (c *imageCodec) Encode(path string, img image.Image, format Format) (err error) {
	tmp, err := createTemp(filepath.Dir(path))
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = c.write(tmp, img, format); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if info, statErr := os.Stat(path); statErr == nil {
		if err = os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return os.Rename(tmpPath, path)
}

// createTemp opens a new hidden file in dir with mode 0644 less the umask.
// The name has a fixed length so long output names still fit.
func createTemp(dir string) (*os.File, error) {
	for range 100 {
		name := filepath.Join(dir, fmt.Sprintf(".imageshrink-%08x.tmp", rand.Uint32()))
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("cannot create temporary file in %s", dir)
}

func (c *imageCodec) write(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: c.jpegQuality})
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("cannot encode format %s", format)
}
