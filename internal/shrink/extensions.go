package shrink

import (
	"path/filepath"
	"strings"
)

// Format is an image encoding the tool can read and write.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return "unknown"
}

// Extensions defines the interface for file extension operations.
type Extensions interface {
	// Format returns the image format implied by the extension, or FormatUnknown.
	Format(filePath string) Format
	// IsSupported returns true if the extension is jpg, jpeg, png or bmp.
	IsSupported(filePath string) bool
	// SmallerPath returns the sibling output path, e.g. photo.PNG -> photo_smaller.PNG.
	// It returns false when the path has no usable extension.
	SmallerPath(filePath string) (string, bool)
}

// extensions implements the Extensions interface.
type extensions struct {
	formats map[string]Format
}

// NewExtensions creates a new Extensions instance.
func NewExtensions() Extensions {
	return &extensions{
		formats: map[string]Format{
			"jpg":  FormatJPEG,
			"jpeg": FormatJPEG,
			"png":  FormatPNG,
			"bmp":  FormatBMP,
		},
	}
}

// splitExt returns the stem and the extension without its dot.
// A dot at the very start of the path does not begin an extension, so ".png"
// has none while "dir/.png" is a PNG with an empty name.
func splitExt(filePath string) (stem, ext string, ok bool) {
	ext = filepath.Ext(filepath.Base(filePath))
	if len(ext) < 2 || len(ext) == len(filePath) || !strings.HasSuffix(filePath, ext) {
		return "", "", false
	}
	return filePath[:len(filePath)-len(ext)], ext[1:], true
}

func (e *extensions) Format(filePath string) Format {
	_, ext, ok := splitExt(filePath)
	if !ok {
		return FormatUnknown
	}
	return e.formats[strings.ToLower(ext)]
}

func (e *extensions) IsSupported(filePath string) bool {
	return e.Format(filePath) != FormatUnknown
}

func (e *extensions) SmallerPath(filePath string) (string, bool) {
	stem, ext, ok := splitExt(filePath)
	if !ok {
		return "", false
	}
	return stem + "_smaller." + ext, true
}
