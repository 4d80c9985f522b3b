package shrink

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrUnsupportedType is returned for files whose extension is not jpg, jpeg, png or bmp.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrDecode is returned when the source cannot be read or is not a valid image.
	ErrDecode = errors.New("failed to decode image")
	// ErrEncode is returned when the shrunken image cannot be written.
	ErrEncode = errors.New("failed to encode image")
	// ErrNoFiles is returned by Run when none of the given paths is a regular file.
	ErrNoFiles = errors.New("no files found")
	// ErrNoFactor is returned by Run when the factor is NoFactor.
	ErrNoFactor = errors.New("no reduction factor chosen")
	// ErrInvalidFactor is returned by Run for negative, NaN or infinite factors.
	ErrInvalidFactor = errors.New("invalid reduction factor")
)

// Factor is the divisor applied to both width and height.
type Factor float64

// NoFactor means the user did not choose a factor.
const NoFactor Factor = 0

// Choices are the factors offered to the user, the first one being the default.
var Choices = []Factor{2, 4, 8, 16}

// Validate reports ErrNoFactor for the sentinel and ErrInvalidFactor for anything not positive and finite.
func (f Factor) Validate() error {
	v := float64(f)
	switch {
	case f == NoFactor:
		return ErrNoFactor
	case math.IsNaN(v), math.IsInf(v, 0), v < 0:
		return fmt.Errorf("%w: %v", ErrInvalidFactor, v)
	}
	return nil
}

// String returns the shortest decimal form, e.g. "2" or "1.5".
func (f Factor) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// OutputMode selects which codec writes the shrunken file.
type OutputMode string

const (
	// OutputSource encodes with the codec matching the file extension.
	OutputSource OutputMode = "source"
	// OutputJPEG always writes JPEG bytes, whatever the extension says.
	OutputJPEG OutputMode = "jpeg"
)

// ParseOutputMode converts a flag value into an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch m := OutputMode(s); m {
	case OutputSource, OutputJPEG:
		return m, nil
	}
	return "", fmt.Errorf("invalid output format %q (expected %q or %q)", s, OutputSource, OutputJPEG)
}

// Options holds configuration options for a batch run.
type Options struct {
	// OutputMode selects the output codec.
	OutputMode OutputMode
	// JPEGQuality is the quality level for JPEG outputs (1-100).
	JPEGQuality int
	// TagOriginalName writes the source file name into each output's metadata.
	TagOriginalName bool
	// ExiftoolPath overrides the exiftool binary used for tagging.
	ExiftoolPath string
	// ProgressChan is an optional channel for receiving progress events.
	ProgressChan chan<- ProgressEvent
}

// DefaultOptions returns the default batch options.
func DefaultOptions() Options {
	return Options{
		OutputMode:  OutputSource,
		JPEGQuality: 75,
	}
}

// ProgressEvent represents a progress update during a batch run.
type ProgressEvent struct {
	// Stage is "shrinking" or "tagging".
	Stage string
	// Current is the 1-based index of the file being processed.
	Current int
	// Total is the number of files in the batch.
	Total int
	// Message is a human-readable description of the current operation.
	Message string
	// File is the path of the file currently being processed.
	File string
}

// Outcome is the result of shrinking a single file.
type Outcome struct {
	// Name is the base name of the source, used in reports.
	Name string
	// Source is the path that was processed.
	Source string
	// Output is the path written on success.
	Output string
	// Err is nil on success.
	Err error
	// InputBytes and OutputBytes are the file sizes on disk.
	InputBytes  int64
	OutputBytes int64
}

// OK reports whether the file was shrunk.
func (o Outcome) OK() bool {
	return o.Err == nil
}
