package shrink

import (
	"fmt"
	"path/filepath"

	"github.com/acm19/imageshrink/internal/logger"
	"github.com/barasher/go-exiftool"
)

const (
	// ExifOriginalFileName is the metadata field holding the name of the file an output was shrunk from
	ExifOriginalFileName = "OriginalFileName"
)

// ExifTagger defines the interface for writing metadata into shrunken files
type ExifTagger interface {
	// TagOriginalName records originalName in the OriginalFileName field of filePath
	// unless the field is already set. BMP files are skipped as exiftool cannot write them.
	// Returns true if the field was written.
	TagOriginalName(filePath, originalName string) (bool, error)
}

// exifTagger implements the ExifTagger interface
type exifTagger struct {
	et         *exiftool.Exiftool
	extensions Extensions
}

// NewExifTagger creates a new ExifTagger on top of a running exiftool
func NewExifTagger(et *exiftool.Exiftool) ExifTagger {
	return &exifTagger{
		et:         et,
		extensions: NewExtensions(),
	}
}

// NewExiftool starts an exiftool process, using binaryPath when it is set
func NewExiftool(binaryPath string) (*exiftool.Exiftool, error) {
	var opts []func(*exiftool.Exiftool) error
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return et, nil
}

func (t *exifTagger) TagOriginalName(filePath, originalName string) (bool, error) {
	if t.et == nil {
		return false, fmt.Errorf("exiftool not initialised")
	}

	switch t.extensions.Format(filePath) {
	case FormatJPEG, FormatPNG:
	default:
		logger.Debug("Skipping metadata write", "file", filepath.Base(filePath))
		return false, nil
	}

	fileInfos := t.et.ExtractMetadata(filePath)
	if len(fileInfos) == 0 {
		return false, fmt.Errorf("no metadata returned for %s", filePath)
	}
	if fileInfos[0].Err != nil {
		return false, fmt.Errorf("failed to read metadata of %s: %w", filePath, fileInfos[0].Err)
	}
	if _, err := fileInfos[0].GetString(ExifOriginalFileName); err == nil {
		logger.Debug("OriginalFileName already exists, skipping", "file", filepath.Base(filePath))
		return false, nil
	}

	// only the new field is written; extracted fields include FileName and Directory
	md := []exiftool.FileMetadata{{File: filePath, Fields: map[string]interface{}{}}}
	md[0].SetString(ExifOriginalFileName, originalName)
	t.et.WriteMetadata(md)
	if md[0].Err != nil {
		return false, fmt.Errorf("failed to write %s: %w", ExifOriginalFileName, md[0].Err)
	}

	logger.Debug("Wrote OriginalFileName", "file", filepath.Base(filePath), "original", originalName)
	return true, nil
}
