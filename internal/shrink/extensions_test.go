package shrink

import (
	"testing"
)

func TestExtensions_Format(t *testing.T) {
	ext := NewExtensions()

	tests := []struct {
		filePath string
		expected Format
	}{
		{"photo.jpg", FormatJPEG},
		{"photo.JPG", FormatJPEG},
		{"photo.JpG", FormatJPEG},
		{"photo.jpeg", FormatJPEG},
		{"photo.JPEG", FormatJPEG},
		{"logo.png", FormatPNG},
		{"logo.PNG", FormatPNG},
		{"scan.bmp", FormatBMP},
		{"scan.BMP", FormatBMP},
		{"/path/to/image.jpg", FormatJPEG},
		{"/path.with.dots/image.png", FormatPNG},
		{"archive.tar.bmp", FormatBMP},
		{"notes.txt", FormatUnknown},
		{"anim.gif", FormatUnknown},
		{"photo.heic", FormatUnknown},
		{"photo.jpg.txt", FormatUnknown},
		{"/path/to/.jpg", FormatJPEG},
		{"dir/.png", FormatPNG},
		{".png", FormatUnknown},
	}

	for _, tt := range tests {
		result := ext.Format(tt.filePath)
		if result != tt.expected {
			t.Errorf("Format(%s) = %v, expected %v", tt.filePath, result, tt.expected)
		}
	}
}

func TestExtensions_NoExtension(t *testing.T) {
	ext := NewExtensions()

	tests := []string{
		"filename",
		"file_without_extension",
		"/path/to/file",
		"/path.jpg/file",
		"photo.",
		".png",
		".JPG",
	}

	for _, filePath := range tests {
		if ext.IsSupported(filePath) {
			t.Errorf("IsSupported(%s) should be false for file without extension", filePath)
		}
		if out, ok := ext.SmallerPath(filePath); ok {
			t.Errorf("SmallerPath(%s) = %q, expected no output path", filePath, out)
		}
	}
}

func TestExtensions_SmallerPath(t *testing.T) {
	ext := NewExtensions()

	tests := []struct {
		filePath string
		expected string
	}{
		{"photo.jpg", "photo_smaller.jpg"},
		{"photo.PNG", "photo_smaller.PNG"},
		{"Photo.JpEg", "Photo_smaller.JpEg"},
		{"/path/to/scan.bmp", "/path/to/scan_smaller.bmp"},
		{"/path.with.dots/image.png", "/path.with.dots/image_smaller.png"},
		{"archive.tar.bmp", "archive.tar_smaller.bmp"},
		{"notes.txt", "notes_smaller.txt"},
		{"/path/to/.jpg", "/path/to/_smaller.jpg"},
		{"dir/.PNG", "dir/_smaller.PNG"},
	}

	for _, tt := range tests {
		result, ok := ext.SmallerPath(tt.filePath)
		if !ok || result != tt.expected {
			t.Errorf("SmallerPath(%s) = %q, %v, expected %q", tt.filePath, result, ok, tt.expected)
		}
	}
}
