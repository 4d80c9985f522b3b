package shrink

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/barasher/go-exiftool"
	"golang.org/x/image/bmp"
)

// gradient returns an opaque image whose pixel (x, y) encodes its own coordinates
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

// createTestImage writes a w x h gradient to dir/filename in the given format
func createTestImage(t *testing.T, dir, filename string, w, h int, format Format) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)
	f, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create image %s: %v", filePath, err)
	}
	defer f.Close()

	img := gradient(w, h)
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, nil)
	case FormatPNG:
		err = png.Encode(f, img)
	case FormatBMP:
		err = bmp.Encode(f, img)
	default:
		t.Fatalf("Cannot create test image in format %s", format)
	}
	if err != nil {
		t.Fatalf("Failed to encode image %s: %v", filePath, err)
	}
	return filePath
}

func createTestFile(t *testing.T, dir, filename string) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", filePath, err)
	}
	return filePath
}

func createTestDir(t *testing.T, parentDir, name string) string {
	t.Helper()
	dirPath := filepath.Join(parentDir, name)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dirPath, err)
	}
	return dirPath
}

// readTestImage decodes the file at path and returns it with its sniffed format name
func readTestImage(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return img, format
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// createTestExiftool creates an exiftool instance for testing and ensures cleanup
func createTestExiftool(t *testing.T) *exiftool.Exiftool {
	t.Helper()
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Fatalf("Failed to create exiftool: %v", err)
	}
	t.Cleanup(func() { et.Close() })
	return et
}
