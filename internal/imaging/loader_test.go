package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createInMemoryImage creates a solid color RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a solid color PNG and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := createTestImage(t, 40, 30, color.RGBA{255, 0, 0, 255})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Bounds().Dx(), img.Bounds().Dy())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load should return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadNonExistent(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/frame.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_LoadInvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewImageCache().Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_LoadFrameIsACopy(t *testing.T) {
	cache := NewImageCache()
	path := createTestImage(t, 10, 10, color.White)

	frame, err := cache.LoadFrame(path)
	if err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	frame.Set(0, 0, color.Black)

	again, err := cache.LoadFrame(path)
	if err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	if again.RGBAAt(0, 0) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("drawing on a frame must not change the cached image")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	first := createTestImage(t, 5, 5, color.White)
	second := createTestImage(t, 6, 6, color.Black)

	if _, err := cache.Load(first); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cache.Load(second); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(first)
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d, want 0", cache.Len())
	}
}

func TestDecodeFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(12, 8, color.Black)); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	frame, err := DecodeFrame(&buf)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if frame.Bounds() != image.Rect(0, 0, 12, 8) {
		t.Errorf("bounds: got %v", frame.Bounds())
	}
}

func TestDecodeFrame_Invalid(t *testing.T) {
	if _, err := DecodeFrame(bytes.NewReader([]byte("garbage"))); err == nil {
		t.Error("DecodeFrame should fail for invalid data")
	}
}

func TestToRGBA_RebasesOrigin(t *testing.T) {
	base := createInMemoryImage(20, 20, color.White)
	base.Set(15, 12, color.Black)

	out := ToRGBA(base.SubImage(image.Rect(10, 10, 20, 20)))

	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if out.RGBAAt(5, 2) != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("pixel should move to (5,2), got %v", out.RGBAAt(5, 2))
	}
}

func TestSaveFrame(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.jpg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveFrame(createInMemoryImage(16, 16, color.White), path); err != nil {
				t.Fatalf("SaveFrame failed: %v", err)
			}
			img, err := NewImageCache().Load(path)
			if err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if img.Bounds().Dx() != 16 {
				t.Errorf("width: got %d, want 16", img.Bounds().Dx())
			}
		})
	}
}

func TestSaveFrame_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	if err := SaveFrame(createInMemoryImage(4, 4, color.White), path); err == nil {
		t.Error("SaveFrame should fail for an unsupported extension")
	}
}
