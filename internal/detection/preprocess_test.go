package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  uint8
	}{
		{"black", color.Black, 0},
		{"white", color.White, 255},
		{"red", color.RGBA{R: 255, A: 255}, 76},
		{"green", color.RGBA{G: 255, A: 255}, 150},
		{"blue", color.RGBA{B: 255, A: 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := Grayscale(createInMemoryImage(4, 3, tt.color))
			if gray.Bounds() != image.Rect(0, 0, 4, 3) {
				t.Fatalf("bounds: got %v, want 4x3", gray.Bounds())
			}
			if got := gray.GrayAt(2, 1).Y; got != tt.want {
				t.Errorf("luma: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrayscale_RebasesOrigin(t *testing.T) {
	base := createInMemoryImage(20, 20, color.White)
	base.Set(12, 15, color.Black)
	sub := base.SubImage(image.Rect(10, 10, 20, 20))

	gray := Grayscale(sub)

	if gray.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds: got %v, want (0,0)-(10,10)", gray.Bounds())
	}
	if gray.GrayAt(2, 5).Y != 0 {
		t.Errorf("black pixel should move to (2,5), got %d", gray.GrayAt(2, 5).Y)
	}
}

func TestGrayscale_Empty(t *testing.T) {
	gray := Grayscale(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !gray.Bounds().Empty() {
		t.Errorf("expected empty image, got %v", gray.Bounds())
	}
}

func TestEqualizeHist_StretchesRange(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 1))
	gray.Pix = []uint8{100, 100, 110, 120}

	eq := EqualizeHist(gray)

	// cdf: 100->2, 110->3, 120->4; cdfMin 2, total 4
	want := []uint8{0, 0, 128, 255}
	for x, w := range want {
		if got := eq.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestEqualizeHist_SingleIntensityUnchanged(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}

	eq := EqualizeHist(gray)

	for i, v := range eq.Pix {
		if v != 77 {
			t.Fatalf("pixel %d: got %d, want 77", i, v)
		}
	}
}

func TestEqualizeHist_DoesNotModifyInput(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []uint8{10, 20}

	_ = EqualizeHist(gray)

	if gray.Pix[0] != 10 || gray.Pix[1] != 20 {
		t.Errorf("input changed: %v", gray.Pix)
	}
}

func TestCropGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(y*10 + x)})
		}
	}

	tests := []struct {
		name       string
		r          image.Rectangle
		wantBounds image.Rectangle
		wantFirst  uint8
	}{
		{"inside", image.Rect(2, 3, 6, 8), image.Rect(0, 0, 4, 5), 32},
		{"past right and bottom edge", image.Rect(7, 8, 15, 20), image.Rect(0, 0, 3, 2), 87},
		{"past top-left edge", image.Rect(-3, -3, 2, 2), image.Rect(0, 0, 2, 2), 0},
		{"outside", image.Rect(20, 20, 30, 30), image.Rect(0, 0, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop := CropGray(gray, tt.r)
			if crop.Bounds() != tt.wantBounds {
				t.Fatalf("bounds: got %v, want %v", crop.Bounds(), tt.wantBounds)
			}
			if !crop.Bounds().Empty() && crop.GrayAt(0, 0).Y != tt.wantFirst {
				t.Errorf("first pixel: got %d, want %d", crop.GrayAt(0, 0).Y, tt.wantFirst)
			}
		})
	}
}
