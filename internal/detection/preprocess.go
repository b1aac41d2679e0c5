package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// BT.601 luma weights, the same weights OpenCV uses for BGR to gray.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts img to 8-bit luminance.
//
// The returned image always has its origin at (0, 0), whatever the bounds of
// img, so pixel (x, y) of the result is pixel (x+Min.X, y+Min.Y) of img.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, width, height))
	if bounds.Empty() {
		return gray
	}

	// All three channels of the weighted result carry the luma value.
	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	for y := 0; y < height; y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			dst[x] = src[x*4]
		}
	}

	return gray
}

// EqualizeHist spreads the intensity histogram of gray over the full 0-255 range.
//
// The mapping is the classic cumulative distribution lookup:
//
//	lut[v] = round((cdf[v] - cdfMin) * 255 / (total - cdfMin))
//
// where cdfMin is the first non-zero cumulative count. An image with a single
// intensity has nothing to spread and is returned as an unchanged copy.
// The result has its origin at (0, 0).
func EqualizeHist(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	total := width * height
	if total == 0 {
		return out
	}

	cdf := histogram.NewRGBAHistogram(gray).R.Cumulative()

	cdfMin := 0
	for _, c := range cdf.Bins {
		if c > 0 {
			cdfMin = c
			break
		}
	}

	var lut [256]uint8
	for v := range lut {
		lut[v] = uint8(v)
	}
	if total > cdfMin {
		scale := 255.0 / float64(total-cdfMin)
		for v, c := range cdf.Bins {
			if c < cdfMin {
				lut[v] = 0
				continue
			}
			lut[v] = uint8(math.Round(float64(c-cdfMin) * scale))
		}
	}

	for y := 0; y < height; y++ {
		src := gray.Pix[gray.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < width; x++ {
			dst[x] = lut[src[x]]
		}
	}

	return out
}

// CropGray copies the part of gray inside r into a new image with its origin at (0, 0).
//
// r is clipped to the bounds of gray first, so a rectangle running over the
// image edge yields a smaller crop rather than out-of-bounds reads. No padding
// is added.
func CropGray(gray *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Canon().Intersect(gray.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))

	for y := 0; y < r.Dy(); y++ {
		src := gray.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], gray.Pix[src:src+r.Dx()])
	}

	return out
}
