package detection

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultStrokeWidth is the rectangle outline width in pixels.
const DefaultStrokeWidth = 2

// DetectAndAnnotate runs Detect and draws the results onto frame.
//
// The frame is modified in place and returned, so a capture loop can hand the
// return value straight to its display. Colors missing from colors (or a nil
// map) use DefaultColors. When Detect fails the frame is returned untouched
// together with the error.
func (d *RegionDetector) DetectAndAnnotate(frame draw.Image, colors ColorConfig) (draw.Image, error) {
	if frame == nil {
		return nil, ErrInvalidFrame
	}

	results, err := d.Detect(frame)
	if err != nil {
		return frame, err
	}

	Annotate(frame, results, colors)
	return frame, nil
}

// Annotate draws results onto frame without detecting anything.
//
// Face rectangles are drawn in frame coordinates. Eye and smile rectangles are
// drawn through a view of the face region, so their face-relative coordinates
// land in the right place and strokes never leave the face.
func Annotate(frame draw.Image, results []DetectionResult, colors ColorConfig) {
	canvas := newRegionView(frame, frame.Bounds())

	for _, res := range results {
		drawRect(canvas, res.Bounds, colors.For(KindFaces), DefaultStrokeWidth)

		face := newRegionView(canvas, res.Bounds.Rectangle())
		for _, eye := range res.Eyes {
			drawRect(face, eye, colors.For(KindEyes), DefaultStrokeWidth)
		}
		for _, smile := range res.Smiles {
			drawRect(face, smile, colors.For(KindSmiles), DefaultStrokeWidth)
		}
	}
}

// drawRect outlines r on dst with a stroke of the given width laid inside
// the corners (X, Y) and (X+Width, Y+Height).
func drawRect(dst draw.Image, r Rect, c color.Color, stroke int) {
	if stroke < 1 {
		stroke = 1
	}
	src := image.NewUniform(c)
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width+1, r.Y+r.Height+1

	edges := []image.Rectangle{
		image.Rect(x0, y0, x1, min(y0+stroke, y1)),
		image.Rect(x0, max(y1-stroke, y0), x1, y1),
		image.Rect(x0, y0, min(x0+stroke, x1), y1),
		image.Rect(max(x1-stroke, x0), y0, x1, y1),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// regionView exposes the window of dst covering r as an image whose origin is
// r.Min. Pixels outside the window are neither read nor written.
type regionView struct {
	dst    draw.Image
	origin image.Point
	clip   image.Rectangle
}

func newRegionView(dst draw.Image, r image.Rectangle) *regionView {
	return &regionView{
		dst:    dst,
		origin: r.Min,
		clip:   r.Intersect(dst.Bounds()),
	}
}

func (v *regionView) ColorModel() color.Model {
	return v.dst.ColorModel()
}

func (v *regionView) Bounds() image.Rectangle {
	return v.clip.Sub(v.origin)
}

func (v *regionView) At(x, y int) color.Color {
	p := image.Pt(x, y).Add(v.origin)
	if !p.In(v.clip) {
		return color.Transparent
	}
	return v.dst.At(p.X, p.Y)
}

func (v *regionView) Set(x, y int, c color.Color) {
	p := image.Pt(x, y).Add(v.origin)
	if p.In(v.clip) {
		v.dst.Set(p.X, p.Y, c)
	}
}
