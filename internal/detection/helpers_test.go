package detection

import (
	"errors"
	"image"
	"image/color"
	"sync"
)

// scriptedMatcher returns fixed rectangles and records every call.
type scriptedMatcher struct {
	mu     sync.Mutex
	rects  []image.Rectangle
	err    error
	calls  []matcherCall
	closed bool
}

type matcherCall struct {
	bounds       image.Rectangle
	scaleFactor  float64
	minNeighbors int
}

func (m *scriptedMatcher) DetectMultiScale(img *image.Gray, scaleFactor float64, minNeighbors int) ([]image.Rectangle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, matcherCall{bounds: img.Bounds(), scaleFactor: scaleFactor, minNeighbors: minNeighbors})
	if m.err != nil {
		return nil, m.err
	}
	out := make([]image.Rectangle, len(m.rects))
	copy(out, m.rects)
	return out, nil
}

func (m *scriptedMatcher) Close() error {
	m.closed = true
	return nil
}

// darkPatternMatcher reports one rectangle per horizontal run of columns that
// contain pixels darker than threshold. It accepts any candidate, like a
// matcher run with zero required neighbors.
type darkPatternMatcher struct {
	threshold uint8
}

func (m darkPatternMatcher) DetectMultiScale(img *image.Gray, _ float64, _ int) ([]image.Rectangle, error) {
	b := img.Bounds()
	var rects []image.Rectangle

	inRun := false
	var run image.Rectangle
	for x := b.Min.X; x < b.Max.X; x++ {
		top, bottom := -1, -1
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if img.GrayAt(x, y).Y < m.threshold {
				if top < 0 {
					top = y
				}
				bottom = y
			}
		}
		switch {
		case top >= 0 && !inRun:
			inRun = true
			run = image.Rect(x, top, x+1, bottom+1)
		case top >= 0:
			run.Max.X = x + 1
			run.Min.Y = min(run.Min.Y, top)
			run.Max.Y = max(run.Max.Y, bottom+1)
		case inRun:
			inRun = false
			rects = append(rects, run)
		}
	}
	if inRun {
		rects = append(rects, run)
	}
	return rects, nil
}

// loaderFor returns a MatcherLoader serving matchers keyed by model path.
func loaderFor(matchers map[string]Matcher) MatcherLoader {
	return func(path string) (Matcher, error) {
		m, ok := matchers[path]
		if !ok {
			return nil, errors.New("no such model")
		}
		return m, nil
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Faces.ModelPath = "faces.xml"
	cfg.Eyes.ModelPath = "eyes.xml"
	cfg.Smiles.ModelPath = "smiles.xml"
	return cfg
}

// newTestDetector builds a detector over the three given matchers.
func newTestDetector(faces, eyes, smiles Matcher) (*RegionDetector, error) {
	return NewRegionDetector(testConfig(), loaderFor(map[string]Matcher{
		"faces.xml":  faces,
		"eyes.xml":   eyes,
		"smiles.xml": smiles,
	}))
}

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

// fillRect paints r on img.
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

var errTest = errors.New("test error")

func within(r Rect, width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= width && r.Y+r.Height <= height
}
