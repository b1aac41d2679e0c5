package detection

import (
	"errors"
	"image"
	"io"
)

// Matcher finds a trained visual pattern in a grayscale image.
//
// DetectMultiScale returns axis-aligned rectangles in the coordinates of img,
// whose origin is always (0, 0). It returns an empty slice, not an error, when
// nothing matches. scaleFactor and minNeighbors are opaque tuning knobs.
//
// A Matcher that also implements io.Closer is closed by RegionDetector.Close.
type Matcher interface {
	DetectMultiScale(img *image.Gray, scaleFactor float64, minNeighbors int) ([]image.Rectangle, error)
}

// MatcherLoader builds a Matcher from a model file.
type MatcherLoader func(path string) (Matcher, error)

// RegionDetector finds faces and the eyes and smiles inside them.
//
// Create one with NewRegionDetector and reuse it for every frame. It keeps no
// state between frames.
type RegionDetector struct {
	cfg    Config
	faces  Matcher
	eyes   Matcher
	smiles Matcher
}

// NewRegionDetector validates cfg and loads the face, eye and smile models
// with load.
//
// Every model is loaded here, before any frame is processed. A missing,
// unreadable or malformed model file yields a *ModelLoadError naming the
// region kind and path; in that case no detector is returned and any models
// loaded so far are released. Out-of-range tuning values yield a *ConfigError.
func NewRegionDetector(cfg Config, load MatcherLoader) (*RegionDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &RegionDetector{cfg: cfg}
	slots := []struct {
		kind RegionKind
		dst  *Matcher
	}{
		{KindFaces, &d.faces},
		{KindEyes, &d.eyes},
		{KindSmiles, &d.smiles},
	}

	for _, slot := range slots {
		path := cfg.Classifier(slot.kind).ModelPath
		m, err := loadMatcher(load, path)
		if err != nil {
			_ = d.Close()
			return nil, &ModelLoadError{Kind: slot.kind, Path: path, Err: err}
		}
		*slot.dst = m
	}

	return d, nil
}

func loadMatcher(load MatcherLoader, path string) (Matcher, error) {
	if path == "" {
		return nil, ErrEmptyModelPath
	}
	m, err := load(path)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("loader returned no matcher")
	}
	return m, nil
}

// Config returns the configuration the detector was built with.
func (d *RegionDetector) Config() Config {
	return d.cfg
}

// Detect finds faces in frame and the eyes and smiles inside each face.
//
// Results are returned in the order the face matcher produced them. An empty
// frame, or a frame without faces, yields an empty slice and no error. Eye and
// smile counts are whatever the matchers return; nothing is capped.
//
// Errors from the matchers are returned unchanged, with no partial results.
// A nil frame yields ErrInvalidFrame, and a closed detector ErrClosed.
func (d *RegionDetector) Detect(frame image.Image) ([]DetectionResult, error) {
	if d.faces == nil {
		return nil, ErrClosed
	}
	if frame == nil {
		return nil, ErrInvalidFrame
	}

	results := make([]DetectionResult, 0)
	if frame.Bounds().Empty() {
		return results, nil
	}

	gray := EqualizeHist(Grayscale(frame))

	faces, err := d.match(d.faces, d.cfg.Faces, gray)
	if err != nil {
		return nil, err
	}

	for _, face := range faces {
		result := DetectionResult{
			Bounds: face,
			Eyes:   []Rect{},
			Smiles: []Rect{},
		}

		if !face.Empty() {
			crop := CropGray(gray, face.Rectangle())

			if result.Eyes, err = d.match(d.eyes, d.cfg.Eyes, crop); err != nil {
				return nil, err
			}
			if result.Smiles, err = d.match(d.smiles, d.cfg.Smiles, crop); err != nil {
				return nil, err
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// match runs m over img and converts its output at the boundary, clipping
// every rectangle to img.
func (d *RegionDetector) match(m Matcher, cfg ClassifierConfig, img *image.Gray) ([]Rect, error) {
	raw, err := m.DetectMultiScale(img, cfg.ScaleFactor, cfg.MinNeighbors)
	if err != nil {
		return nil, err
	}

	rects := make([]Rect, 0, len(raw))
	for _, r := range raw {
		rects = append(rects, rectFromImage(r, img.Bounds()))
	}
	return rects, nil
}

// Close releases matchers that hold native resources. Later calls to Detect
// return ErrClosed; closing twice is a no-op.
func (d *RegionDetector) Close() error {
	var errs []error
	for _, m := range []Matcher{d.faces, d.eyes, d.smiles} {
		if c, ok := m.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	d.faces, d.eyes, d.smiles = nil, nil, nil
	return errors.Join(errs...)
}
