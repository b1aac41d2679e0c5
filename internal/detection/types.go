package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-playground/validator/v10"
)

// Rect is an axis-aligned bounding box in pixel space.
//
// (X, Y) is the top-left corner; Width and Height are never negative.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle returns r as an image.Rectangle ((X, Y) inclusive, (X+Width, Y+Height) exclusive).
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// rectFromImage converts a matcher rectangle into a Rect, clipped to bounds.
func rectFromImage(r image.Rectangle, bounds image.Rectangle) Rect {
	r = r.Canon().Intersect(bounds)
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// DetectionResult is one detected face with the eyes and smiles found inside it.
type DetectionResult struct {
	// Bounds is the face bounding box in frame coordinates.
	Bounds Rect `json:"bounds"`

	// Eyes are relative to Bounds, in matcher order. Empty when none were found.
	Eyes []Rect `json:"eyes"`

	// Smiles are relative to Bounds, in matcher order. Empty when none were found.
	Smiles []Rect `json:"smiles"`
}

// RegionKind names one of the three classifiers.
type RegionKind string

const (
	KindFaces  RegionKind = "faces"
	KindEyes   RegionKind = "eyes"
	KindSmiles RegionKind = "smiles"
)

// Kinds lists every region kind in search order.
var Kinds = []RegionKind{KindFaces, KindEyes, KindSmiles}

// ParseRegionKind maps a name such as "eyes" to its RegionKind.
func ParseRegionKind(name string) (RegionKind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown region kind: %s", name)
}

// Default classifier settings, matching the stock OpenCV cascade files.
const (
	DefaultFacesModelPath  = "./detectors/frontal_face_alt.xml"
	DefaultEyesModelPath   = "./detectors/eye.xml"
	DefaultSmilesModelPath = "./detectors/smile.xml"

	DefaultScaleFactor  = 1.3
	DefaultMinNeighbors = 5
)

// ClassifierConfig holds the model file and tuning knobs for one classifier.
//
// ScaleFactor and MinNeighbors are handed to the matcher as-is; this package
// does not interpret them.
type ClassifierConfig struct {
	ModelPath    string  `json:"model_path" yaml:"model_path"`
	ScaleFactor  float64 `json:"scale_factor" yaml:"scale_factor" validate:"gt=1"`
	MinNeighbors int     `json:"min_neighbors" yaml:"min_neighbors" validate:"gte=0"`
}

// Config configures the three classifiers of a RegionDetector.
type Config struct {
	Faces  ClassifierConfig `json:"faces" yaml:"faces"`
	Eyes   ClassifierConfig `json:"eyes" yaml:"eyes"`
	Smiles ClassifierConfig `json:"smiles" yaml:"smiles"`
}

// DefaultConfig returns the stock cascade paths with scale factor 1.3 and
// min-neighbors 5 for every classifier.
func DefaultConfig() Config {
	return Config{
		Faces:  ClassifierConfig{ModelPath: DefaultFacesModelPath, ScaleFactor: DefaultScaleFactor, MinNeighbors: DefaultMinNeighbors},
		Eyes:   ClassifierConfig{ModelPath: DefaultEyesModelPath, ScaleFactor: DefaultScaleFactor, MinNeighbors: DefaultMinNeighbors},
		Smiles: ClassifierConfig{ModelPath: DefaultSmilesModelPath, ScaleFactor: DefaultScaleFactor, MinNeighbors: DefaultMinNeighbors},
	}
}

// Classifier returns the configuration for kind.
func (c Config) Classifier(kind RegionKind) ClassifierConfig {
	switch kind {
	case KindEyes:
		return c.Eyes
	case KindSmiles:
		return c.Smiles
	default:
		return c.Faces
	}
}

var validate = validator.New()

// Validate checks the tuning knobs: every scale factor must be greater than
// 1.0 and every min-neighbors value must be zero or more. Model paths are
// checked when the models are loaded.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// ColorConfig maps a region kind to its rectangle color.
// Kinds missing from the map use DefaultColors.
type ColorConfig map[RegionKind]color.Color

// DefaultColors draws faces red, eyes green and smiles blue.
var DefaultColors = ColorConfig{
	KindFaces:  color.RGBA{R: 255, A: 255},
	KindEyes:   color.RGBA{G: 255, A: 255},
	KindSmiles: color.RGBA{B: 255, A: 255},
}

// For returns the color for kind, falling back to DefaultColors.
func (c ColorConfig) For(kind RegionKind) color.Color {
	if col, ok := c[kind]; ok && col != nil {
		return col
	}
	return DefaultColors[kind]
}
