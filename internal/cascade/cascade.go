package cascade

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/ironsheep/faces-detector/internal/detection"
)

// ErrMalformedModel is returned when OpenCV rejects a model file.
var ErrMalformedModel = errors.New("not a valid cascade classifier model")

// Classifier is a loaded cascade classifier.
type Classifier struct {
	path       string
	classifier gocv.CascadeClassifier
}

// Load reads the cascade model at path. It satisfies detection.MatcherLoader.
//
// # Errors
//
//   - The file does not exist, is a directory, or cannot be read
//   - OpenCV cannot parse the file (ErrMalformedModel)
func Load(path string) (detection.Matcher, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Open is Load returning the concrete type.
func Open(path string) (*Classifier, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		_ = classifier.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrMalformedModel)
	}

	return &Classifier{path: path, classifier: classifier}, nil
}

// checkReadable fails early for paths OpenCV would only report as "false".
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat model: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("model path %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open model: %w", err)
	}
	return f.Close()
}

// DetectMultiScale runs the classifier over img at multiple scales.
//
// scaleFactor and minNeighbors are passed to OpenCV unchanged; no flags and
// no minimum or maximum object size are applied. Rectangles are in img
// coordinates.
func (c *Classifier) DetectMultiScale(img *image.Gray, scaleFactor float64, minNeighbors int) ([]image.Rectangle, error) {
	if img.Bounds().Empty() {
		return []image.Rectangle{}, nil
	}

	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to convert image: %w", c.path, err)
	}
	defer mat.Close()

	rects := c.classifier.DetectMultiScaleWithParams(
		mat,
		scaleFactor, minNeighbors, 0,
		image.Pt(0, 0), image.Pt(0, 0),
	)
	if rects == nil {
		rects = []image.Rectangle{}
	}
	return rects, nil
}

// Close releases the native classifier.
func (c *Classifier) Close() error {
	return c.classifier.Close()
}
