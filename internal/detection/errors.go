package detection

import (
	"errors"
	"fmt"
)

// ErrInvalidFrame is returned for a nil frame.
var ErrInvalidFrame = errors.New("invalid frame")

// ErrClosed is returned by Detect after Close.
var ErrClosed = errors.New("detector is closed")

// ErrEmptyModelPath is wrapped in a ModelLoadError when no model path was configured.
var ErrEmptyModelPath = errors.New("model path is empty")

// ModelLoadError reports a classifier model that could not be loaded.
// It is only returned by NewRegionDetector.
type ModelLoadError struct {
	Kind RegionKind
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load %s model %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// ConfigError reports classifier tuning values out of range.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid detector config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
