// Package config assembles the runtime configuration of faces-detector.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// FACES_* environment variables. Command-line flags are applied on top by the
// cli package. The result is checked with Validate before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/imaging"
)

// Environment variable names.
const (
	EnvFacesModel     = "FACES_FACE_MODEL"
	EnvFacesScale     = "FACES_FACE_SCALE"
	EnvFacesNeighbors = "FACES_FACE_NEIGHBORS"

	EnvEyesModel     = "FACES_EYE_MODEL"
	EnvEyesScale     = "FACES_EYE_SCALE"
	EnvEyesNeighbors = "FACES_EYE_NEIGHBORS"

	EnvSmilesModel     = "FACES_SMILE_MODEL"
	EnvSmilesScale     = "FACES_SMILE_SCALE"
	EnvSmilesNeighbors = "FACES_SMILE_NEIGHBORS"

	EnvDevice = "FACES_DEVICE"
	EnvWindow = "FACES_WINDOW"

	EnvPreviewAddr    = "FACES_PREVIEW_ADDR"
	EnvPreviewWidth   = "FACES_PREVIEW_WIDTH"
	EnvPreviewQuality = "FACES_PREVIEW_QUALITY"

	EnvLogLevel = "FACES_LOG_LEVEL"
	EnvLogFile  = "FACES_LOG_FILE"

	EnvFacesColor  = "FACES_COLOR_FACE"
	EnvEyesColor   = "FACES_COLOR_EYE"
	EnvSmilesColor = "FACES_COLOR_SMILE"
)

// colorEnv maps each region kind to its hex color variable.
var colorEnv = map[detection.RegionKind]string{
	detection.KindFaces:  EnvFacesColor,
	detection.KindEyes:   EnvEyesColor,
	detection.KindSmiles: EnvSmilesColor,
}

type Config struct {
	Detection detection.Config  `yaml:"detection"`
	Colors    map[string]string `yaml:"colors"`
	Webcam    WebcamConfig      `yaml:"webcam"`
	Preview   PreviewConfig     `yaml:"preview"`
	Log       LogConfig         `yaml:"log"`
}

type WebcamConfig struct {
	Device int    `yaml:"device" validate:"gte=0"`
	Window string `yaml:"window" validate:"required"`
}

type PreviewConfig struct {
	Addr        string `yaml:"addr" validate:"required"`
	MaxWidth    int    `yaml:"max_width" validate:"gte=0"` // 0 keeps the camera resolution
	JPEGQuality int    `yaml:"jpeg_quality" validate:"min=1,max=100"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn warning error"`
	File  string `yaml:"file"` // rotated log file; empty logs to stderr only
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Detection: detection.DefaultConfig(),
		Colors:    map[string]string{},
		Webcam: WebcamConfig{
			Device: 0,
			Window: "Faces",
		},
		Preview: PreviewConfig{
			Addr:        "127.0.0.1:8501",
			MaxWidth:    960,
			JPEGQuality: 80,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	applyClassifierEnv(&c.Detection.Faces, EnvFacesModel, EnvFacesScale, EnvFacesNeighbors)
	applyClassifierEnv(&c.Detection.Eyes, EnvEyesModel, EnvEyesScale, EnvEyesNeighbors)
	applyClassifierEnv(&c.Detection.Smiles, EnvSmilesModel, EnvSmilesScale, EnvSmilesNeighbors)

	for _, kind := range detection.Kinds {
		if v := os.Getenv(colorEnv[kind]); v != "" {
			if c.Colors == nil {
				c.Colors = map[string]string{}
			}
			c.Colors[string(kind)] = v
		}
	}

	c.Webcam.Device = envInt(EnvDevice, c.Webcam.Device)
	c.Webcam.Window = envString(EnvWindow, c.Webcam.Window)

	c.Preview.Addr = envString(EnvPreviewAddr, c.Preview.Addr)
	c.Preview.MaxWidth = envInt(EnvPreviewWidth, c.Preview.MaxWidth)
	c.Preview.JPEGQuality = envInt(EnvPreviewQuality, c.Preview.JPEGQuality)

	c.Log.Level = envString(EnvLogLevel, c.Log.Level)
	c.Log.File = envString(EnvLogFile, c.Log.File)
}

func applyClassifierEnv(cc *detection.ClassifierConfig, modelKey, scaleKey, neighborsKey string) {
	cc.ModelPath = envString(modelKey, cc.ModelPath)
	cc.ScaleFactor = envFloat(scaleKey, cc.ScaleFactor)
	cc.MinNeighbors = envInt(neighborsKey, cc.MinNeighbors)
}

var validate = validator.New()

// Validate checks every section and the color table.
func (c *Config) Validate() error {
	if err := c.Detection.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: %s: failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.ColorConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ColorConfig converts the hex color table into detection colors.
func (c *Config) ColorConfig() (detection.ColorConfig, error) {
	return imaging.ParseColorConfig(c.Colors)
}

// envString returns the value of key, or defaultVal if it is unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as an integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return defaultVal
}

// envFloat is envInt for floating point values.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}
