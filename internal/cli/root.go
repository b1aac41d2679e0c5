// Package cli implements the faces-detector command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/faces-detector/internal/cascade"
	"github.com/ironsheep/faces-detector/internal/config"
	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "faces-detector",
	Short: "Detect faces, eyes and smiles with OpenCV cascade classifiers",
	Long: `faces-detector finds faces in camera frames or image files, then looks for
eyes and smiles inside every face, and draws their bounding rectangles.

Faces are drawn red, eyes green and smiles blue unless configured otherwise.

Configuration is read, in increasing priority, from built-in defaults, the
YAML file given with --config, a .env file and FACES_* environment variables,
and command line flags.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	addRootFlags(rootCmd.PersistentFlags())
}

func addRootFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML configuration file")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error (env FACES_LOG_LEVEL)")
	flags.String("log-file", "", "Also write logs to this file, rotated (env FACES_LOG_FILE)")

	addClassifierFlags(flags, "face", "faces", detection.DefaultFacesModelPath)
	addClassifierFlags(flags, "eye", "eyes", detection.DefaultEyesModelPath)
	addClassifierFlags(flags, "smile", "smiles", detection.DefaultSmilesModelPath)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig layers flags over the file and environment configuration and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(mustGetString(cmd, "config"))
	if err != nil {
		return nil, err
	}

	applyClassifierFlags(cmd, "face", &cfg.Detection.Faces)
	applyClassifierFlags(cmd, "eye", &cfg.Detection.Eyes)
	applyClassifierFlags(cmd, "smile", &cfg.Detection.Smiles)

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = mustGetString(cmd, "log-level")
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = mustGetString(cmd, "log-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles what every detecting subcommand needs.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	detector *detection.RegionDetector
	colors   detection.ColorConfig
	closers  []io.Closer
}

// setup loads configuration, builds the logger and loads the three models.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	colors, err := cfg.ColorConfig()
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"faces":  cfg.Detection.Faces.ModelPath,
		"eyes":   cfg.Detection.Eyes.ModelPath,
		"smiles": cfg.Detection.Smiles.ModelPath,
	}).Debug("loading models")

	detector, err := detection.NewRegionDetector(cfg.Detection, cascade.Load)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      logger,
		detector: detector,
		colors:   colors,
		closers:  []io.Closer{detector, logCloser},
	}, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}
}
