package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/imaging"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>...",
	Short: "Detect faces in image files and print the results as JSON",
	Long: `Detect faces, eyes and smiles in one or more image files. Results are
printed to stdout as a JSON array with one entry per file; eye and smile
rectangles are relative to their face.

Examples:
  # Print detections
  faces-detector detect photo.jpg

  # Also write annotated copies
  faces-detector detect --annotate-dir out/ photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().String("annotate-dir", "", "Write annotated copies of the images to this directory")
	detectCmd.Flags().Bool("no-progress", false, "Hide the progress bar")
}

// FileResult is the detect output for one file.
type FileResult struct {
	Path      string                      `json:"path"`
	Width     int                         `json:"width,omitempty"`
	Height    int                         `json:"height,omitempty"`
	Faces     []detection.DetectionResult `json:"faces"`
	Annotated string                      `json:"annotated,omitempty"`
	Error     string                      `json:"error,omitempty"`
}

type frameDetector interface {
	Detect(frame image.Image) ([]detection.DetectionResult, error)
}

// batch detects faces in a list of files. Failures are recorded per file.
type batch struct {
	detector    frameDetector
	cache       *imaging.ImageCache
	colors      detection.ColorConfig
	annotateDir string
	log         logrus.FieldLogger
	bar         *progressbar.ProgressBar
}

func runDetect(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	annotateDir := mustGetString(cmd, "annotate-dir")
	if annotateDir != "" {
		if err := os.MkdirAll(annotateDir, 0o755); err != nil {
			return fmt.Errorf("failed to create annotate dir: %w", err)
		}
	}

	b := &batch{
		detector:    a.detector,
		cache:       imaging.NewImageCache(),
		colors:      a.colors,
		annotateDir: annotateDir,
		log:         a.log,
	}
	if !mustGetBool(cmd, "no-progress") && len(args) > 1 {
		b.bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Detecting faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	results := b.run(args)
	if err := writeResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(results))
	}
	return nil
}

func (b *batch) run(paths []string) []FileResult {
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res, err := b.detectFile(path)
		if err != nil {
			b.log.WithField("path", path).WithError(err).Warn("detection failed")
			res = FileResult{Path: path, Faces: []detection.DetectionResult{}, Error: err.Error()}
		}
		results = append(results, res)
		b.cache.Evict(path)
		if b.bar != nil {
			b.bar.Add(1)
		}
	}
	if b.bar != nil {
		b.bar.Finish()
	}
	return results
}

func (b *batch) detectFile(path string) (FileResult, error) {
	frame, err := b.cache.LoadFrame(path)
	if err != nil {
		return FileResult{}, err
	}

	faces, err := b.detector.Detect(frame)
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{
		Path:   path,
		Width:  frame.Bounds().Dx(),
		Height: frame.Bounds().Dy(),
		Faces:  faces,
	}

	if b.annotateDir != "" {
		detection.Annotate(frame, faces, b.colors)
		out := filepath.Join(b.annotateDir, filepath.Base(path))
		if err := imaging.SaveFrame(frame, out); err != nil {
			return FileResult{}, err
		}
		res.Annotated = out
	}

	b.log.WithFields(logrus.Fields{"path": path, "faces": len(faces)}).Debug("image processed")
	return res, nil
}

func writeResults(w io.Writer, results []FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
