package cli

import (
	"context"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/faces-detector/internal/capture"
)

var webcamCmd = &cobra.Command{
	Use:   "webcam",
	Short: "Detect faces live from a camera and show them in a window",
	Long: `Open a camera, detect faces, eyes and smiles in every frame and show the
annotated frames in a window. Press ESC in the window to quit.

Examples:
  # Default camera
  faces-detector webcam

  # Second camera, stricter face matching
  faces-detector webcam --device 1 --face-neighbors 8`,
	Args: cobra.NoArgs,
	RunE: runWebcam,
}

func init() {
	rootCmd.AddCommand(webcamCmd)

	webcamCmd.Flags().Int("device", 0, "Camera index (env FACES_DEVICE)")
	webcamCmd.Flags().String("window", "Faces", "Window title (env FACES_WINDOW)")
}

func runWebcam(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("device") {
		a.cfg.Webcam.Device = mustGetInt(cmd, "device")
	}
	if cmd.Flags().Changed("window") {
		a.cfg.Webcam.Window = mustGetString(cmd, "window")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := capture.Options{
		Device: a.cfg.Webcam.Device,
		Window: a.cfg.Webcam.Window,
		Logger: a.log,
	}

	return capture.Webcam(ctx, opts, func(frame *image.RGBA) (image.Image, error) {
		return a.detector.DetectAndAnnotate(frame, a.colors)
	})
}
