package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/faces-detector/internal/capture"
	"github.com/ironsheep/faces-detector/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve a live detection preview in the browser",
	Long: `Start an HTTP server that streams annotated camera frames to the browser.
Open the printed address and tick Run to start the camera.

Images can also be posted to /detect without a camera:
  curl -F image=@photo.jpg 'http://127.0.0.1:8501/detect?annotate=true'`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("addr", "127.0.0.1:8501", "Listen address (env FACES_PREVIEW_ADDR)")
	previewCmd.Flags().Int("device", 0, "Camera index (env FACES_DEVICE)")
	previewCmd.Flags().Int("width", 960, "Scale streamed frames down to this width, 0 keeps the camera size (env FACES_PREVIEW_WIDTH)")
	previewCmd.Flags().Bool("run", false, "Start the camera immediately")
	previewCmd.Flags().Bool("no-camera", false, "Serve uploads only, without opening a camera")
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("addr") {
		a.cfg.Preview.Addr = mustGetString(cmd, "addr")
	}
	if cmd.Flags().Changed("device") {
		a.cfg.Webcam.Device = mustGetInt(cmd, "device")
	}
	if cmd.Flags().Changed("width") {
		a.cfg.Preview.MaxWidth = mustGetInt(cmd, "width")
	}

	var source capture.Source
	if !mustGetBool(cmd, "no-camera") {
		cam, err := capture.OpenCamera(a.cfg.Webcam.Device)
		if err != nil {
			return err
		}
		defer cam.Close()
		source = cam
	}

	srv := preview.NewServer(a.detector, source, preview.Options{
		Addr:        a.cfg.Preview.Addr,
		MaxWidth:    a.cfg.Preview.MaxWidth,
		JPEGQuality: a.cfg.Preview.JPEGQuality,
		Colors:      a.colors,
		Run:         mustGetBool(cmd, "run"),
		Logger:      a.log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
