package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/faces-detector/internal/logging"
)

const (
	// KeyEscape is the key code that ends the loop.
	KeyEscape = 27

	// DefaultWaitDelay is how long, in milliseconds, the window waits for a
	// key press after each frame.
	DefaultWaitDelay = 20
)

// ErrNoFrame is returned when the camera delivers no image.
var ErrNoFrame = errors.New("camera returned no frame")

// FrameFunc processes one frame and returns the image to display.
// Returning an error ends the loop.
type FrameFunc func(frame *image.RGBA) (image.Image, error)

// Source delivers frames. Each Read returns a new image owned by the caller.
type Source interface {
	Read(ctx context.Context) (*image.RGBA, error)
	Close() error
}

// Display shows frames and reports key presses.
type Display interface {
	Show(img image.Image) error

	// WaitKey waits up to delay milliseconds and returns the key pressed,
	// or -1 if none was.
	WaitKey(delay int) int

	Close() error
}

// Options configures Webcam.
type Options struct {
	Device    int    // camera index
	Window    string // window title
	WaitDelay int    // milliseconds; DefaultWaitDelay when zero
	Logger    logrus.FieldLogger // nil discards logs
}

// Webcam opens the camera and a window and runs the capture loop until ESC is
// pressed or ctx is cancelled.
func Webcam(ctx context.Context, opts Options, process FrameFunc) error {
	src, err := OpenCamera(opts.Device)
	if err != nil {
		return err
	}

	disp := NewWindow(opts.Window)

	return Run(ctx, src, disp, opts, process)
}

// Run drives the read, process, show loop. src and disp are closed on return.
//
// Cancellation and ESC end the loop with a nil error. A failed read, a
// process error or a display error is returned.
func Run(ctx context.Context, src Source, disp Display, opts Options, process FrameFunc) (err error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	delay := opts.WaitDelay
	if delay <= 0 {
		delay = DefaultWaitDelay
	}

	defer func() {
		err = errors.Join(err, disp.Close(), src.Close())
	}()

	log.WithFields(logrus.Fields{"device": opts.Device, "window": opts.Window}).Info("capture started, press ESC to quit")

	frames := 0
	for {
		if ctx.Err() != nil {
			log.WithField("frames", frames).Info("capture cancelled")
			return nil
		}

		frame, err := src.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read frame: %w", err)
		}

		out, err := process(frame)
		if err != nil {
			return err
		}
		frames++

		if err := disp.Show(out); err != nil {
			return fmt.Errorf("failed to show frame: %w", err)
		}

		if disp.WaitKey(delay) == KeyEscape {
			log.WithField("frames", frames).Info("capture stopped")
			return nil
		}
	}
}
