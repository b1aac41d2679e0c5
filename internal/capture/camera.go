package capture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/faces-detector/internal/imaging"
)

// CameraSource reads frames from an OpenCV video capture device.
// It is safe for use by one reader at a time; Read calls are serialized.
type CameraSource struct {
	mu      sync.Mutex
	device  int
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenCamera opens the video capture device with the given index.
func OpenCamera(device int) (*CameraSource, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video capture device %d: %w", device, err)
	}
	return &CameraSource{
		device:  device,
		capture: vc,
		mat:     gocv.NewMat(),
	}, nil
}

// Read grabs the next frame. The blocking camera read itself is not
// interruptible; ctx is checked before it starts.
func (c *CameraSource) Read(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, fmt.Errorf("device %d: %w", c.device, ErrNoFrame)
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	return imaging.ToRGBA(img), nil
}

// Close releases the device.
func (c *CameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mat.Close()
	return c.capture.Close()
}

// Window shows frames in a native OpenCV window.
type Window struct {
	window *gocv.Window
}

// NewWindow creates a window with the given title.
func NewWindow(name string) *Window {
	return &Window{window: gocv.NewWindow(name)}
}

func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	w.window.IMShow(mat)
	return nil
}

func (w *Window) WaitKey(delay int) int {
	return w.window.WaitKey(delay)
}

func (w *Window) Close() error {
	return w.window.Close()
}
