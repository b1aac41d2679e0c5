package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeSource returns numbered frames; the frame index is stored in the red
// channel of pixel (0,0).
type fakeSource struct {
	failAt int // Read fails from this call on (1-based), 0 never
	reads  int
	closed bool
	onRead func(n int)
}

func (s *fakeSource) Read(ctx context.Context) (*image.RGBA, error) {
	s.reads++
	if s.onRead != nil {
		s.onRead(s.reads)
	}
	if s.failAt > 0 && s.reads >= s.failAt {
		return nil, ErrNoFrame
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{R: uint8(s.reads), A: 255})
	return img, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeDisplay records shown frames and replays scripted key presses.
type fakeDisplay struct {
	keys   []int
	shown  []image.Image
	delays []int
	closed bool
	err    error
}

func (d *fakeDisplay) Show(img image.Image) error {
	if d.err != nil {
		return d.err
	}
	d.shown = append(d.shown, img)
	return nil
}

func (d *fakeDisplay) WaitKey(delay int) int {
	d.delays = append(d.delays, delay)
	if len(d.keys) == 0 {
		return -1
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

func quietOptions() Options {
	logger, _ := test.NewNullLogger()
	return Options{Logger: logger}
}

func passThrough(frame *image.RGBA) (image.Image, error) {
	return frame, nil
}

func TestRun_StopsOnEscape(t *testing.T) {
	src := &fakeSource{}
	disp := &fakeDisplay{keys: []int{-1, 'a', KeyEscape, -1}}

	if err := Run(context.Background(), src, disp, quietOptions(), passThrough); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(disp.shown) != 3 {
		t.Errorf("frames shown: got %d, want 3", len(disp.shown))
	}
	if src.reads != 3 {
		t.Errorf("frames read: got %d, want 3", src.reads)
	}
	if !src.closed || !disp.closed {
		t.Error("source and display must be closed")
	}
}

func TestRun_DefaultWaitDelay(t *testing.T) {
	disp := &fakeDisplay{keys: []int{KeyEscape}}

	if err := Run(context.Background(), &fakeSource{}, disp, quietOptions(), passThrough); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(disp.delays) != 1 || disp.delays[0] != DefaultWaitDelay {
		t.Errorf("delays: got %v, want [%d]", disp.delays, DefaultWaitDelay)
	}
}

func TestRun_ShowsProcessedFrame(t *testing.T) {
	disp := &fakeDisplay{keys: []int{KeyEscape}}
	marked := image.NewRGBA(image.Rect(0, 0, 1, 1))

	process := func(frame *image.RGBA) (image.Image, error) {
		return marked, nil
	}

	if err := Run(context.Background(), &fakeSource{}, disp, quietOptions(), process); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if disp.shown[0] != marked {
		t.Error("the processed frame should be displayed")
	}
}

func TestRun_FramesInOrder(t *testing.T) {
	disp := &fakeDisplay{keys: []int{-1, -1, KeyEscape}}
	var seen []uint8

	process := func(frame *image.RGBA) (image.Image, error) {
		seen = append(seen, frame.RGBAAt(0, 0).R)
		return frame, nil
	}

	if err := Run(context.Background(), &fakeSource{}, disp, quietOptions(), process); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, v := range seen {
		if int(v) != i+1 {
			t.Errorf("frame %d: got index %d", i, v)
		}
	}
}

func TestRun_ProcessErrorEndsLoop(t *testing.T) {
	src := &fakeSource{}
	disp := &fakeDisplay{}
	errBoom := errors.New("matcher exploded")

	process := func(frame *image.RGBA) (image.Image, error) {
		return nil, errBoom
	}

	err := Run(context.Background(), src, disp, quietOptions(), process)
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want %v", err, errBoom)
	}
	if len(disp.shown) != 0 {
		t.Error("nothing should be shown after a process error")
	}
	if !src.closed || !disp.closed {
		t.Error("source and display must be closed after an error")
	}
}

func TestRun_ReadErrorEndsLoop(t *testing.T) {
	src := &fakeSource{failAt: 2}
	disp := &fakeDisplay{}

	err := Run(context.Background(), src, disp, quietOptions(), passThrough)
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("got %v, want ErrNoFrame", err)
	}
	if len(disp.shown) != 1 {
		t.Errorf("frames shown: got %d, want 1", len(disp.shown))
	}
}

func TestRun_DisplayError(t *testing.T) {
	errShow := errors.New("no display")
	disp := &fakeDisplay{err: errShow}

	err := Run(context.Background(), &fakeSource{}, disp, quietOptions(), passThrough)
	if !errors.Is(err, errShow) {
		t.Fatalf("got %v, want %v", err, errShow)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{onRead: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	disp := &fakeDisplay{}

	if err := Run(ctx, src, disp, quietOptions(), passThrough); err != nil {
		t.Fatalf("cancellation should end the loop cleanly, got %v", err)
	}
	if src.reads != 2 {
		t.Errorf("frames read: got %d, want 2", src.reads)
	}
	if !src.closed || !disp.closed {
		t.Error("source and display must be closed")
	}
}

func TestRun_LogsStartAndStop(t *testing.T) {
	logger, hook := test.NewNullLogger()
	disp := &fakeDisplay{keys: []int{KeyEscape}}

	if err := Run(context.Background(), &fakeSource{}, disp, Options{Logger: logger}, passThrough); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("log entries: got %d, want 2", len(entries))
	}
	if entries[1].Level != logrus.InfoLevel || entries[1].Data["frames"] != 1 {
		t.Errorf("stop entry: %+v", entries[1])
	}
}
