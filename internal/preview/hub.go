package preview

import (
	"sync"

	"github.com/ironsheep/faces-detector/internal/detection"
)

// FrameEvent describes the detections of one frame. Coordinates refer to a
// W x H frame.
type FrameEvent struct {
	Session  string                      `json:"session"`
	TsUnixMs int64                       `json:"ts"`
	W        int                         `json:"w"`
	H        int                         `json:"h"`
	Faces    []detection.DetectionResult `json:"faces"`
}

// Frame is one published, annotated frame.
type Frame struct {
	JPEG  []byte
	Event FrameEvent
}

// hub fans frames out to subscribers. Each subscriber holds at most one
// pending frame; an unread frame is replaced by a newer one.
type hub struct {
	mu     sync.Mutex
	subs   map[chan *Frame]struct{}
	latest *Frame
}

func newHub() *hub {
	return &hub{subs: make(map[chan *Frame]struct{})}
}

// subscribe registers a subscriber. The latest frame, if any, is delivered
// immediately. The returned func unsubscribes.
func (h *hub) subscribe() (<-chan *Frame, func()) {
	ch := make(chan *Frame, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.latest != nil {
		ch <- h.latest
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *hub) publish(f *Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = f
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- f
		}
	}
}

func (h *hub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
