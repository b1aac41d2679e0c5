// Package capture reads frames from a camera, hands each one to a processing
// callback and shows the result in a window.
//
// The loop is strictly sequential: a frame is read, processed and displayed
// before the next one is read. It stops when ESC is pressed in the window,
// when the context is cancelled, or on the first read, process or display
// error. The camera and window are always released.
//
// OpenCV access goes through gocv. Run takes a Source and a Display so the
// loop itself can be exercised without a camera.
package capture
