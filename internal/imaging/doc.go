// Package imaging loads, encodes and saves the frames handled by the detector.
//
// All frames handed out by this package are *image.RGBA values with their
// origin at (0, 0), X increasing rightward and Y increasing downward. They are
// fresh copies, so the detector may draw on them without touching cached data.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The encode and color helpers
// are stateless.
//
// # Color Representation
//
// Region colors are written as hex strings ("#RRGGBB" or "#RGB") in
// configuration files, flags and tool arguments, and parsed with go-colorful.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O errors during loading or saving
//   - Undecodable image data
//   - Malformed color strings or unknown region kinds
package imaging
