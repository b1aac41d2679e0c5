// Package detection finds faces in color frames and, inside each face, eyes
// and smiles, then optionally draws the found regions back onto the frame.
//
// The pattern matching itself is delegated to a Matcher (in production a
// pretrained cascade classifier, see package cascade). This package owns the
// workflow around it: preprocessing, nested sub-region search, conversion of
// matcher output into plain Rect values, and annotation.
//
// # Pipeline
//
// RegionDetector.Detect runs the following steps for one frame:
//
//  1. Grayscale conversion using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B)
//  2. Histogram equalization of the grayscale frame
//  3. Face matching on the equalized frame
//  4. For every face: crop the equalized frame to the face (no padding) and
//     run the eye and smile matchers on the crop
//  5. One DetectionResult per face, in the order the face matcher returned them
//
// # Coordinate System
//
// Face bounds are relative to the top-left corner of the frame. Eye and smile
// rectangles are relative to the top-left corner of their face, so an eye at
// (2, 3) inside a face at (100, 40) covers frame pixel (102, 43). Annotation
// draws eyes and smiles through a face-local view of the frame and never
// re-offsets them by hand.
//
// # Thread Safety
//
// A RegionDetector holds only immutable configuration and its loaded matchers.
// It adds no locking of its own: concurrent use is safe only when the matchers
// are. The cascade matchers backed by OpenCV are not, so callers should process
// frames from one goroutine.
//
// # Error Handling
//
// Construction fails fast with *ModelLoadError when a model file cannot be
// loaded. Matcher errors during Detect are returned unchanged for that frame
// and do not affect later calls. The package never logs and never retries.
package detection
