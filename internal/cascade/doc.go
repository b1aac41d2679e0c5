// Package cascade loads pretrained OpenCV cascade classifiers (Haar or LBP
// XML files) through gocv and exposes them as detection.Matcher values.
//
// # Prerequisites
//
// gocv links against OpenCV 4, which must be installed on the system:
//   - Ubuntu/Debian: see https://gocv.io/getting-started/linux/
//   - macOS: brew install opencv
//
// The stock model files live in the OpenCV repository under data/haarcascades,
// for example haarcascade_frontalface_alt.xml, haarcascade_eye.xml and
// haarcascade_smile.xml.
//
// # Thread Safety
//
// A Classifier wraps a native OpenCV object and must not be used from more
// than one goroutine at a time.
package cascade
