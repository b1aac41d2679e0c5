// Package preview serves a browser view of live detection results.
//
// A single producer goroutine reads camera frames, runs the detector, draws
// the results and publishes each annotated frame. Viewers subscribe to the
// latest frame:
//
//	GET  /             HTML page with a Run checkbox and the live stream
//	GET  /stream.mjpeg multipart JPEG stream of annotated frames
//	GET  /ws           websocket pushing one JSON FrameEvent per frame
//	POST /run          {"run": bool} starts or pauses the camera
//	POST /detect       detect faces in an uploaded image (form field "image")
//	GET  /healthz      liveness probe
//
// Detector calls are serialized; frames are never processed concurrently.
// Slow viewers skip frames instead of delaying the producer.
package preview
