package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "faces_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "faces_detect":
		return s.handleFacesDetect(args)
	case "faces_annotate":
		return s.handleFacesAnnotate(args)
	case "faces_config":
		return s.handleFacesConfig(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as an
// empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Detection Handlers ===

// DetectResult is the faces_detect response.
type DetectResult struct {
	Path      string                      `json:"path"`
	Width     int                         `json:"width"`
	Height    int                         `json:"height"`
	FaceCount int                         `json:"face_count"`
	Faces     []detection.DetectionResult `json:"faces"`
}

// AnnotateResult is the faces_annotate response.
type AnnotateResult struct {
	DetectResult
	Image   *imaging.EncodedImage `json:"image"`
	SavedTo string                `json:"saved_to,omitempty"`
}

// ConfigResult is the faces_config response.
type ConfigResult struct {
	Classifiers detection.Config  `json:"classifiers"`
	Colors      map[string]string `json:"colors"`
}

type facesDetectArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFacesDetect(args json.RawMessage) (interface{}, error) {
	var a facesDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	faces, err := s.detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	return newDetectResult(a.Path, img.Bounds().Dx(), img.Bounds().Dy(), faces), nil
}

type facesAnnotateArgs struct {
	Path       string            `json:"path"`
	Colors     map[string]string `json:"colors"`
	OutputPath string            `json:"output_path"`
}

func (s *Server) handleFacesAnnotate(args json.RawMessage) (interface{}, error) {
	var a facesAnnotateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	overrides, err := imaging.ParseColorConfig(a.Colors)
	if err != nil {
		return nil, err
	}
	colors := make(detection.ColorConfig, len(detection.Kinds))
	for _, kind := range detection.Kinds {
		colors[kind] = s.colors.For(kind)
		if c, ok := overrides[kind]; ok {
			colors[kind] = c
		}
	}

	frame, err := s.cache.LoadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	faces, err := s.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	detection.Annotate(frame, faces, colors)

	encoded, err := imaging.EncodePNGBase64(frame)
	if err != nil {
		return nil, err
	}

	result := &AnnotateResult{
		DetectResult: *newDetectResult(a.Path, frame.Bounds().Dx(), frame.Bounds().Dy(), faces),
		Image:        encoded,
	}

	if a.OutputPath != "" {
		if err := imaging.SaveFrame(frame, a.OutputPath); err != nil {
			return nil, err
		}
		result.SavedTo = a.OutputPath
	}

	return result, nil
}

func (s *Server) handleFacesConfig(args json.RawMessage) (interface{}, error) {
	return &ConfigResult{
		Classifiers: s.detector.Config(),
		Colors:      imaging.FormatColorConfig(s.colors),
	}, nil
}

func newDetectResult(path string, width, height int, faces []detection.DetectionResult) *DetectResult {
	return &DetectResult{
		Path:      path,
		Width:     width,
		Height:    height,
		FaceCount: len(faces),
		Faces:     faces,
	}
}
