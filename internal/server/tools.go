package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var colorsProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional rectangle colors as hex strings keyed by region kind. Missing kinds use the configured colors.",
	"properties": map[string]interface{}{
		"faces":  map[string]interface{}{"type": "string", "description": "Face rectangle color, e.g. #FF0000"},
		"eyes":   map[string]interface{}{"type": "string", "description": "Eye rectangle color, e.g. #00FF00"},
		"smiles": map[string]interface{}{"type": "string", "description": "Smile rectangle color, e.g. #0000FF"},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "faces_detect",
			Description: "Detect faces in an image, and the eyes and smiles inside each face. Face boxes are in image pixels; eye and smile boxes are relative to the top-left corner of their face.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "faces_annotate",
			Description: "Detect faces, eyes and smiles and return the image with their bounding rectangles drawn, as base64-encoded PNG. Optionally also writes the annotated image to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"colors": colorsProperty,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the annotated image to. The format follows the extension (.png, .jpg).",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "faces_config",
			Description: "Report the classifier model paths, scale factors, min-neighbors values and rectangle colors in use.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
