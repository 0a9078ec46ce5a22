package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, detected format and whether it carries transparency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Background Operations
		{
			Name:        "image_detect_background",
			Description: "Estimate the background color from the four corners and report how many pixels fall within the tolerance of it, along with the dominant colors of the image. Writes nothing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Per-channel distance below which a pixel matches the background (1-256). Default 30",
						"default":     30,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_remove_background",
			Description: "Remove the background of an image and write the result as PNG, either transparent or flattened onto a solid color. Falls back to near-white detection (transparent output) if the primary detection fails.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_path":  pathProperty("Absolute path to the source image"),
					"output_path": pathProperty("Absolute path for the PNG result; parent directories are created"),
					"background_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"transparent", "solid"},
						"description": "Output mode. Default transparent",
						"default":     "transparent",
					},
					"background_color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color as #RRGGBB for solid output. Default #ffffff",
						"default":     "#ffffff",
					},
				},
				"required": []string{"input_path", "output_path"},
			},
		},
		{
			Name:        "image_transparent_background",
			Description: "Make the background of an image partially or fully transparent and write the result as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_path":  pathProperty("Absolute path to the source image"),
					"output_path": pathProperty("Absolute path for the PNG result; parent directories are created"),
					"transparency_level": map[string]interface{}{
						"type":        "integer",
						"description": "0 keeps the background opaque, 100 removes it. Default 100",
						"minimum":     0,
						"maximum":     100,
						"default":     100,
					},
				},
				"required": []string{"input_path", "output_path"},
			},
		},

		// Upscaling
		{
			Name:        "image_upscale",
			Description: "Enlarge an image with Lanczos resampling followed by unsharp masking and write the result as an RGB PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_path":  pathProperty("Absolute path to the source image"),
					"output_path": pathProperty("Absolute path for the PNG result; parent directories are created"),
					"factor": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"2x", "4x", "8x"},
						"description": "Scale factor. Default 2x",
						"default":     "2x",
					},
				},
				"required": []string{"input_path", "output_path"},
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
