package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-bgtools/internal/imaging"
	"github.com/ironsheep/image-bgtools/internal/segment"
	"github.com/ironsheep/image-bgtools/internal/upscale"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_remove_background").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errMissingArgument is wrapped when a required argument is empty.
var errMissingArgument = errors.New("missing required argument")

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
		if imaging.IsCallerError(err) {
			s.logger.Debug("tool rejected", "tool", params.Name, "err", err)
		} else {
			s.logger.Error("tool failed", "tool", params.Name, "err", err)
		}
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the imaging, segment or upscale package
//  4. Returns the result or error
//
// Nothing is cached between calls; every call reads its input afresh.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Background Operations
	case "image_detect_background":
		return s.handleImageDetectBackground(args)
	case "image_remove_background":
		return s.handleImageRemoveBackground(args)
	case "image_transparent_background":
		return s.handleImageTransparentBackground(args)

	// Upscaling
	case "image_upscale":
		return s.handleImageUpscale(args)

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

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: invalid arguments: %v", imaging.ErrConfiguration, err)
	}
	return nil
}

func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %w: %s", imaging.ErrConfiguration, errMissingArgument, name)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("path", a.Path); err != nil {
		return nil, err
	}
	img, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Background Operation Handlers ===

type imageDetectBackgroundArgs struct {
	Path      string `json:"path"`
	Tolerance int    `json:"tolerance"`
}

func (s *Server) handleImageDetectBackground(args json.RawMessage) (interface{}, error) {
	var a imageDetectBackgroundArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("path", a.Path); err != nil {
		return nil, err
	}
	src, err := imaging.ReadInput(a.Path)
	if err != nil {
		return nil, err
	}
	return s.segmenter.Analyze(src, a.Tolerance)
}

type imageRemoveBackgroundArgs struct {
	InputPath       string `json:"input_path"`
	OutputPath      string `json:"output_path"`
	BackgroundType  string `json:"background_type"`
	BackgroundColor string `json:"background_color"`
}

func (s *Server) handleImageRemoveBackground(args json.RawMessage) (interface{}, error) {
	var a imageRemoveBackgroundArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths(a.InputPath, a.OutputPath); err != nil {
		return nil, err
	}
	mode, err := segment.ParseMode(a.BackgroundType)
	if err != nil {
		return nil, err
	}
	return s.segmenter.Run(a.InputPath, a.OutputPath, segment.RemoveBackgroundOptions(mode, a.BackgroundColor))
}

type imageTransparentBackgroundArgs struct {
	InputPath         string `json:"input_path"`
	OutputPath        string `json:"output_path"`
	TransparencyLevel *int   `json:"transparency_level"`
}

func (s *Server) handleImageTransparentBackground(args json.RawMessage) (interface{}, error) {
	var a imageTransparentBackgroundArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths(a.InputPath, a.OutputPath); err != nil {
		return nil, err
	}
	level := 100
	if a.TransparencyLevel != nil {
		level = *a.TransparencyLevel
	}
	return s.segmenter.Run(a.InputPath, a.OutputPath, segment.TransparencyOptions(level))
}

// === Upscaling Handlers ===

type imageUpscaleArgs struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Factor     string `json:"factor"`
}

func (s *Server) handleImageUpscale(args json.RawMessage) (interface{}, error) {
	var a imageUpscaleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths(a.InputPath, a.OutputPath); err != nil {
		return nil, err
	}
	factor, err := upscale.ParseFactor(a.Factor)
	if err != nil {
		return nil, err
	}
	return s.upscaler.Run(a.InputPath, a.OutputPath, factor)
}

func requirePaths(input, output string) error {
	if err := requireArg("input_path", input); err != nil {
		return err
	}
	return requireArg("output_path", output)
}
