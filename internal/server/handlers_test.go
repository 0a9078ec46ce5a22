package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImageFile writes a white PNG with a red square in the middle and
// returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= width/4 && x < width*3/4 && y >= height/4 && y < height*3/4 {
				c = color.RGBA{255, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs tools/call and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatal(err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult decodes the JSON text content of a successful tool call.
func toolResult(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	return out
}

func expectToolError(t *testing.T, resp *MCPResponse, contains string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, contains) {
		t.Errorf("error data %q does not mention %q", data, contains)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	out := toolResult(t, callTool(t, s, "image_load", map[string]interface{}{
		"path": createTestImageFile(t, 100, 80),
	}))

	if out["width"] != float64(100) || out["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v", out["width"], out["height"])
	}
	if out["format"] != "png" {
		t.Errorf("format: got %v", out["format"])
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New(nil)
	out := toolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{
		"path": createTestImageFile(t, 200, 150),
	}))

	if out["width"] != float64(200) || out["height"] != float64(150) {
		t.Errorf("dimensions: got %vx%v", out["width"], out["height"])
	}
}

func TestHandleToolsCall_ImageSampleColor(t *testing.T) {
	s := New(nil)
	out := toolResult(t, callTool(t, s, "image_sample_color", map[string]interface{}{
		"path": createTestImageFile(t, 40, 40),
		"x":    20,
		"y":    20,
	}))

	if out["hex"] != "#ff0000" {
		t.Errorf("hex: got %v, want #ff0000", out["hex"])
	}
}

func TestHandleToolsCall_DetectBackground(t *testing.T) {
	s := New(nil)
	out := toolResult(t, callTool(t, s, "image_detect_background", map[string]interface{}{
		"path": createTestImageFile(t, 40, 40),
	}))

	bg := out["background"].(map[string]interface{})
	if bg["hex"] != "#ffffff" {
		t.Errorf("background: got %v, want #ffffff", bg["hex"])
	}
	if out["background_pixels"] != float64(1200) {
		t.Errorf("background_pixels: got %v, want 1200", out["background_pixels"])
	}
	if out["coverage"] != 0.75 {
		t.Errorf("coverage: got %v, want 0.75", out["coverage"])
	}
}

func TestHandleToolsCall_RemoveBackground(t *testing.T) {
	s := New(nil)
	output := filepath.Join(t.TempDir(), "out", "cutout.png")

	out := toolResult(t, callTool(t, s, "image_remove_background", map[string]interface{}{
		"input_path":       createTestImageFile(t, 40, 40),
		"output_path":      output,
		"background_type":  "solid",
		"background_color": "#00ff00",
	}))

	if out["tier"] != "primary" || out["mode"] != "solid" {
		t.Errorf("unexpected result: %v", out)
	}
	if out["output_path"] != output {
		t.Errorf("output_path: got %v", out["output_path"])
	}
	if out["has_alpha"] != false {
		t.Errorf("solid output should not have alpha")
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("corner: got %v, want green", got)
	}
}

func TestHandleToolsCall_TransparentBackground(t *testing.T) {
	s := New(nil)
	input := createTestImageFile(t, 40, 40)

	tests := []struct {
		name      string
		level     interface{}
		wantLevel float64
	}{
		{"default level", nil, 100},
		{"explicit zero", 0, 0},
		{"partial", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{
				"input_path":  input,
				"output_path": filepath.Join(t.TempDir(), "out.png"),
			}
			if tt.level != nil {
				args["transparency_level"] = tt.level
			}

			out := toolResult(t, callTool(t, s, "image_transparent_background", args))
			if out["transparency_level"] != tt.wantLevel {
				t.Errorf("transparency_level: got %v, want %v", out["transparency_level"], tt.wantLevel)
			}
			if out["has_alpha"] != true {
				t.Error("transparent output should have alpha")
			}
		})
	}
}

func TestHandleToolsCall_Upscale(t *testing.T) {
	s := New(nil)
	out := toolResult(t, callTool(t, s, "image_upscale", map[string]interface{}{
		"input_path":  createTestImageFile(t, 10, 6),
		"output_path": filepath.Join(t.TempDir(), "big.png"),
		"factor":      "4x",
	}))

	if out["width"] != float64(40) || out["height"] != float64(24) {
		t.Errorf("dimensions: got %vx%v, want 40x24", out["width"], out["height"])
	}
	if out["factor"] != float64(4) {
		t.Errorf("factor: got %v", out["factor"])
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := New(nil)
	input := createTestImageFile(t, 10, 10)
	dir := t.TempDir()

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		contains string
	}{
		{"missing file", "image_load", map[string]interface{}{"path": filepath.Join(dir, "missing.png")}, "not found"},
		{"missing path", "image_dimensions", map[string]interface{}{}, "path"},
		{"bad color", "image_remove_background", map[string]interface{}{
			"input_path": input, "output_path": filepath.Join(dir, "a.png"),
			"background_type": "solid", "background_color": "#12",
		}, "#12"},
		{"bad mode", "image_remove_background", map[string]interface{}{
			"input_path": input, "output_path": filepath.Join(dir, "b.png"), "background_type": "blurred",
		}, "blurred"},
		{"level out of range", "image_transparent_background", map[string]interface{}{
			"input_path": input, "output_path": filepath.Join(dir, "c.png"), "transparency_level": 150,
		}, "150"},
		{"bad factor", "image_upscale", map[string]interface{}{
			"input_path": input, "output_path": filepath.Join(dir, "d.png"), "factor": "3x",
		}, "upscale factor"},
		{"sample out of bounds", "image_sample_color", map[string]interface{}{"path": input, "x": 50, "y": 0}, "outside"},
		{"unknown tool", "image_crop", map[string]interface{}{}, "unknown tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, tt.tool, tt.args), tt.contains)
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed calls left %d files behind", len(entries))
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602, got %+v", resp.Error)
	}
}
