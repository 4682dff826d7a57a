package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/shapekit/internal/config"
	"github.com/ironsheep/shapekit/internal/report"
	"github.com/ironsheep/shapekit/internal/scene"
	"github.com/ironsheep/shapekit/internal/shapes"
)

// createTestImageFile writes a white PNG with one dark square and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= width/4 && x < width/2 && y >= height/4 && y < height/2 {
				c = color.RGBA{20, 60, 160, 255}
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

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args any) *MCPResponse {
	t.Helper()
	params := map[string]any{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(context.Background(), &MCPRequest{
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

// decodeContent unmarshals the text payload of a successful tool response.
func decodeContent(t *testing.T, resp *MCPResponse, v any) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	content := result["content"].([]map[string]any)
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("invalid tool JSON: %v", err)
	}
}

var sampleShapes = []map[string]float64{
	{"area": 400, "perimeter": 80},    // ratio 16
	{"area": 1600, "perimeter": 160},  // ratio 16
	{"area": 100, "perimeter": 45.59}, // ratio ~20.78
	{"area": 0, "perimeter": 10},      // degenerate
}

func TestHandleToolsCall_ShapesClassify(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shapes_classify", map[string]any{"shapes": sampleShapes})

	var r report.Report
	decodeContent(t, resp, &r)

	if r.Mode != report.ModeClassify {
		t.Errorf("mode: got %s", r.Mode)
	}
	if len(r.Entries) != 3 {
		t.Fatalf("degenerate shape should be dropped: got %d entries", len(r.Entries))
	}
	want := []string{"square", "square", "triangle"}
	for i, e := range r.Entries {
		if e.Label != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, e.Label, want[i])
		}
	}
}

func TestHandleToolsCall_ShapesCluster(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shapes_cluster", map[string]any{"shapes": sampleShapes})

	var r report.Report
	decodeContent(t, resp, &r)

	if r.Threshold == nil || *r.Threshold != 2.0 {
		t.Errorf("default threshold: got %v", r.Threshold)
	}
	if len(r.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(r.Groups))
	}
	if r.Groups[0].Stats.Count != 2 || r.Groups[0].Stats.AvgScale != 2.0 {
		t.Errorf("group 1 stats: %+v", r.Groups[0].Stats)
	}

	// a wide threshold merges everything
	resp = callTool(t, s, "shapes_cluster", map[string]any{"shapes": sampleShapes, "threshold": 10})
	decodeContent(t, resp, &r)
	if len(r.Groups) != 1 {
		t.Errorf("threshold 10: got %d groups, want 1", len(r.Groups))
	}
}

func TestHandleToolsCall_ShapesClusterNegativeThreshold(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shapes_cluster", map[string]any{"shapes": sampleShapes, "threshold": -1})

	if resp.Error == nil {
		t.Fatal("expected an error")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_ShapesStatistics(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shapes_statistics", map[string]any{"shapes": sampleShapes[:2]})

	var st shapes.GroupStatistics
	decodeContent(t, resp, &st)

	if st.Count != 2 || st.AvgRatio != 16 {
		t.Errorf("stats: %+v", st)
	}
	if st.Similarity == nil || len(st.Similarity.Scores) != 1 {
		t.Errorf("similarity: %+v", st.Similarity)
	}
}

func TestHandleToolsCall_ShapesAnalyze(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 200)
	outDir := filepath.Join(t.TempDir(), "out")

	resp := callTool(t, s, "shapes_analyze", map[string]any{
		"path":       imgPath,
		"output_dir": outDir,
	})

	var res struct {
		Report report.Report `json:"report"`
		Files  []string      `json:"files"`
	}
	decodeContent(t, resp, &res)

	if res.Report.Source != imgPath {
		t.Errorf("source: got %q", res.Report.Source)
	}
	if len(res.Files) == 0 {
		t.Error("output_dir should produce files")
	}
	for _, f := range res.Files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
	t.Logf("analyze found %d entries in %d groups", len(res.Report.Entries), len(res.Report.Groups))
}

func TestHandleToolsCall_ShapesAnalyzeErrors(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 50, 50)

	tests := []struct {
		name     string
		args     map[string]any
		wantCode int
	}{
		{"missing path", map[string]any{}, -32602},
		{"bad mode", map[string]any{"path": imgPath, "mode": "kmeans"}, -32602},
		{"negative threshold", map[string]any{"path": imgPath, "threshold": -2}, -32602},
		{"nonexistent file", map[string]any{"path": "/nonexistent/image.png"}, -32000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "shapes_analyze", tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("Error.Code: got %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleToolsCall_SceneGenerate(t *testing.T) {
	s := newTestServer()
	out := filepath.Join(t.TempDir(), "scene.png")

	args := map[string]any{
		"circles":   2,
		"squares":   2,
		"triangles": 2,
		"seed":      7,
		"output":    out,
	}

	var first, second scene.Result
	decodeContent(t, callTool(t, s, "scene_generate", args), &first)
	delete(args, "output")
	decodeContent(t, callTool(t, s, "scene_generate", args), &second)

	if first.Width != 512 || first.Height != 512 {
		t.Errorf("canvas: got %dx%d", first.Width, first.Height)
	}
	if first.Stats.Circles.Requested != 2 {
		t.Errorf("requested circles: got %d", first.Stats.Circles.Requested)
	}
	if len(first.Records) != len(second.Records) {
		t.Fatalf("same seed should give the same scene: %d vs %d records", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		if first.Records[i].Center != second.Records[i].Center {
			t.Errorf("record %d differs: %v vs %v", i, first.Records[i].Center, second.Records[i].Center)
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("scene not rendered: %v", err)
	}
}

func TestHandleToolsCall_SceneGenerateInvalid(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "scene_generate", map[string]any{"width": 0})

	if resp.Error == nil {
		t.Fatal("expected an error")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_SceneGenerateCanvasCap(t *testing.T) {
	s := newTestServer()
	out := filepath.Join(t.TempDir(), "huge.png")

	tests := []struct {
		name string
		args map[string]any
	}{
		{"huge canvas", map[string]any{"width": 1000000, "height": 1000000, "output": out}},
		{"one side over", map[string]any{"width": 512, "height": config.DefaultMaxCanvas + 1, "output": out}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "scene_generate", tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != -32602 {
				t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
			}
		})
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("rejected request should not render")
	}

	// the cap itself is accepted
	var res scene.Result
	decodeContent(t, callTool(t, s, "scene_generate", map[string]any{
		"width": config.DefaultMaxCanvas, "height": 64, "circles": 0, "squares": 0, "triangles": 0,
	}), &res)
	if res.Width != config.DefaultMaxCanvas {
		t.Errorf("width: got %d", res.Width)
	}
}

func TestHandleToolsCall_ShapesAnalyzeReload(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 200, 200)

	analyze := func(reload bool) {
		t.Helper()
		resp := callTool(t, s, "shapes_analyze", map[string]any{"path": path, "reload": reload})
		if resp.Error != nil {
			t.Fatalf("analyze failed: %+v", resp.Error)
		}
	}
	cachedWidth := func() int {
		t.Helper()
		img, err := s.cache.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		return img.Bounds().Dx()
	}

	analyze(false)
	replaced := createTestImageFile(t, 80, 80)
	data, err := os.ReadFile(replaced)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	analyze(false)
	if got := cachedWidth(); got != 200 {
		t.Errorf("without reload the cached decode should be used, got width %d", got)
	}
	analyze(true)
	if got := cachedWidth(); got != 80 {
		t.Errorf("reload should decode the new file, got width %d", got)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "image_crop", map[string]any{})

	if resp.Error == nil {
		t.Fatal("expected an error")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_MalformedArguments(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"shapes_cluster","arguments":{"shapes":"nope"}}`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}
