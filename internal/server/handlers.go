package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/shapekit/internal/analysis"
	"github.com/ironsheep/shapekit/internal/imaging"
	"github.com/ironsheep/shapekit/internal/report"
	"github.com/ironsheep/shapekit/internal/scene"
	"github.com/ironsheep/shapekit/internal/shapes"
)

// errInvalidArgs marks argument problems, reported as -32602 rather than
// as tool failures.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "shapes_analyze", "scene_generate").
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
// Argument problems return -32602; any other tool error returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	// Image analysis
	case "shapes_analyze":
		return s.handleShapesAnalyze(ctx, args)

	// Descriptor operations
	case "shapes_classify":
		return s.handleShapesClassify(args)
	case "shapes_cluster":
		return s.handleShapesCluster(args)
	case "shapes_statistics":
		return s.handleShapesStatistics(args)

	// Scene generation
	case "scene_generate":
		return s.handleSceneGenerate(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// decodeArgs unmarshals tool arguments; empty arguments leave v untouched.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Image Analysis Handlers ===

type shapesAnalyzeArgs struct {
	Path      string   `json:"path"`
	Mode      string   `json:"mode"`
	Threshold *float64 `json:"threshold"`
	MinArea   *float64 `json:"min_area"`
	OutputDir string   `json:"output_dir"`
	Reload    bool     `json:"reload"`
}

type shapesAnalyzeResult struct {
	Report *report.Report `json:"report"`
	Files  []string       `json:"files,omitempty"`
}

func (s *Server) handleShapesAnalyze(ctx context.Context, args json.RawMessage) (any, error) {
	var a shapesAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}

	ac := s.cfg.Analyze
	opts := analysis.Options{
		Threshold:  ac.Threshold,
		MinArea:    ac.MinArea,
		Preprocess: ac.PreprocessOptions(),
	}
	if a.Mode == "" {
		a.Mode = ac.Mode
	}
	mode, err := report.ParseMode(a.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	opts.Mode = mode
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.MinArea != nil {
		opts.MinArea = *a.MinArea
	}
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: %w: %v", errInvalidArgs, shapes.ErrInvalidThreshold, opts.Threshold)
	}

	if a.Reload {
		s.cache.Evict(a.Path)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("image ready", "path", a.Path, "cached", s.cache.Len())
	res, err := analysis.Run(ctx, img, opts)
	if err != nil {
		return nil, err
	}
	res.Report.Source = a.Path
	s.logger.Info("analyzed image", "path", a.Path, "shapes", len(res.Descriptors), "groups", res.Report.NonEmptyGroups())

	out := shapesAnalyzeResult{Report: res.Report}
	if a.OutputDir != "" {
		files, err := res.Save(a.OutputDir, analysis.SaveOptions{Histograms: ac.Histograms})
		if err != nil {
			return nil, err
		}
		out.Files = files
	}
	return out, nil
}

// === Descriptor Operation Handlers ===

type shapeArg struct {
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
}

type shapesArgs struct {
	Shapes    []shapeArg `json:"shapes"`
	Threshold *float64   `json:"threshold"`
}

func (a shapesArgs) descriptors() []shapes.Descriptor {
	m := make([]shapes.Measurement, len(a.Shapes))
	for i, sh := range a.Shapes {
		m[i] = shapes.Measurement{Area: sh.Area, Perimeter: sh.Perimeter}
	}
	return shapes.Filter(m)
}

func (s *Server) handleShapesClassify(args json.RawMessage) (any, error) {
	var a shapesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	labels, byCategory := shapes.ClassifyAll(a.descriptors())
	return report.FromClassification(labels, byCategory), nil
}

func (s *Server) handleShapesCluster(args json.RawMessage) (any, error) {
	var a shapesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	threshold := s.cfg.Analyze.Threshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	clusters, err := shapes.Cluster(a.descriptors(), threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidArgs, err)
	}
	return report.FromClusters(clusters, threshold), nil
}

func (s *Server) handleShapesStatistics(args json.RawMessage) (any, error) {
	var a shapesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return shapes.SimilarityStatistics(shapes.Group(a.descriptors())), nil
}

// === Scene Generation Handlers ===

type sceneGenerateArgs struct {
	Width     *int   `json:"width"`
	Height    *int   `json:"height"`
	Circles   *int   `json:"circles"`
	Squares   *int   `json:"squares"`
	Triangles *int   `json:"triangles"`
	Seed      *int64 `json:"seed"`
	Output    string `json:"output"`
}

type sceneGenerateResult struct {
	*scene.Result
	Output string `json:"output,omitempty"`
}

func (s *Server) handleSceneGenerate(args json.RawMessage) (any, error) {
	var a sceneGenerateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	gc := s.cfg.Generate
	override := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	override(&gc.Width, a.Width)
	override(&gc.Height, a.Height)
	override(&gc.Circles, a.Circles)
	override(&gc.Squares, a.Squares)
	override(&gc.Triangles, a.Triangles)

	merged := *s.cfg
	merged.Generate = gc
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidArgs, err)
	}

	res, err := scene.Generate(gc.SceneConfig(), gc.Counts(), a.Seed)
	if err != nil {
		if errors.Is(err, scene.ErrInvalidConfig) {
			return nil, fmt.Errorf("%w: %w", errInvalidArgs, err)
		}
		return nil, err
	}
	s.logger.Info("generated scene", "placed", res.Stats.Placed(), "skipped", res.Stats.Skipped())

	out := sceneGenerateResult{Result: res}
	if a.Output != "" {
		if err := imaging.Save(a.Output, scene.Render(res, gc.BackgroundColor())); err != nil {
			return nil, err
		}
		out.Output = a.Output
	}
	return out, nil
}
