package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// shapesSchema describes an array of raw (area, perimeter) measurements.
var shapesSchema = map[string]any{
	"type":        "array",
	"description": "Shape measurements in input order. Entries with non-positive area or perimeter are dropped.",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"area": map[string]any{
				"type":        "number",
				"description": "Enclosed area in square pixels",
			},
			"perimeter": map[string]any{
				"type":        "number",
				"description": "Closed contour length in pixels",
			},
		},
		"required": []string{"area", "perimeter"},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image analysis
		{
			Name:        "shapes_analyze",
			Description: "Detect shapes in an image file and group them by perimeter²/area ratio, either by clustering or by nearest reference category (circle, square, triangle). Optionally writes the overlay, edge map and report files to a directory.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mode": map[string]any{
						"type":        "string",
						"enum":        []string{"cluster", "classify"},
						"description": "Grouping strategy. Default from configuration (cluster)",
					},
					"threshold": map[string]any{
						"type":        "number",
						"description": "Maximum ratio distance from a cluster's running mean. Default 2.0",
					},
					"min_area": map[string]any{
						"type":        "number",
						"description": "Contours must enclose more than this many square pixels. Default 300",
					},
					"output_dir": map[string]any{
						"type":        "string",
						"description": "Optional directory for result_image.png, edges.png, report.json and results_table.txt",
					},
					"reload": map[string]any{
						"type":        "boolean",
						"description": "Decode the file again instead of using the cached image. Use after the file changed on disk",
					},
				},
				"required": []string{"path"},
			},
		},

		// Descriptor operations
		{
			Name:        "shapes_classify",
			Description: "Label each shape with the category whose reference ratio (circle 4π, square 16, triangle 20.78) is nearest to its perimeter²/area ratio.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shapes": shapesSchema,
				},
				"required": []string{"shapes"},
			},
		},
		{
			Name:        "shapes_cluster",
			Description: "Group shapes whose perimeter²/area ratios lie within a threshold of the running group mean, scanning in ascending ratio order. Returns groups with ratio, scale and similarity statistics.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shapes": shapesSchema,
					"threshold": map[string]any{
						"type":        "number",
						"description": "Non-negative ratio threshold. Default 2.0",
					},
				},
				"required": []string{"shapes"},
			},
		},
		{
			Name:        "shapes_statistics",
			Description: "Compute ratio, area, scale and pairwise similarity statistics for one group of shapes.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shapes": shapesSchema,
				},
				"required": []string{"shapes"},
			},
		},

		// Scene generation
		{
			Name:        "scene_generate",
			Description: "Place random non-overlapping circles, squares and triangles on a canvas. Returns every placement and per-kind placed/skipped counts; optionally renders the scene to a PNG file.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"width": map[string]any{
						"type":        "integer",
						"description": "Canvas width in pixels. Default 512",
					},
					"height": map[string]any{
						"type":        "integer",
						"description": "Canvas height in pixels. Default 512",
					},
					"circles": map[string]any{
						"type":        "integer",
						"description": "Number of circles to place. Default 5",
					},
					"squares": map[string]any{
						"type":        "integer",
						"description": "Number of squares to place. Default 5",
					},
					"triangles": map[string]any{
						"type":        "integer",
						"description": "Number of triangles to place. Default 5",
					},
					"seed": map[string]any{
						"type":        "integer",
						"description": "Optional seed for a reproducible scene",
					},
					"output": map[string]any{
						"type":        "string",
						"description": "Optional PNG path to render the scene to",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"tools": GetToolDefinitions(),
		},
	}
}
