package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// segmentTextTool returns the tool definition for segment_text
func segmentTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "segment_text",
		Description: "Split Chinese text into short dictation sentences bounded by ideograph count",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Chinese text to segment",
				},
				"max_len": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum ideographs per sentence (defaults to the server setting)",
					"minimum":     1,
				},
				"min_len": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum ideographs per piece of a split sentence (defaults to the server setting)",
					"minimum":     0,
				},
			},
			Required: []string{"text"},
		},
	}
}

// buildLessonTool returns the tool definition for build_lesson
func buildLessonTool() mcp.Tool {
	return mcp.Tool{
		Name:        "build_lesson",
		Description: "Build a dictation lesson (vocabulary and practice sentences) from a .txt file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a UTF-8 .txt file",
				},
			},
			Required: []string{"path"},
		},
	}
}
