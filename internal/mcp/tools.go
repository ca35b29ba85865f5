package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"dictation/internal/segment"
	"dictation/internal/service"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // No .txt document at the given path
)

// handleSegmentText handles the segment_text tool invocation
func (s *Server) handleSegmentText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}

	var bounds segment.Bounds
	var err error
	if bounds.MaxLen, err = getInt(args, "max_len", 1); err != nil {
		return nil, err
	}
	if bounds.MinLen, err = getInt(args, "min_len", 0); err != nil {
		return nil, err
	}

	sentences, err := s.svc.SegmentWith(text, bounds)
	if err != nil {
		if errors.Is(err, segment.ErrInvalidConfig) {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid bounds", map[string]interface{}{
				"reason": err.Error(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "segmentation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.log.DebugContext(ctx, "segment_text",
		"text_len", len(text),
		"sentences", len(sentences))

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"sentences": sentences,
		"count":     len(sentences),
	})), nil
}

// handleBuildLesson handles the build_lesson tool invocation
func (s *Server) handleBuildLesson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		return nil, newMCPError(ErrorCodeInvalidParams, "path must be absolute", map[string]interface{}{
			"param": "path",
			"value": path,
		})
	}

	lessons, err := s.svc.IngestDocuments(ctx, []string{path})
	if err != nil {
		if errors.Is(err, service.ErrNoDocuments) || errors.Is(err, fs.ErrNotExist) {
			return nil, newMCPError(ErrorCodeDocumentNotFound, "no .txt document at path", map[string]interface{}{
				"param":  "path",
				"reason": err.Error(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "lesson build failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out, err := json.MarshalIndent(lessons[0], "", "  ")
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "encode lesson", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(string(out)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getInt extracts an optional integer parameter no smaller than lowest.
// A missing parameter yields nil.
func getInt(args map[string]interface{}, key string, lowest int) (*int, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return nil, nil
	}
	var v int
	switch val := raw.(type) {
	case float64:
		if val != math.Trunc(val) {
			return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an integer", map[string]interface{}{
				"param": key,
				"value": val,
			})
		}
		v = int(val)
	case int:
		v = val
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an integer", map[string]interface{}{
			"param": key,
			"value": raw,
		})
	}
	if v < lowest {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("%s must be at least %d", key, lowest), map[string]interface{}{
			"param": key,
			"value": v,
		})
	}
	return &v, nil
}
