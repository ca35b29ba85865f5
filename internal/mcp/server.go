package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"dictation/internal/domain"
	"dictation/internal/segment"
)

// ServerName is the MCP server name
const ServerName = "dictation"

// LessonPort is the subset of the lesson service the tools call.
type LessonPort interface {
	SegmentWith(text string, b segment.Bounds) ([]domain.Sentence, error)
	IngestDocuments(ctx context.Context, paths []string) ([]domain.Lesson, error)
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp *server.MCPServer
	svc LessonPort
	log *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(svc LessonPort, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		mcp: server.NewMCPServer(ServerName, version),
		svc: svc,
		log: log,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until ctx is cancelled or
// stdin is closed
func (s *Server) Serve(ctx context.Context) error {
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// Listen serves JSON-RPC messages read from in and writes responses to out.
// Cancelling ctx is a clean shutdown.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("mcp server starting", slog.String("transport", "stdio"))
	err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s.log.Info("mcp server stopped")
	return err
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(segmentTextTool(), s.handleSegmentText)
	s.mcp.AddTool(buildLessonTool(), s.handleBuildLesson)
}
