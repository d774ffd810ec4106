package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uitokens/pkg/mcplog"
)

// loggingMiddleware appends one JSONL entry per tool call. Only installed
// when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			_ = s.callLog.Write(mcplog.NewEntry(start, req, result, err))
			return result, err
		}
	}
}

// metricsMiddleware counts calls by tool and outcome. Error results count as
// errors.
func (s *Server) metricsMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			s.metrics.RecordToolCall(req.Params.Name, mcplog.CallError(result, err), time.Since(start).Seconds())
			return result, err
		}
	}
}
