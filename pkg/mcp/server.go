// Package mcp serves generated design tokens to coding agents over the Model
// Context Protocol.
//
// **Features:**
//   - Query tools - list collections, read a collection in one mode, resolve
//     a {Collection.path} reference
//   - Color tools - shade ramps (memoized in an LRU) and contrast picks
//   - Hot swap - SetResult replaces the served run without restarting
//   - Call log and metrics - optional middleware around every tool
//
// **Usage:**
//
//	srv, err := mcp.NewServer(out.Result, mcp.Options{CallLog: callLog, Metrics: m})
//	if err != nil {
//	    return err
//	}
//	return srv.ServeStdio()
package mcp

import (
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/mcplog"
	"github.com/gnana997/uitokens/pkg/metrics"
	"github.com/gnana997/uitokens/pkg/resolve"
)

const serverVersion = "0.1.0-dev"

// DefaultShadeCacheSize is used when Options.ShadeCacheSize is zero.
const DefaultShadeCacheSize = 128

// Options configures a Server. Every field is optional.
type Options struct {
	CallLog        *mcplog.Logger
	Metrics        *metrics.Metrics
	ShadeCacheSize int
}

type shadeKey struct {
	hex  string
	fine bool
}

// Server exposes a resolved run through MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	result    atomic.Pointer[resolve.Result]
	shades    *lru.Cache[shadeKey, []color.Shade]
	callLog   *mcplog.Logger
	metrics   *metrics.Metrics
}

// NewServer creates a server for res.
func NewServer(res *resolve.Result, opts Options) (*Server, error) {
	if res == nil {
		return nil, errors.New("mcp: nil result")
	}
	size := opts.ShadeCacheSize
	if size <= 0 {
		size = DefaultShadeCacheSize
	}
	shades, err := lru.New[shadeKey, []color.Shade](size)
	if err != nil {
		return nil, fmt.Errorf("mcp: create shade cache: %w", err)
	}

	s := &Server{shades: shades, callLog: opts.CallLog, metrics: opts.Metrics}
	s.result.Store(res)

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.metrics != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.metricsMiddleware()))
	}
	if s.callLog != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("uitokens", serverVersion, serverOpts...)

	s.mcpServer.AddTools(s.tools()...)
	return s, nil
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listCollectionsTool(), Handler: s.handleListCollections},
		{Tool: getTokensTool(), Handler: s.handleGetTokens},
		{Tool: resolveReferenceTool(), Handler: s.handleResolveReference},
		{Tool: generateShadesTool(), Handler: s.handleGenerateShades},
		{Tool: contrastColorTool(), Handler: s.handleContrastColor},
	}
}

// Result returns the run currently served.
func (s *Server) Result() *resolve.Result {
	return s.result.Load()
}

// SetResult replaces the served run. Calls in flight keep the run they
// started with.
func (s *Server) SetResult(res *resolve.Result) {
	if res != nil {
		s.result.Store(res)
	}
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
