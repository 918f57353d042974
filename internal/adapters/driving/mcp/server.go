package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/toonc/internal/logger"
)

const (
	// ServerName is the implementation name reported to MCP clients.
	ServerName = "toonc"

	// DefaultVersion is reported when Ports.Version is empty.
	DefaultVersion = "dev"

	shutdownTimeout = 5 * time.Second
)

// Server exposes the compiler to MCP clients.
//
// Tools:
//   - parse_toon: parse source text or a file into its document view
//   - compile_agent: render a source, writing the artifact when given a path
//   - validate_roundtrip: score a source against its compiled output
//
// Resources are read-only: recent compile history and the validator's
// pattern and edge case catalogs.
type Server struct {
	ports  *Ports
	impl   *mcp.Implementation
	server *mcp.Server
}

// NewServer creates a server over ports. Compile and Validator are required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	version := ports.Version
	if version == "" {
		version = DefaultVersion
	}
	impl := &mcp.Implementation{Name: ServerName, Version: version}

	s := &Server{
		ports:  ports,
		impl:   impl,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Implementation returns the name and version reported to clients.
func (s *Server) Implementation() mcp.Implementation {
	return *s.impl
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server %s %s on stdio", s.impl.Name, s.impl.Version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled. In-flight requests get shutdownTimeout to finish.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("MCP server %s %s on %s", s.impl.Name, s.impl.Version, addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutting down MCP server: %w", err)
	}
	return nil
}
