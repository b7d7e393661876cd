package mcp

import (
	"github.com/lukman83/offerscrap/internal/scrape"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "offerscrap"

// Server exposes a Scraper as MCP tools and as a small JSON HTTP API.
type Server struct {
	scraper *scrape.Scraper
	mcp     *server.MCPServer
}

func NewServer(scraper *scrape.Scraper, version string) *Server {
	s := &Server{
		scraper: scraper,
		mcp: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// ServeStdio serves MCP over stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
