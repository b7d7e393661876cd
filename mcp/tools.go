package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/scrape"
	"github.com/mark3labs/mcp-go/mcp"
)

type storeInfo struct {
	Store  models.StoreID `json:"store"`
	Domain string         `json:"domain"`
}

func (s *Server) registerTools() {
	// scrape_offers
	scrapeTool := mcp.NewTool("scrape_offers",
		mcp.WithDescription("Scrape promotional offers from ICA or Willys offer pages and return normalized prices"),
		mcp.WithString("url",
			mcp.Description("One offer page URL"),
		),
		mcp.WithArray("urls",
			mcp.Description("Several offer page URLs, scraped in order; takes precedence over url"),
			mcp.WithStringItems(),
		),
		mcp.WithString("sort",
			mcp.Description("Optional ordering: price (ascending unit price) or percent (largest discount first)"),
			mcp.Enum(scrape.SortPrice, scrape.SortPercent),
		),
	)
	s.mcp.AddTool(scrapeTool, s.handleScrapeOffers)

	// list_stores
	storesTool := mcp.NewTool("list_stores",
		mcp.WithDescription("List supported stores and the URL fragment that selects each"),
	)
	s.mcp.AddTool(storesTool, s.handleListStores)
}

func (s *Server) handleScrapeOffers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urls, err := scrape.Targets(request.GetString("url", ""), request.GetStringSlice("urls", nil))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.scraper.ScrapeMany(ctx, urls)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scrape error: %v", err)), nil
	}
	if err := scrape.SortOffers(res.Items, request.GetString("sort", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListStores(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(s.stores(), "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) stores() []storeInfo {
	adapters := s.scraper.Registry().List()
	out := make([]storeInfo, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, storeInfo{Store: a.Store(), Domain: a.Domain()})
	}
	return out
}
