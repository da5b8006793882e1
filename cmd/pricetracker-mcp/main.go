package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tuanna8687/price-tracker/price"
)

// apiError mirrors models.ErrorDetail.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// productData mirrors models.ScrapedProduct.
type productData struct {
	Title         string   `json:"title"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url"`
	IsAvailable   bool     `json:"is_available"`
	Description   string   `json:"description"`
}

// scrapeResponse mirrors the POST /api/v1/scrape response.
type scrapeResponse struct {
	Success bool         `json:"success"`
	Data    *productData `json:"data"`
	Site    string       `json:"site"`
	Error   *apiError    `json:"error"`
}

// refreshResponse mirrors the POST /api/v1/products/:id/refresh response.
type refreshResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Recorded bool `json:"recorded"`
		Latest   *struct {
			Price      float64   `json:"price"`
			Currency   string    `json:"currency"`
			RecordedAt time.Time `json:"recorded_at"`
		} `json:"latest"`
		Product productData `json:"product"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

func main() {
	apiURL := os.Getenv("PT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PT_API_KEY")

	s := newServer(&apiClient{
		baseURL: strings.TrimSuffix(apiURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 120 * time.Second},
	})

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(c *apiClient) *server.MCPServer {
	s := server.NewMCPServer(
		"pricetracker",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_product",
		mcp.WithDescription("Scrape a Vietnamese e-commerce product page (thegioididong, cellphones, fptshop, didongviet or any shop) and return title, price, original price, availability and image."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The product page URL"),
		),
	)
	s.AddTool(scrapeTool, handleScrapeProduct(c))

	refreshTool := mcp.NewTool("refresh_product",
		mcp.WithDescription("Scrape a tracked product again and append its price to the history when it changed."),
		mcp.WithString("product_id",
			mcp.Required(),
			mcp.Description("Identifier of the tracked product"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The product page URL"),
		),
	)
	s.AddTool(refreshTool, handleRefreshProduct(c))

	return s
}

type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// post sends payload as JSON and returns the response body whatever the
// status; API errors are carried in the body.
func (c *apiClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleScrapeProduct(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		u, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		body, err := c.post(ctx, "/api/v1/scrape", map[string]string{"url": u})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp scrapeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success || resp.Data == nil {
			return mcp.NewToolResultError(errorText("scrape failed", resp.Error)), nil
		}

		return mcp.NewToolResultText(formatProduct(u, resp.Site, resp.Data)), nil
	}
}

func handleRefreshProduct(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError("product_id is required"), nil
		}
		u, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		path := "/api/v1/products/" + url.PathEscape(id) + "/refresh"
		body, err := c.post(ctx, path, map[string]string{"url": u})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp refreshResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText("refresh failed", resp.Error)), nil
		}

		var b strings.Builder
		b.WriteString(formatProduct(u, "", &resp.Data.Product))
		b.WriteString("\n---\n")
		switch {
		case resp.Data.Recorded:
			b.WriteString("New price recorded.")
		case resp.Data.Latest != nil:
			fmt.Fprintf(&b, "Price unchanged since %s.", resp.Data.Latest.RecordedAt.Format(time.RFC3339))
		default:
			b.WriteString("No price found, history unchanged.")
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func errorText(fallback string, e *apiError) string {
	if e == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func formatProduct(source, site string, p *productData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSource: %s\n", p.Title, source)
	if site != "" {
		fmt.Fprintf(&b, "Site: %s\n", site)
	}
	if p.Price != nil {
		fmt.Fprintf(&b, "Price: %s\n", price.Format(*p.Price, p.Currency))
	} else {
		b.WriteString("Price: not found\n")
	}
	if p.OriginalPrice != nil {
		fmt.Fprintf(&b, "Original price: %s\n", price.Format(*p.OriginalPrice, p.Currency))
	}
	if p.IsAvailable {
		b.WriteString("Availability: in stock\n")
	} else {
		b.WriteString("Availability: out of stock\n")
	}
	if p.ImageURL != "" {
		fmt.Fprintf(&b, "Image: %s\n", p.ImageURL)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}
	return b.String()
}
