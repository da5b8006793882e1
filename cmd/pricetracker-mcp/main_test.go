package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *apiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &apiClient{baseURL: srv.URL, apiKey: "secret", http: srv.Client()}
}

func TestScrapeProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scrape", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://didongviet.vn/p", body["url"])

		_, _ = w.Write([]byte(`{"success":true,"site":"didongviet","data":{
			"title":"Phone X","price":12990000,"original_price":14990000,
			"currency":"VND","is_available":false}}`))
	})

	text, isErr := callTool(t, handleScrapeProduct(c), map[string]any{"url": "https://didongviet.vn/p"})

	assert.False(t, isErr)
	assert.Contains(t, text, "Title: Phone X")
	assert.Contains(t, text, "Site: didongviet")
	assert.Contains(t, text, "Price: 12.990.000 ₫")
	assert.Contains(t, text, "Original price: 14.990.000 ₫")
	assert.Contains(t, text, "out of stock")
}

func TestScrapeProduct_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NAVIGATION_FAILED","message":"net::ERR_NAME_NOT_RESOLVED"}}`))
	})

	text, isErr := callTool(t, handleScrapeProduct(c), map[string]any{})
	assert.True(t, isErr)
	assert.Equal(t, "url is required", text)

	text, isErr = callTool(t, handleScrapeProduct(c), map[string]any{"url": "https://gone.vn"})
	assert.True(t, isErr)
	assert.Equal(t, "[NAVIGATION_FAILED] net::ERR_NAME_NOT_RESOLVED", text)
}

func TestRefreshProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p 1/refresh", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"recorded":true,
			"latest":{"price":100,"currency":"VND","recorded_at":"2026-01-01T00:00:00Z"},
			"product":{"title":"Phone X","price":100,"currency":"VND","is_available":true}}}`))
	})

	text, isErr := callTool(t, handleRefreshProduct(c), map[string]any{
		"product_id": "p 1",
		"url":        "https://fptshop.com.vn/p",
	})

	assert.False(t, isErr)
	assert.Contains(t, text, "Price: 100 ₫")
	assert.Contains(t, text, "New price recorded.")

	_, isErr = callTool(t, handleRefreshProduct(c), map[string]any{"url": "https://fptshop.com.vn/p"})
	assert.True(t, isErr)
}
