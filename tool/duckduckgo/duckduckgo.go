//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package duckduckgo provides a DuckDuckGo Instant Answer search tool.
// It is suited to factual, encyclopedic lookups rather than real-time data.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentgraph-ai/agentgraph/tool"
	"github.com/agentgraph-ai/agentgraph/tool/function"
)

const (
	// ToolName is the roster tag and declared name of the search tool.
	ToolName = "ddg-search"

	// maxResults is the maximum number of search results to return.
	maxResults = 5
	// defaultBaseURL is the base URL for the DuckDuckGo Instant Answer API.
	defaultBaseURL = "https://api.duckduckgo.com"
	// defaultUserAgent identifies this client to the API.
	defaultUserAgent = "agentgraph-duckduckgo/1.0"
	// defaultTimeout bounds a single API request.
	defaultTimeout = 30 * time.Second

	description = "Search DuckDuckGo for factual, encyclopedic information " +
		"such as entity details, definitions, and calculations."
)

func init() {
	tool.Register(ToolName, func(cfg map[string]any) (tool.CallableTool, error) {
		var opts []Option
		if baseURL, ok := cfg["base_url"].(string); ok && baseURL != "" {
			opts = append(opts, WithBaseURL(baseURL))
		}
		return New(opts...), nil
	})
}

// Option is a functional option for configuring the DuckDuckGo tool.
type Option func(*config)

type config struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// WithBaseURL sets the base URL for the DuckDuckGo API.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// WithUserAgent sets the user agent for HTTP requests.
func WithUserAgent(userAgent string) Option {
	return func(c *config) { c.userAgent = userAgent }
}

// WithHTTPClient sets the HTTP client to use.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) { c.httpClient = httpClient }
}

// searchRequest is the input for the search tool.
type searchRequest struct {
	Query string `json:"query" jsonschema:"description=The search query to execute"`
}

// searchResponse is the output of the search tool.
type searchResponse struct {
	Query   string       `json:"query"`
	Summary string       `json:"summary,omitempty"`
	Results []resultItem `json:"results"`
}

// resultItem is a single search result.
type resultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// apiResponse mirrors the fields we consume from the Instant Answer API.
type apiResponse struct {
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Heading       string     `json:"Heading"`
	Answer        string     `json:"Answer"`
	RelatedTopics []apiTopic `json:"RelatedTopics"`
}

type apiTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// New creates the DuckDuckGo search tool.
func New(opts ...Option) tool.CallableTool {
	c := config{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return function.New(c.search,
		function.WithName(ToolName),
		function.WithDescription(description),
	)
}

func (c *config) search(ctx context.Context, req searchRequest) (searchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return searchResponse{}, fmt.Errorf("query must not be empty")
	}
	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		c.baseURL, url.QueryEscape(query))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return searchResponse{}, err
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return searchResponse{}, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return searchResponse{}, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return searchResponse{}, fmt.Errorf("decode duckduckgo response: %w", err)
	}
	return convert(query, api), nil
}

func convert(query string, api apiResponse) searchResponse {
	out := searchResponse{Query: query}
	switch {
	case api.Answer != "":
		out.Summary = api.Answer
	case api.AbstractText != "":
		out.Summary = api.AbstractText
	}
	if api.AbstractText != "" {
		out.Results = append(out.Results, resultItem{
			Title:       api.Heading,
			URL:         api.AbstractURL,
			Description: api.AbstractText,
		})
	}
	for _, topic := range api.RelatedTopics {
		if len(out.Results) >= maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		out.Results = append(out.Results, resultItem{
			Title:       topicTitle(topic.Text),
			URL:         topic.FirstURL,
			Description: topic.Text,
		})
	}
	return out
}

// topicTitle extracts a short title from a related-topic text, which the API
// formats as "Title - description".
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	if len(text) > 50 {
		return text[:50]
	}
	return text
}
